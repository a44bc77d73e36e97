package rabbitmq

import (
	"github.com/streadway/amqp"
)

// SearchHistoryQueue 搜索记录队列，服务端生产，consumer消费
const SearchHistoryQueue = "cliphub.search_history.queue"

// InitRabbitMQ 初始化RabbitMQ连接
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DeclareQueue 声明持久化队列，生产者和消费者两边都声明，谁先启动都可以
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}
