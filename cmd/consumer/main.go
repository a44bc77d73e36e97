package main

import (
	"ClipHub/internal/config"
	"ClipHub/internal/data"
	"ClipHub/internal/service"
	"ClipHub/pkg/logger"
	"ClipHub/pkg/rabbitmq"
	"context"
	"errors"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// 消费者进程：连接存储和RabbitMQ，把搜索历史消息落库
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置校验失败: %v", err)
	}
	if cfg.RabbitMQURL == "" {
		log.Fatalf("消费者需要配置RABBITMQ_URL")
	}
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	store, err := data.Open(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	defer store.Close(context.Background())

	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	consumeSearchHistory(rabbitMQConn, service.NewSearchHistoryWriter(store.Searches()))
}

// 搜索历史消费者：1、建channel并声明队列 2、注册手动ack的消费者 3、在当前goroutine上消费，通道关闭即退出进程
func consumeSearchHistory(conn *amqp.Connection, writer *service.SearchHistoryWriter) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// server可能还没启动过，这里也声明一次，声明是幂等的
	if _, err := rabbitmq.DeclareQueue(ch, rabbitmq.SearchHistoryQueue); err != nil {
		logger.Log.Fatalf("无法声明搜索历史队列: %v", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		logger.Log.Fatalf("无法设置预取数量: %v", err)
	}

	msgs, err := ch.Consume(
		rabbitmq.SearchHistoryQueue, // queue
		"",                          // consumer
		false,                       // auto-ack
		false,                       // exclusive
		false,                       // no-local
		false,                       // no-wait
		nil,                         // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册搜索历史消费者: %v", err)
	}
	logger.Log.Info(" [*] 等待搜索历史消息中. 按 CTRL+C 退出")
	// msgs在连接或channel断开时会被关闭，此时直接退出，由进程管理器负责重启
	handleDeliveries(msgs, writer)
	logger.Log.Fatal("RabbitMQ消息通道已关闭，消费者退出")
}

// handleDeliveries 逐条交给writer落库，直到msgs被关闭：坏消息丢弃，其余失败重新入队
func handleDeliveries(msgs <-chan amqp.Delivery, writer *service.SearchHistoryWriter) {
	for d := range msgs {
		logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := writer.Handle(ctx, d.Body)
		cancel()

		switch {
		case err == nil:
			d.Ack(false)
		case errors.Is(err, service.ErrBadMessage):
			// 坏消息重试也没用，直接删除
			logCtx.WithError(err).Error("消息解析失败，丢弃")
			d.Nack(false, false)
		default:
			logCtx.WithError(err).Error("搜索历史落库失败，将进行重试")
			d.Nack(false, true)
		}
	}
}
