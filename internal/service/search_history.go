package service

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/pkg/rabbitmq"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/streadway/amqp"
)

var ErrBadMessage = errors.New("malformed search history message")

// SearchHistoryMessage 在MQ中传递的搜索记录
type SearchHistoryMessage struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searched_at"`
}

// SearchRecorder 搜索成功后把查询词交出去，由后台异步落库
type SearchRecorder interface {
	Record(ctx context.Context, query string) error
}

// NopSearchRecorder 没配置RabbitMQ时使用，什么都不做
type NopSearchRecorder struct{}

func (NopSearchRecorder) Record(context.Context, string) error { return nil }

type amqpSearchRecorder struct {
	conn *amqp.Connection
}

// NewSearchRecorder 声明队列后返回基于RabbitMQ的SearchRecorder
func NewSearchRecorder(conn *amqp.Connection) (SearchRecorder, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	// 只用来声明队列，用完就关
	defer ch.Close()
	if _, err := rabbitmq.DeclareQueue(ch, rabbitmq.SearchHistoryQueue); err != nil {
		return nil, err
	}
	return &amqpSearchRecorder{conn: conn}, nil
}

// Record 每条消息单独开一个channel，消息之间互不影响
func (r *amqpSearchRecorder) Record(_ context.Context, query string) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(SearchHistoryMessage{Query: query, SearchedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return ch.Publish(
		"",                          // 默认交换机
		rabbitmq.SearchHistoryQueue, // routing key就是队列名
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
}

// SearchHistoryWriter consumer端：解析消息并落库
type SearchHistoryWriter struct {
	repo repository.SearchHistoryRepository
}

func NewSearchHistoryWriter(repo repository.SearchHistoryRepository) *SearchHistoryWriter {
	return &SearchHistoryWriter{repo: repo}
}

// Handle 消息体无法解析或查询词为空时返回ErrBadMessage，调用方应该丢弃而不是重试
func (w *SearchHistoryWriter) Handle(ctx context.Context, body []byte) error {
	var msg SearchHistoryMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return ErrBadMessage
	}
	msg.Query = strings.TrimSpace(msg.Query)
	if msg.Query == "" {
		return ErrBadMessage
	}
	entry := &model.SearchHistory{Query: msg.Query, CreatedAt: msg.SearchedAt}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return w.repo.Create(ctx, entry)
}
