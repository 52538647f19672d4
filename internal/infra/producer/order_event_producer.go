package producer

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/segmentio/kafka-go"
)

// OrderEventProducer 訂單 commit 後的整合事件
// key 為訂單ID, 同一訂單的 completed/cancelled 保持順序
type OrderEventProducer struct {
	writer        Writer
	topic         string
	retryAttempts int
	closed        atomic.Bool
}

func NewOrderEventProducer(writer Writer, topic string, retryAttempts int) *OrderEventProducer {
	return &OrderEventProducer{
		writer:        writer,
		topic:         topic,
		retryAttempts: retryAttempts,
	}
}

// PublishOrderEvent 同步發送, 會block到寫入完成
func (p *OrderEventProducer) PublishOrderEvent(ctx context.Context, evt model.OrderEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if evt.OrderID == "" || evt.EventName == "" {
		return NewKafkaError("PublishOrderEvent", p.topic, ErrInvalidateParameter)
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return NewKafkaError("PublishOrderEvent", p.topic, err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: constants.HeaderEventName, Value: []byte(evt.EventName)},
		},
		Time: evt.OccurredAt,
	}

	for attempt := 0; attempt <= p.retryAttempts; attempt++ {
		// 檢查外部 context 是否已經取消
		if ctx.Err() != nil {
			return NewKafkaError("PublishOrderEvent", p.topic, ctx.Err())
		}
		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}
		if !IsTemporary(err) {
			break
		}
	}
	return NewKafkaError("PublishOrderEvent", p.topic, err)
}

func (p *OrderEventProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

// NopOrderEventProducer 未設定 broker 時使用
type NopOrderEventProducer struct{}

func (NopOrderEventProducer) PublishOrderEvent(ctx context.Context, evt model.OrderEvent) error {
	return nil
}

func (NopOrderEventProducer) Close() error {
	return nil
}
