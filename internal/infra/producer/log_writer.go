package producer

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaLogWriter 實作 io.Writer, 讓 zerolog 每一行 log 送進 kafka
// 底層 writer 應為 Async, 否則每行 log 都會等 broker
type KafkaLogWriter struct {
	w      Writer
	topic  string
	seq    atomic.Uint64
	closed atomic.Bool
}

func NewKafkaLogWriter(w Writer, topic string) *KafkaLogWriter {
	return &KafkaLogWriter{w: w, topic: topic}
}

func (kw *KafkaLogWriter) Write(p []byte) (int, error) {
	if kw.closed.Load() {
		return 0, ErrProducerClosed
	}

	// 以序號當 key 平均分散到各 partition
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, kw.seq.Add(1))

	// zerolog 會重用 buffer
	value := make([]byte, len(p))
	copy(value, p)

	if err := kw.w.WriteMessages(context.Background(), kafka.Message{Key: key, Value: value, Time: time.Now()}); err != nil {
		return 0, NewKafkaError("WriteLog", kw.topic, err)
	}
	return len(p), nil
}

func (kw *KafkaLogWriter) Close() error {
	if !kw.closed.CompareAndSwap(false, true) {
		return nil
	}
	return kw.w.Close()
}
