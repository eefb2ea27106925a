// Package events 领域事件发布
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher 事件发布端口
type Publisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

// NATSPublisher 发布到 NATS，subject 统一加前缀
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher 连接 NATS，断线后无限重连
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("pdms"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if p.prefix != "" {
		subject = p.prefix + "." + subject
	}
	return p.nc.Publish(subject, data)
}

// Close 发送完缓冲区后关闭连接
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

// Multi 同时发布到多个目标，错误合并返回
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, subject string, payload interface{}) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, subject, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }
