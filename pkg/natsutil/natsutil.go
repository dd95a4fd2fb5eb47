// Package natsutil moves catalog events over NATS as JSON messages,
// carrying OpenTelemetry trace context in the message headers so ingest
// runs and API-side freshness updates share a trace.
package natsutil

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// msgCarrier exposes nats.Msg headers as an OTel TextMapCarrier.
type msgCarrier nats.Msg

func (c *msgCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *msgCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *msgCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// Publish sends v to subject as JSON, injecting the active trace context
// into the message headers.
func Publish[T any](ctx context.Context, nc *nats.Conn, subject string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*msgCarrier)(msg))
	return nc.PublishMsg(msg)
}

// Subscribe delivers each JSON message on subject to handler as a T. The
// handler context carries the trace extracted from the message headers.
// Messages that fail to decode are dropped.
func Subscribe[T any](nc *nats.Conn, subject string, handler func(context.Context, T)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		v, ok := decode[T](msg.Data)
		if !ok {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*msgCarrier)(msg))
		handler(ctx, v)
	})
}

func decode[T any](data []byte) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
