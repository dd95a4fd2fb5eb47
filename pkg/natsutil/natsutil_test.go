package natsutil

import (
	"testing"

	"github.com/nats-io/nats.go"
)

type catalogEvent struct {
	Make     string `json:"make"`
	Versions int    `json:"versions"`
}

func TestMsgCarrier(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*msgCarrier)(msg)

	carrier.Set("traceparent", "00-abc-def-01")
	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("expected traceparent, got %q", got)
	}

	keys := carrier.Keys()
	if len(keys) != 1 {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestMsgCarrierNilHeader(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*msgCarrier)(msg)

	if got := carrier.Get("missing"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if keys := carrier.Keys(); keys != nil {
		t.Fatalf("expected nil keys, got %v", keys)
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, ok := decode[catalogEvent]([]byte(`{"make": "Ford", "versions": 12}`))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if ev.Make != "Ford" || ev.Versions != 12 {
		t.Fatalf("unexpected: %+v", ev)
	}
}

func TestDecodeDropsMalformed(t *testing.T) {
	if _, ok := decode[catalogEvent]([]byte("{invalid json")); ok {
		t.Fatal("malformed payloads must not decode")
	}
}
