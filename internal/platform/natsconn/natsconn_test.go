package natsconn

import (
	"testing"
	"time"
)

func TestEnvInt_Default(t *testing.T) {
	if v := envInt("NATSCONN_TEST_NONEXISTENT", 42); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestEnvInt_Set(t *testing.T) {
	t.Setenv("NATSCONN_TEST_INT", "7")
	if v := envInt("NATSCONN_TEST_INT", 42); v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
}

func TestEnvDuration_Default(t *testing.T) {
	if v := envDuration("NATSCONN_TEST_NONEXISTENT", 5*time.Second); v != 5*time.Second {
		t.Fatalf("expected 5s, got %s", v)
	}
}

func TestEnvDuration_Set(t *testing.T) {
	t.Setenv("NATSCONN_TEST_DUR", "3s")
	if v := envDuration("NATSCONN_TEST_DUR", 5*time.Second); v != 3*time.Second {
		t.Fatalf("expected 3s, got %s", v)
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(Options{
		URL:           "nats://127.0.0.1:19999",
		MaxReconnects: 0,
		ReconnectWait: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error connecting to invalid NATS URL")
	}
}
