package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.ClassifierURL == "" {
		t.Fatalf("expected default classifier url")
	}
	if cfg.ClassifierTimeoutMS <= 0 {
		t.Fatalf("expected positive classifier timeout")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CLASSIFIER_URL", "http://model:5000/classify")
	t.Setenv("CLASSIFIER_TIMEOUT_MS", "250")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.ClassifierURL != "http://model:5000/classify" {
		t.Fatalf("expected override classifier url")
	}
	if cfg.ClassifierTimeoutMS != 250 {
		t.Fatalf("expected override classifier timeout")
	}
}
