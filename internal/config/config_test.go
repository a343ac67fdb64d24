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
	if cfg.MinAccuracyM != 20 {
		t.Fatalf("expected 20m accuracy threshold, got %v", cfg.MinAccuracyM)
	}
	if cfg.MinDistanceM != 4 {
		t.Fatalf("expected 4m distance threshold, got %v", cfg.MinDistanceM)
	}
	if cfg.ProximityRadiusM != 5 {
		t.Fatalf("expected 5m proximity radius, got %v", cfg.ProximityRadiusM)
	}
	if cfg.GPSTimeout().Seconds() != 15 {
		t.Fatalf("expected 15s gps timeout")
	}
	if cfg.ResumeTTL().Hours() != 24 {
		t.Fatalf("expected 24h resume window")
	}
	if cfg.ConfirmObjectFound {
		t.Fatalf("expected auto-commit by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PROXIMITY_RADIUS_M", "7")
	t.Setenv("CONFIRM_OBJECT_FOUND", "true")

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
	if cfg.ProximityRadiusM != 7 {
		t.Fatalf("expected override radius")
	}
	if !cfg.ConfirmObjectFound {
		t.Fatalf("expected override confirm flag")
	}
}
