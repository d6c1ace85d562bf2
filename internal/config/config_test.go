package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":5000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":5000")
	}
	if cfg.EventsKafkaTopic != "classtrack-events" {
		t.Errorf("EventsKafkaTopic = %q, want %q", cfg.EventsKafkaTopic, "classtrack-events")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
}

func TestLoad_RequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load should fail when APP_ENV=production and JWT_SECRET is empty")
	}
	t.Setenv("JWT_SECRET", "super-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with secret: %v", err)
	}
}

func TestLoad_RejectsBadBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "99")
	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for BCRYPT_COST out of range")
	}
}

func TestTokenTTL(t *testing.T) {
	cfg := &Config{JWTTTL: "15m"}
	if got := cfg.TokenTTL(); got != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", got)
	}
	cfg = &Config{JWTTTL: "garbage"}
	if got := cfg.TokenTTL(); got != 168*time.Hour {
		t.Errorf("TokenTTL fallback = %v, want 168h", got)
	}
}

func TestKafkaBrokersList(t *testing.T) {
	cfg := &Config{KafkaBrokers: "localhost:9092, broker2:9092 ,"}
	got := cfg.KafkaBrokersList()
	if len(got) != 2 || got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("KafkaBrokersList = %v", got)
	}
	cfg = &Config{}
	if got := cfg.KafkaBrokersList(); got != nil {
		t.Errorf("empty KafkaBrokersList = %v, want nil", got)
	}
}
