package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		AppMode:        "debug",
		DBDriver:       DriverMemory,
		JWTSecret:      "secret",
		JWTExpiryHours: 24,
		MediaProvider:  ProviderMemory,
		NotifyQueue:    QueueInline,
		MaxUploadMB:    5,

		BootstrapAdminEmail:    "admin@example.com",
		BootstrapAdminPassword: "secret",
	}
}

func TestValidateAcceptsMemoryDrivers(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	cfg.DBDriver = DriverPostgres
	cfg.MediaProvider = ProviderS3

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"JWT_SECRET", "POSTGRES_DSN", "S3_REGION"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateRequiresSMTPInRelease(t *testing.T) {
	cfg := validConfig()
	cfg.AppMode = "release"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "SMTP_HOST") {
		t.Fatalf("expected SMTP error, got %v", err)
	}
	cfg.SMTPHost = "smtp.example.com"
	cfg.NotifyAdminEmail = "ops@example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresBootstrapAdmin(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.BootstrapAdminEmail = "" },
		func(c *Config) { c.BootstrapAdminPassword = "" },
	} {
		cfg := validConfig()
		mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "ADMIN_EMAIL and ADMIN_PASSWORD") {
			t.Fatalf("expected bootstrap admin error, got %v", err)
		}
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.DBDriver = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SD_INT", "42")
	t.Setenv("SD_BAD_INT", "x")
	t.Setenv("SD_BOOL", "true")
	t.Setenv("SD_LIST", " a, b ,,c ")

	if got := getEnvAsInt("SD_INT", 1); got != 42 {
		t.Errorf("getEnvAsInt = %d", got)
	}
	if got := getEnvAsInt("SD_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt fallback = %d", got)
	}
	if !getEnvAsBool("SD_BOOL", false) {
		t.Error("getEnvAsBool = false")
	}
	list := getEnvAsList("SD_LIST", nil)
	if strings.Join(list, "|") != "a|b|c" {
		t.Errorf("getEnvAsList = %v", list)
	}
	if got := getEnvAsList("SD_MISSING", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Errorf("getEnvAsList fallback = %v", got)
	}
}
