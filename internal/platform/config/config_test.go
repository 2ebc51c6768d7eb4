package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "social")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("COMMENTS_DEFAULT_LIMIT", "")
	t.Setenv("COMMENTS_MAX_DEPTH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.Comments.DefaultLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", cfg.Comments.DefaultLimit)
	}
	if cfg.Comments.MaxDepth != 64 {
		t.Fatalf("expected max depth 64, got %d", cfg.Comments.MaxDepth)
	}
}

func TestLoad_MissingServiceName(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("JWT_SECRET", "s3cret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when SERVICE_NAME missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("SERVICE_NAME", "social")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET missing")
	}
}

func TestLoad_CommentsOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "social")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("COMMENTS_DEFAULT_LIMIT", "50")
	t.Setenv("COMMENTS_MAX_DEPTH", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Comments.DefaultLimit != 50 || cfg.Comments.MaxDepth != 8 {
		t.Fatalf("unexpected comments config: %+v", cfg.Comments)
	}
}

func TestProduction(t *testing.T) {
	if (AppConfig{AppEnv: "Production"}).Production() != true {
		t.Fatal("expected Production() true for 'Production'")
	}
	if (AppConfig{AppEnv: "dev"}).Production() {
		t.Fatal("expected Production() false for 'dev'")
	}
}
