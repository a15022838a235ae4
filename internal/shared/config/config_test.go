package config

import (
	"testing"
)

func TestValidateRequiresOracleKey(t *testing.T) {
	cfg := Config{LLMProvider: "openai", Env: "dev"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing OPENAI_API_KEY")
	}

	cfg.OpenAIAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateS3RequiresBucket(t *testing.T) {
	cfg := Config{LLMProvider: "openai", OpenAIAPIKey: "sk-test", ObjectStoreType: "s3"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing S3_BUCKET")
	}
}

func TestMaxUploadBytesDefault(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "")
	if got := maxUploadBytes(); got != 200<<20 {
		t.Fatalf("expected 200MB default, got %d", got)
	}

	t.Setenv("MAX_UPLOAD_MB", "5")
	if got := maxUploadBytes(); got != 5<<20 {
		t.Fatalf("expected 5MB, got %d", got)
	}

	t.Setenv("MAX_UPLOAD_MB", "not-a-number")
	if got := maxUploadBytes(); got != 200<<20 {
		t.Fatalf("expected default on invalid value, got %d", got)
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"prod":       "production",
		"PRODUCTION": "production",
		"staging":    "staging",
		"local":      "local",
		"":           "dev",
		"whatever":   "dev",
	}
	for in, want := range cases {
		if got := normalizeEnv(in); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}
