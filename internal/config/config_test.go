package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duotts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  addr: \":8080\"\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.TTS.Engine != "edge" {
		t.Errorf("Engine = %s, want edge", cfg.TTS.Engine)
	}
	if cfg.Pipeline.MaxSegmentLength != 1000 {
		t.Errorf("MaxSegmentLength = %d, want 1000", cfg.Pipeline.MaxSegmentLength)
	}
	if cfg.Pipeline.MinSegmentLength != 2 {
		t.Errorf("MinSegmentLength = %d, want 2", cfg.Pipeline.MinSegmentLength)
	}
	if cfg.Pipeline.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.Pipeline.MaxConcurrency)
	}
	if cfg.Pipeline.SynthesisTimeout != 30 {
		t.Errorf("SynthesisTimeout = %d, want 30", cfg.Pipeline.SynthesisTimeout)
	}
	if cfg.Pipeline.NumberContextWindow != 5 {
		t.Errorf("NumberContextWindow = %d, want 5", cfg.Pipeline.NumberContextWindow)
	}
	if cfg.Pipeline.AllowPartial {
		t.Error("AllowPartial should default to false")
	}

	male, ok := cfg.Voices["male"]
	if !ok || male.EN == "" || male.ZH == "" {
		t.Errorf("default male voice pair missing: %+v", cfg.Voices)
	}
	if _, ok := cfg.Voices["female"]; !ok {
		t.Error("default female voice pair missing")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DUOTTS_TEST_SECRET", "sekrit")
	cfg, err := Load(writeConfig(t, `
tts:
  engine: tencent
  tencent:
    secret_id: test-id
    secret_key: ${DUOTTS_TEST_SECRET}
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TTS.Tencent.SecretKey != "sekrit" {
		t.Errorf("SecretKey = %q, want expanded env value", cfg.TTS.Tencent.SecretKey)
	}
}

func TestLoad_CustomVoicesReplaceDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
voices:
  male:
    en: "1051"
    zh: "1001"
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Voices) != 1 {
		t.Errorf("Voices = %v, want only the configured entry", cfg.Voices)
	}
	if cfg.Voices["male"].ZH != "1001" {
		t.Errorf("male zh voice = %q, want 1001", cfg.Voices["male"].ZH)
	}
}

func TestLoad_RejectsUnknownEngine(t *testing.T) {
	if _, err := Load(writeConfig(t, "tts:\n  engine: bogus\n")); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestLoad_RejectsIncompleteVoicePair(t *testing.T) {
	if _, err := Load(writeConfig(t, "voices:\n  male:\n    en: only-english\n")); err == nil {
		t.Error("expected error for voice pair missing zh")
	}
}

func TestLoad_RejectsMinAboveMax(t *testing.T) {
	if _, err := Load(writeConfig(t, "pipeline:\n  max_segment_length: 10\n  min_segment_length: 20\n")); err == nil {
		t.Error("expected error when min exceeds max")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
