package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 4200 {
		t.Errorf("Server.Port = %d, want 4200", cfg.Server.Port)
	}
	if cfg.Index.Name != "notes" {
		t.Errorf("Index.Name = %q, want notes", cfg.Index.Name)
	}
	if cfg.Server.Owner != "demo-user" {
		t.Errorf("Server.Owner = %q, want demo-user", cfg.Server.Owner)
	}
	if cfg.Index.Dimension <= 0 {
		t.Errorf("Index.Dimension = %d, want positive", cfg.Index.Dimension)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STICKIES_SERVER_PORT", "9999")
	t.Setenv("STICKIES_INDEX_NAME", "scratch")
	t.Setenv("STICKIES_COMPLETION_MODEL", "llama3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Index.Name != "scratch" {
		t.Errorf("Index.Name = %q, want scratch", cfg.Index.Name)
	}
	if cfg.Ollama.CompletionModel != "llama3" {
		t.Errorf("Ollama.CompletionModel = %q, want llama3", cfg.Ollama.CompletionModel)
	}
}

func TestLoad_BadIntOverride(t *testing.T) {
	t.Setenv("STICKIES_SERVER_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("Load with non-numeric port should fail")
	}
}
