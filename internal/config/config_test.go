package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected OpenAI API key placeholder")
	}
	if cfg.Defaults.Model != "gpt-4.1-mini" {
		t.Errorf("default model = %q", cfg.Defaults.Model)
	}
	if cfg.Extraction.MaxPages != 10 {
		t.Errorf("default max pages = %d", cfg.Extraction.MaxPages)
	}
	if cfg.Extraction.ValidateStructure {
		t.Error("structure validation must default to off")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestManager(t *testing.T) {
	t.Run("explicitly named missing file errors", func(t *testing.T) {
		viper.Reset()
		if _, err := NewManager(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for explicitly named missing config file")
		}
	})

	t.Run("loads defaults without a config file", func(t *testing.T) {
		viper.Reset()
		cm, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager error = %v", err)
		}
		cfg := cm.Get()
		if cfg.Defaults.Model != "gpt-4.1-mini" {
			t.Errorf("model = %q, want default", cfg.Defaults.Model)
		}
		if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
			t.Errorf("base URL = %q", cfg.OpenAI.BaseURL)
		}
	})

	t.Run("model alias env override", func(t *testing.T) {
		viper.Reset()
		os.Setenv("EXTRACTOR_MODEL_ALIAS", "gpt-4o")
		defer os.Unsetenv("EXTRACTOR_MODEL_ALIAS")

		cm, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager error = %v", err)
		}
		if got := cm.Get().Defaults.Model; got != "gpt-4o" {
			t.Errorf("model = %q, want gpt-4o", got)
		}
	})

	t.Run("reads a config file", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "extraction:\n  max_pages: 4\n  validate_structure: true\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cm, err := NewManager(path)
		if err != nil {
			t.Fatalf("NewManager error = %v", err)
		}
		cfg := cm.Get()
		if cfg.Extraction.MaxPages != 4 {
			t.Errorf("max pages = %d, want 4", cfg.Extraction.MaxPages)
		}
		if !cfg.Extraction.ValidateStructure {
			t.Error("validate_structure not read from file")
		}
		// Unset keys keep their defaults.
		if cfg.Defaults.Model != "gpt-4.1-mini" {
			t.Errorf("model = %q, want default", cfg.Defaults.Model)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	viper.Reset()
	cm, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager error = %v", err)
	}

	// Register multiple callbacks
	cm.OnChange(func(cfg *Config) {})
	cm.OnChange(func(cfg *Config) {})
	cm.OnChange(func(cfg *Config) {})

	cm.mu.RLock()
	if len(cm.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(cm.callbacks))
	}
	cm.mu.RUnlock()
}

func TestManager_WatchConfig(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  model: gpt-4.1-mini\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager error = %v", err)
	}
	if got := cm.Get().Defaults.Model; got != "gpt-4.1-mini" {
		t.Fatalf("initial model = %q, want gpt-4.1-mini", got)
	}

	var callbackCount atomic.Int32
	var lastModel atomic.Value
	cm.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastModel.Store(cfg.Defaults.Model)
	})

	cm.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("defaults:\n  model: gpt-4o\n"), 0o644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got, _ := lastModel.Load().(string); got != "gpt-4o" {
		t.Errorf("callback saw model %q, want gpt-4o", got)
	}
	if got := cm.Get().Defaults.Model; got != "gpt-4o" {
		t.Errorf("Get() after reload = %q, want gpt-4o", got)
	}
}

func TestWriteDefault(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault error = %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager on written config error = %v", err)
	}
	cfg := cm.Get()
	if cfg.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("api key = %q, want env placeholder", cfg.OpenAI.APIKey)
	}
	if cfg.Extraction.MaxPages != 10 {
		t.Errorf("max pages = %d, want 10", cfg.Extraction.MaxPages)
	}
}

func TestToOpenAIConfig(t *testing.T) {
	os.Setenv("TEST_OPENAI_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_OPENAI_KEY")

	cfg := &Config{
		OpenAI: OpenAICfg{
			APIKey:         "${TEST_OPENAI_KEY}",
			BaseURL:        "https://example.test/v1",
			TimeoutSeconds: 30,
		},
	}

	oc := cfg.ToOpenAIConfig()
	if oc.APIKey != "sk-test-123" {
		t.Errorf("api key = %q, want resolved value", oc.APIKey)
	}
	if oc.BaseURL != "https://example.test/v1" {
		t.Errorf("base URL = %q", oc.BaseURL)
	}
	if oc.Timeout.Seconds() != 30 {
		t.Errorf("timeout = %v, want 30s", oc.Timeout)
	}
}
