package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SuggestionLimit != 8 {
		t.Fatalf("unexpected suggestion limit: %d", cfg.SuggestionLimit)
	}
	if cfg.SuggestDebounceMs != 150 || cfg.GrepDebounceMs != 300 {
		t.Fatalf("unexpected debounce defaults: %d/%d", cfg.SuggestDebounceMs, cfg.GrepDebounceMs)
	}
	if cfg.GrepPreviewLimit != 10 {
		t.Fatalf("unexpected preview limit: %d", cfg.GrepPreviewLimit)
	}
}

func TestLoadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	if err := SaveLocalConfig(dir, &Config{GrepPreviewLimit: 25}); err != nil {
		t.Fatalf("save local config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GrepPreviewLimit != 25 {
		t.Fatalf("local override lost: %d", cfg.GrepPreviewLimit)
	}
	// Untouched keys keep their defaults.
	if cfg.SuggestionLimit != 8 {
		t.Fatalf("default clobbered: %d", cfg.SuggestionLimit)
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("grep_debounce_ms", "500"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := cfg.Get("grep_debounce_ms")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.(int) != 500 {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestSetExtraNoiseDirs(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("extra_noise_dirs", "vendor, cache/ ,"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(cfg.ExtraNoiseDirs) != 2 || cfg.ExtraNoiseDirs[0] != "vendor" || cfg.ExtraNoiseDirs[1] != "cache" {
		t.Fatalf("unexpected dirs: %v", cfg.ExtraNoiseDirs)
	}

	v, err := cfg.Get("extra_noise_dirs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.(string) != "vendor,cache" {
		t.Fatalf("unexpected rendering: %v", v)
	}

	// An empty value clears the list.
	if err := cfg.Set("extra_noise_dirs", ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cfg.ExtraNoiseDirs) != 0 {
		t.Fatalf("list not cleared: %v", cfg.ExtraNoiseDirs)
	}
}

func TestKeysCoverGetSurface(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Fatalf("key %q not gettable: %v", key, err)
		}
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("suggestion_limit", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	if err := cfg.Set("suggestion_limit", "-1"); err == nil {
		t.Fatalf("expected error for negative value")
	}
	if err := cfg.Set("no_such_key", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := cfg.Get("no_such_key"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
