package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestInventoryConfig_EmptyRoot(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Inventory.Root = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty root should fail validation")
	}
}

func TestInventoryConfig_EmptyOutput(t *testing.T) {
	cfg := InventoryConfig{Root: ".", Output: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty output should fail validation")
	}
}

func TestInventoryConfig_AbsoluteOutput(t *testing.T) {
	cfg := InventoryConfig{Root: ".", Output: "/tmp/_inventory.md"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("absolute output should fail validation")
	}
	if !strings.Contains(err.Error(), "relative") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWatchConfig_Debounce(t *testing.T) {
	cfg := WatchConfig{Debounce: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("zero debounce should fail validation")
	}
	cfg.Debounce = time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("1ms debounce should fail validation")
	}
	cfg.Debounce = time.Second
	if err := cfg.Validate(); err != nil {
		t.Errorf("1s debounce should pass: %v", err)
	}
}
