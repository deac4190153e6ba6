package hookless_test

import (
	"testing"
	"time"

	"github.com/hookless-go/hookless"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := hookless.DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestConfigValidateRejectsZeroReadBufferSize(t *testing.T) {
	cfg := hookless.DefaultConfig()
	cfg.ReadBufferSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero ReadBufferSize")
	}
}

func TestConfigValidateRejectsZeroWriteBufferCap(t *testing.T) {
	cfg := hookless.DefaultConfig()
	cfg.WriteBufferCap = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero WriteBufferCap")
	}
}

func TestConfigValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := hookless.DefaultConfig()
	cfg.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero Timeout")
	}

	cfg.Timeout = -1 * time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a negative Timeout")
	}
}
