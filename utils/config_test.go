package utils

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("CHANNELS", " 111, ,222 ")
	t.Setenv("WHEEL_SEED", "7")

	cfg := LoadConfig()
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.StoreTimeout != 2*time.Second {
		t.Errorf("Expected 2s store timeout, got %v", cfg.StoreTimeout)
	}
	if cfg.WheelSeed != 7 {
		t.Errorf("Expected wheel seed 7, got %d", cfg.WheelSeed)
	}
	if len(cfg.Channels) != 2 || cfg.Channels[0] != "111" || cfg.Channels[1] != "222" {
		t.Errorf("Expected channels [111 222], got %v", cfg.Channels)
	}
	if !cfg.ChannelAllowed("222") || cfg.ChannelAllowed("333") {
		t.Error("Expected only listed channels to be allowed")
	}
}

func TestChannelAllowedWithoutList(t *testing.T) {
	cfg := Config{}
	if !cfg.ChannelAllowed("anything") {
		t.Error("Expected every channel to be allowed when none are configured")
	}
}
