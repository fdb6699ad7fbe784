package sdmap

import "testing"

func TestConfigValidateRejectsTinyGrid(t *testing.T) {
	cfg := &Config{Width: 4, Height: 4, FxPixels: 500, FyPixels: 500}
	if _, err := cfg.Validate("sdmap"); err == nil {
		t.Fatal("expected an error for a grid narrower than the border width")
	}
}

func TestConfigValidateFillsDefaultSettings(t *testing.T) {
	cfg := &Config{Width: 64, Height: 48, FxPixels: 500, FyPixels: 500, CxPixels: 32, CyPixels: 24}
	if _, err := cfg.Validate("sdmap"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.MinDepth != DefaultSettings().MinDepth {
		t.Fatal("expected Validate to fill in DefaultSettings for a zero Settings value")
	}
}

func TestNewDepthMapperFromConfig(t *testing.T) {
	cfg := &Config{Width: 64, Height: 48, FxPixels: 500, FyPixels: 500, CxPixels: 32, CyPixels: 24}
	mapper, k, err := NewDepthMapperFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Width != 64 || k.Height != 48 {
		t.Fatalf("expected intrinsics to carry the config's width/height, got %dx%d", k.Width, k.Height)
	}
	if mapper.Grid().Width != 64 || mapper.Grid().Height != 48 {
		t.Fatal("expected the mapper's grid to match the config's dimensions")
	}
}
