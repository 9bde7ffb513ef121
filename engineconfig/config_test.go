package engineconfig

import "testing"

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.World.Width != 256 || cfg.World.Height != 256 {
		t.Errorf("World size = %dx%d, want 256x256", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Tuning.ChunkSize != 32 {
		t.Errorf("ChunkSize = %d, want 32", cfg.Tuning.ChunkSize)
	}
	if cfg.Tuning.SleepAfterIdleTicks != 60 {
		t.Errorf("SleepAfterIdleTicks = %d, want 60", cfg.Tuning.SleepAfterIdleTicks)
	}
}

func TestComputeDerivedCastsToFloat32(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Derived.AmbientTemp32 != float32(cfg.World.AmbientTemp) {
		t.Errorf("Derived.AmbientTemp32 = %v, want %v", cfg.Derived.AmbientTemp32, cfg.World.AmbientTemp)
	}
	if cfg.Derived.GravityY32 != 1 {
		t.Errorf("Derived.GravityY32 = %v, want 1", cfg.Derived.GravityY32)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Cfg() to panic before Init()")
		}
	}()
	global = nil
	Cfg()
}

func TestInitThenCfgReturnsLoadedConfig(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if Cfg().World.Width != 256 {
		t.Errorf("Cfg().World.Width = %d, want 256", Cfg().World.Width)
	}
}
