package app

import (
	"os"
	"testing"
	"time"

	"github.com/klabast/wb-services/study-diary/internal/calendar"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env
	for _, key := range []string{"PORT", "STORE_DRIVER", "DATA_PATH", "KAKAO_REST_KEY", "KAKAO_REDIRECT_URL", "SESSION_LIFETIME"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "9090")
	t.Setenv("KAKAO_REDIRECT_URL", "http://localhost:9090/auth/callback")

	cfg := LoadConfig()
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if !cfg.DevMode() {
		t.Error("Empty KAKAO_REST_KEY should enable dev mode")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KAKAO_REST_KEY", "rest-key")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	if cfg.DevMode() {
		t.Error("KAKAO_REST_KEY set, dev mode should be off")
	}
	if cfg.StoreDriver != "sqlite" {
		t.Errorf("StoreDriver = %q, want sqlite", cfg.StoreDriver)
	}
	if cfg.SessionLifetime != 2*time.Hour {
		t.Errorf("SessionLifetime = %v, want 2h", cfg.SessionLifetime)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Invalid PORT should fall back to %d, got %d", DefaultPort, cfg.Port)
	}
}

func TestViewsPrune(t *testing.T) {
	views := NewViews(time.Hour)
	start := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)

	v := views.Get("a", start)
	if v.Month != (calendar.Month{Year: 2024, Index: 2}) {
		t.Errorf("New session should start on the current month, got %+v", v.Month)
	}

	views.Update("a", start, nil, calendar.State.NextMonth)
	if got := views.Get("a", start).Month; got.Index != 3 {
		t.Errorf("Update not stored, month = %+v", got)
	}

	// a new session after the TTL drops the stale one
	views.Get("b", start.Add(2*time.Hour))
	if views.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after prune", views.Len())
	}

	views.Delete("b")
	if views.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after delete", views.Len())
	}
}
