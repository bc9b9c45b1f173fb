package backend

import (
	"context"
	"path/filepath"
	"testing"

	"financas/internal/config"
)

func TestOpenMemory(t *testing.T) {
	res, err := Open(context.Background(), &config.Config{DataBackend: "memory"}, nil)
	if err != nil {
		t.Fatalf("open memory backend: %v", err)
	}
	if res.Store == nil || res.Cleanup == nil {
		t.Fatal("result must carry both store and cleanup")
	}
	if err := res.Cleanup(); err != nil {
		t.Errorf("cleanup: %v", err)
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "financas.db"),
	}
	res, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer res.Cleanup()

	if _, err := res.Store.ListAlertConfigs(context.Background()); err != nil {
		t.Errorf("fresh sqlite store not usable: %v", err)
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{DataBackend: "mongo"}, nil); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}
