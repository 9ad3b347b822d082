package services

import (
	"context"
	"testing"

	"github.com/ghuser/stocktake/pkg/app"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/services/inventory/infrastructure/persistence/file"
	"github.com/ghuser/stocktake/services/inventory/infrastructure/persistence/memory"
)

func TestNewRepository(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
		check   func(t *testing.T, repo any)
	}{
		{
			name: "memory",
			cfg:  config.Config{StorageBackend: config.BackendMemory},
			check: func(t *testing.T, repo any) {
				if _, ok := repo.(*memory.Repository); !ok {
					t.Errorf("expected *memory.Repository, got %T", repo)
				}
			},
		},
		{
			name: "file",
			cfg:  config.Config{StorageBackend: config.BackendFile, DataDir: t.TempDir()},
			check: func(t *testing.T, repo any) {
				if _, ok := repo.(*file.Repository); !ok {
					t.Errorf("expected *file.Repository, got %T", repo)
				}
			},
		},
		{name: "sqlite without database", cfg: config.Config{StorageBackend: config.BackendSQLite}, wantErr: true},
		{name: "unknown backend", cfg: config.Config{StorageBackend: "tape"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			repo, err := NewRepository(&app.Application{Config: &cfg})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, repo)
		})
	}
}

func TestNew_FileBackendPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	a := &app.Application{
		Config: &config.Config{StorageBackend: config.BackendFile, DataDir: t.TempDir()},
		Logger: logger.Nop(),
	}

	first, err := New(ctx, a)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	item, err := first.Inventory.AddItem(ctx, "Towels", 3, "Laundry")
	if err != nil {
		t.Fatal(err)
	}

	second, err := New(ctx, a)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Inventory.GetItem(item.ID)
	if err != nil {
		t.Fatalf("expected item after reopen: %v", err)
	}
	if got.Name != "Towels" || got.Count != 3 {
		t.Errorf("unexpected item %+v", got)
	}
	if first.Inventory.ListCategories()[0].ID != second.Inventory.ListCategories()[0].ID {
		t.Error("expected seeded category ids to survive a reopen")
	}
}
