package stores

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// stepClock returns a clock that advances one millisecond per call.
func stepClock() Clock {
	t := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func ptr[T any](v T) *T { return &v }

func TestItemStore_Add(t *testing.T) {
	t.Run("trims name and stamps timestamps", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		item, err := s.Add("  Towels  ", 3, "Laundry")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Name != "Towels" {
			t.Errorf("expected trimmed name, got %q", item.Name)
		}
		if !item.CreatedAt.Equal(item.UpdatedAt) {
			t.Errorf("expected createdAt == updatedAt, got %v and %v", item.CreatedAt, item.UpdatedAt)
		}
		if s.Len() != 1 {
			t.Errorf("expected 1 item, got %d", s.Len())
		}
	})

	t.Run("negative count clamps to zero", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		item, err := s.Add("Batteries", -5, "Electronics")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Count != 0 {
			t.Errorf("expected count 0, got %d", item.Count)
		}
	})

	t.Run("whitespace name is rejected and nothing is added", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		_, err := s.Add("   ", 1, "Pantry")
		if !errors.Is(err, domain.ErrInvalidItemName) {
			t.Fatalf("expected ErrInvalidItemName, got %v", err)
		}
		if s.Len() != 0 {
			t.Errorf("expected empty store, got %d items", s.Len())
		}
	})

	t.Run("fresh ids", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		a, _ := s.Add("Rice", 1, "Pantry")
		b, _ := s.Add("Rice", 1, "Pantry")
		if a.ID == b.ID {
			t.Fatal("expected distinct ids")
		}
	})
}

func TestItemStore_Update(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		orig, _ := s.Add("Rice", 2, "Pantry")

		got, changed, err := s.Update(orig.ID, models.ItemPatch{Count: ptr(7)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !changed {
			t.Fatal("expected change")
		}
		if got.Count != 7 || got.Name != "Rice" || got.Category != "Pantry" {
			t.Errorf("unexpected item: %+v", got)
		}
		if !got.UpdatedAt.After(orig.UpdatedAt) {
			t.Errorf("expected updatedAt to advance, got %v <= %v", got.UpdatedAt, orig.UpdatedAt)
		}
		if !got.CreatedAt.Equal(orig.CreatedAt) {
			t.Error("createdAt must not change")
		}
	})

	t.Run("count is re-clamped", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		orig, _ := s.Add("Rice", 2, "Pantry")
		got, _, err := s.Update(orig.ID, models.ItemPatch{Count: ptr(-3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Count != 0 {
			t.Errorf("expected 0, got %d", got.Count)
		}
	})

	t.Run("unchanged values leave updatedAt alone", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		orig, _ := s.Add("Rice", 2, "Pantry")
		got, changed, err := s.Update(orig.ID, models.ItemPatch{Name: ptr(" Rice "), Count: ptr(2)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed {
			t.Error("expected no change")
		}
		if !got.UpdatedAt.Equal(orig.UpdatedAt) {
			t.Errorf("updatedAt moved: %v -> %v", orig.UpdatedAt, got.UpdatedAt)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		_, _, err := s.Update(uuid.New(), models.ItemPatch{Count: ptr(1)})
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("invalid name leaves item untouched", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		orig, _ := s.Add("Rice", 2, "Pantry")
		_, _, err := s.Update(orig.ID, models.ItemPatch{Name: ptr(""), Count: ptr(9)})
		if !errors.Is(err, domain.ErrInvalidItemName) {
			t.Fatalf("expected ErrInvalidItemName, got %v", err)
		}
		got, _ := s.Get(orig.ID)
		if got != orig {
			t.Errorf("item changed: %+v", got)
		}
	})
}

func TestItemStore_Delete(t *testing.T) {
	s := NewItemStore(nil, stepClock())
	item, _ := s.Add("Rice", 2, "Pantry")

	if !s.Delete(item.ID) {
		t.Fatal("expected delete to report removal")
	}
	if s.Delete(item.ID) {
		t.Fatal("second delete must be a no-op")
	}
	if s.Delete(uuid.New()) {
		t.Fatal("unknown id must be a no-op")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestItemStore_IncrementDecrement(t *testing.T) {
	t.Run("increment then decrement restores count", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		item, _ := s.Add("Soap", 1, "Bathroom")

		inc, err := s.Increment(item.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inc.Count != 2 {
			t.Fatalf("expected 2, got %d", inc.Count)
		}
		dec, changed, err := s.Decrement(item.ID)
		if err != nil || !changed {
			t.Fatalf("expected change, got changed=%v err=%v", changed, err)
		}
		if dec.Count != 1 {
			t.Fatalf("expected 1, got %d", dec.Count)
		}
		if !dec.UpdatedAt.After(inc.UpdatedAt) {
			t.Error("expected updatedAt to advance on decrement")
		}
	})

	t.Run("decrement at zero is a no-op", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		item, _ := s.Add("Soap", 0, "Bathroom")
		got, changed, err := s.Decrement(item.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed || got.Count != 0 || !got.UpdatedAt.Equal(item.UpdatedAt) {
			t.Fatalf("expected untouched item, got changed=%v %+v", changed, got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		if _, err := s.Increment(uuid.New()); !errors.Is(err, domain.ErrItemNotFound) {
			t.Errorf("increment: expected ErrItemNotFound, got %v", err)
		}
		if _, _, err := s.Decrement(uuid.New()); !errors.Is(err, domain.ErrItemNotFound) {
			t.Errorf("decrement: expected ErrItemNotFound, got %v", err)
		}
	})
}

func TestItemStore_RenameCategory(t *testing.T) {
	s := NewItemStore(nil, stepClock())
	a, _ := s.Add("Towels", 1, "Laundry")
	b, _ := s.Add("Rice", 1, "Pantry")

	if n := s.RenameCategory("laundry", "Home"); n != 1 {
		t.Fatalf("expected 1 renamed, got %d", n)
	}
	got, _ := s.Get(a.ID)
	if got.Category != "Home" || !got.UpdatedAt.After(a.UpdatedAt) {
		t.Errorf("unexpected renamed item: %+v", got)
	}
	untouched, _ := s.Get(b.ID)
	if untouched != b {
		t.Errorf("other item changed: %+v", untouched)
	}

	if n := s.RenameCategory("Home", "Home"); n != 0 {
		t.Errorf("same-name rename must not touch items, got %d", n)
	}
}

func TestItemStore_ReassignOrDelete(t *testing.T) {
	t.Run("reassign", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		s.Add("Towels", 1, "Laundry")
		s.Add("Sheets", 1, "Laundry")
		if n := s.ReassignOrDelete("Laundry", models.ReassignTo("Other")); n != 2 {
			t.Fatalf("expected 2 reassigned, got %d", n)
		}
		if s.CountInCategory("Laundry") != 0 || s.CountInCategory("Other") != 2 {
			t.Errorf("unexpected counts: laundry=%d other=%d", s.CountInCategory("Laundry"), s.CountInCategory("Other"))
		}
	})

	t.Run("delete orphans", func(t *testing.T) {
		s := NewItemStore(nil, stepClock())
		s.Add("Towels", 1, "Laundry")
		kept, _ := s.Add("Rice", 1, "Pantry")
		if n := s.ReassignOrDelete("Laundry", models.DeleteOrphans()); n != 1 {
			t.Fatalf("expected 1 removed, got %d", n)
		}
		if s.Len() != 1 {
			t.Fatalf("expected 1 item left, got %d", s.Len())
		}
		if _, ok := s.Get(kept.ID); !ok {
			t.Error("unrelated item must survive")
		}
	})
}

func TestItemStore_List(t *testing.T) {
	s := NewItemStore(nil, stepClock())
	a, _ := s.Add("A", 1, "Pantry")
	b, _ := s.Add("B", 1, "Pantry")
	c, _ := s.Add("C", 1, "Office")
	s.Increment(a.ID)

	ids := func(items []models.Item) []uuid.UUID {
		out := make([]uuid.UUID, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}

	got := ids(s.List())
	want := []uuid.UUID{a.ID, c.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}

	pantry := ids(s.ByCategory("PANTRY"))
	if len(pantry) != 2 || pantry[0] != a.ID || pantry[1] != b.ID {
		t.Fatalf("unexpected pantry order: %v", pantry)
	}
}

func TestItemStore_ListStableOnTies(t *testing.T) {
	at := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	fixed := func() time.Time { return at }
	s := NewItemStore(nil, fixed)
	first, _ := s.Add("first", 1, "Other")
	second, _ := s.Add("second", 1, "Other")

	list := s.List()
	snap := s.Snapshot()
	for i := range snap {
		if list[i].ID != snap[i].ID {
			t.Fatalf("tie order differs from storage order at %d", i)
		}
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatal("storage order must be newest first")
	}
}

func TestItemStore_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	at := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	calls := 0
	backwards := func() time.Time {
		calls++
		return at.Add(-time.Duration(calls) * time.Second)
	}
	s := NewItemStore(nil, backwards)
	item, _ := s.Add("Rice", 1, "Pantry")
	got, err := s.Increment(item.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("updatedAt %v before createdAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestItemStore_CloneIsIndependent(t *testing.T) {
	s := NewItemStore(nil, stepClock())
	item, _ := s.Add("Rice", 1, "Pantry")

	c := s.Clone()
	c.Increment(item.ID)
	c.Add("Beans", 1, "Pantry")

	got, _ := s.Get(item.ID)
	if got.Count != 1 || s.Len() != 1 {
		t.Fatalf("original store changed: %+v len=%d", got, s.Len())
	}
}

func TestNewItemStore_CopiesInput(t *testing.T) {
	items := []models.Item{*models.NewItem("Rice", 1, "Pantry", time.Now())}
	s := NewItemStore(items, nil)
	items[0].Count = 99
	got, _ := s.Get(items[0].ID)
	if got.Count != 1 {
		t.Fatalf("store aliases caller slice: count=%d", got.Count)
	}
}
