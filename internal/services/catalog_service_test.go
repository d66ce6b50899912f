package services_test

import (
	"errors"
	"testing"

	"poolhall/internal/domain"
	"poolhall/internal/services"
)

func TestCatalog_PriceCategories(t *testing.T) {
	st, _ := newStore(t)
	cat := services.NewCatalogService(st)

	pc, err := cat.AddPriceCategory(" Tournament ", 40)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Name != "Tournament" || pc.ID == "" {
		t.Fatalf("bad category: %+v", pc)
	}
	if err := cat.UpdatePriceCategory(pc.ID, "Tournament+", 45); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.AddPriceCategory("Free", 0); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("zero rate: want ErrInvalidInput, got %v", err)
	}
	if err := cat.UpdatePriceCategory("cat-none", "x", 1); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	tb, err := cat.AddTable("Table 5", pc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := cat.DeletePriceCategory(pc.ID); err != nil {
		t.Fatal(err)
	}
	// deletion does not cascade
	got := tableByID(t, st.Snapshot(), tb.ID)
	if got.PriceCategoryID != pc.ID {
		t.Fatalf("category reference was cleared: %+v", got)
	}
	if _, err := cat.AddTable("Table 6", "cat-none"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown category: want ErrNotFound, got %v", err)
	}
}

func TestCatalog_Tables(t *testing.T) {
	st, _ := newStore(t)
	cat := services.NewCatalogService(st)
	sess := services.NewSessionService(st)

	if _, err := cat.AddTable("  ", ""); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("blank name: want ErrInvalidInput, got %v", err)
	}
	tb, err := cat.UpdateTable("table-1", services.TablePatch{
		Name:     ptr("Snooker"),
		Position: &domain.Position{X: 10, Y: 20},
		Size:     &domain.Size{Width: 200, Height: 120},
	})
	if err != nil {
		t.Fatal(err)
	}
	if tb.Name != "Snooker" || tb.Position.X != 10 || tb.Size.Width != 200 {
		t.Fatalf("patch not applied: %+v", tb)
	}

	if _, err := sess.StartSession("table-1", domain.SessionOpen, nil); err != nil {
		t.Fatal(err)
	}
	if err := cat.RemoveTable("table-1"); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("busy table: want ErrInvalidState, got %v", err)
	}
	if err := cat.RemoveTable("table-2"); err != nil {
		t.Fatal(err)
	}
	if len(st.Snapshot().Tables) != 3 {
		t.Fatalf("table not removed")
	}
}

func TestCatalog_RetailItems(t *testing.T) {
	st, _ := newStore(t)
	cat := services.NewCatalogService(st)

	it, err := cat.AddRetailItem(domain.RetailItem{Name: "Chalk", Price: 1, Category: "Supplies", Stock: 10})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cat.AddRetailItem(domain.RetailItem{Name: "Bad", Stock: -1}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("negative stock: want ErrInvalidInput, got %v", err)
	}
	if _, err := cat.UpdateRetailItem(it.ID, services.ItemPatch{Stock: ptr(-3)}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("negative stock patch: want ErrInvalidInput, got %v", err)
	}
	up, err := cat.UpdateRetailItem(it.ID, services.ItemPatch{Price: f64(1.25)})
	if err != nil {
		t.Fatal(err)
	}
	if up.Price != 1.25 || up.Stock != 10 {
		t.Fatalf("bad patch: %+v", up)
	}
	if err := cat.RemoveRetailItem(it.ID); err != nil {
		t.Fatal(err)
	}
	if err := cat.RemoveRetailItem(it.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
