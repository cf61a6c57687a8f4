package helper

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type reconcileRow struct {
	ID    uint `gorm:"primaryKey"`
	Label string
	Order int
}

type reconcilePayload struct {
	ID    uint
	Label string
	Order int
}

func reconcileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&reconcileRow{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func runReconcile(t *testing.T, db *gorm.DB, existing []reconcileRow, submitted []reconcilePayload) {
	t.Helper()
	err := ReconcileChildren(db, existing, submitted,
		func(r *reconcileRow) uint { return r.ID },
		func(p *reconcilePayload) uint { return p.ID },
		func(r *reconcileRow, p *reconcilePayload) {
			r.Label = p.Label
			r.Order = p.Order
		},
		func(p *reconcilePayload) *reconcileRow {
			return &reconcileRow{Label: p.Label, Order: p.Order}
		},
		func(r *reconcileRow) error { return db.Delete(r).Error },
	)
	if err != nil {
		t.Fatalf("ReconcileChildren failed: %v", err)
	}
}

func TestReconcileChildren(t *testing.T) {
	db := reconcileTestDB(t)

	seed := []reconcileRow{{Label: "a", Order: 0}, {Label: "b", Order: 1}, {Label: "c", Order: 2}}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}

	// update a, drop b, keep c, add d
	runReconcile(t, db, seed, []reconcilePayload{
		{ID: seed[0].ID, Label: "a2", Order: 5},
		{ID: seed[2].ID, Label: "c", Order: 2},
		{Label: "d", Order: 3},
	})

	var rows []reconcileRow
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != seed[0].ID || rows[0].Label != "a2" || rows[0].Order != 5 {
		t.Errorf("Expected a updated in place, got %+v", rows[0])
	}
	if rows[1].ID != seed[2].ID || rows[1].Label != "c" {
		t.Errorf("Expected c kept, got %+v", rows[1])
	}
	if rows[2].Label != "d" || rows[2].ID == seed[1].ID {
		t.Errorf("Expected d created fresh, got %+v", rows[2])
	}
}

func TestReconcileChildrenNoOp(t *testing.T) {
	db := reconcileTestDB(t)

	seed := []reconcileRow{{Label: "a"}, {Label: "b"}}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}

	// a payload round-tripped from the persisted rows changes nothing
	runReconcile(t, db, seed, []reconcilePayload{
		{ID: seed[0].ID, Label: "a"},
		{ID: seed[1].ID, Label: "b"},
	})

	var rows []reconcileRow
	db.Order("id ASC").Find(&rows)
	if len(rows) != 2 || rows[0].ID != seed[0].ID || rows[1].ID != seed[1].ID {
		t.Errorf("Expected identical rows after no-op, got %+v", rows)
	}
}

func TestReconcileChildrenEmptyPayloadClears(t *testing.T) {
	db := reconcileTestDB(t)

	seed := []reconcileRow{{Label: "a"}, {Label: "b"}}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}

	runReconcile(t, db, seed, nil)

	var count int64
	db.Model(&reconcileRow{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected all rows removed, got %d", count)
	}
}

type validationSample struct {
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
}

func TestValidationMap(t *testing.T) {
	v := validator.New()
	err := v.Struct(validationSample{Email: "not-an-email"})
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	out := ValidationMap(err)
	if len(out["email"]) == 0 {
		t.Errorf("Expected email keyed error, got %v", out)
	}
	if len(out["first_name"]) == 0 {
		t.Errorf("Expected snake_case first_name key, got %v", out)
	}
}
