package services_test

import (
	"testing"

	"github.com/mandoxxdev/crm-catalog/internal/markers"
	"github.com/mandoxxdev/crm-catalog/internal/models"
	"github.com/mandoxxdev/crm-catalog/internal/services"
	"gorm.io/datatypes"
)

// TestFamilyMarkerRoundTrip tests that a marker collection survives a
// create/get cycle through the JSON column
func TestFamilyMarkerRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	col := markers.New()
	col.Add(25, 50, "power_hp")
	m := col.Add(75, 10, "material")
	col.Update(m.ID, "casing", "material", markers.KindToggle)

	id, err := services.CreateFamily(db, "Pumps", 1, col)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	got, err := services.GetFamily(db, id)
	if err != nil {
		t.Fatalf("Failed to get family: %v", err)
	}

	if got.Name != "Pumps" {
		t.Errorf("Expected name Pumps, got %q", got.Name)
	}
	if got.Version != 0 {
		t.Errorf("Expected version 0 on a new record, got %d", got.Version)
	}
	if got.Markers.Len() != 2 {
		t.Fatalf("Expected 2 markers, got %d", got.Markers.Len())
	}

	items := got.Markers.Markers()
	if items[0].X != 25 || items[0].Y != 50 {
		t.Errorf("Expected first marker at (25, 50), got (%v, %v)", items[0].X, items[0].Y)
	}
	if items[1].Label != "casing" || items[1].Kind != markers.KindToggle {
		t.Errorf("Second marker edits lost: %+v", items[1])
	}
	if items[0].Seq != 1 || items[1].Seq != 2 {
		t.Errorf("Expected sequences 1, 2, got %d, %d", items[0].Seq, items[1].Seq)
	}
}

// TestCreateFamilyRejectsBlankName tests input validation
func TestCreateFamilyRejectsBlankName(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.CreateFamily(db, "   ", 0, nil); err == nil || err.Error() != "invalid input" {
		t.Errorf("Expected invalid input, got %v", err)
	}
}

// TestUpdateFamilyBumpsVersion tests the optimistic write path
func TestUpdateFamilyBumpsVersion(t *testing.T) {
	db := setupTestDB(t)

	id, err := services.CreateFamily(db, "Valves", 2, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	col := markers.New()
	col.Add(10, 10, "dn")

	newVersion, affected, err := services.UpdateFamily(db, id, 0, "Ball valves", 3, col)
	if err != nil {
		t.Fatalf("Failed to update family: %v", err)
	}
	if newVersion != 1 {
		t.Errorf("Expected new version 1, got %d", newVersion)
	}
	if affected != 1 {
		t.Errorf("Expected 1 affected row, got %d", affected)
	}

	got, err := services.GetFamily(db, id)
	if err != nil {
		t.Fatalf("Failed to get family: %v", err)
	}
	if got.Name != "Ball valves" || got.DisplayOrder != 3 {
		t.Errorf("Update not applied: %+v", got)
	}
	if got.Markers.Len() != 1 {
		t.Errorf("Expected 1 marker after update, got %d", got.Markers.Len())
	}
}

// TestUpdateFamilyVersionConflict tests stale-version detection
func TestUpdateFamilyVersionConflict(t *testing.T) {
	db := setupTestDB(t)

	id, err := services.CreateFamily(db, "Motors", 0, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	// First save wins.
	if _, _, err := services.UpdateFamily(db, id, 0, "Motors", 0, nil); err != nil {
		t.Fatalf("Failed first update: %v", err)
	}

	// Second save with the stale version must fail.
	_, _, err = services.UpdateFamily(db, id, 0, "Motors", 0, nil)
	if err == nil || err.Error() != "E_VERSION" {
		t.Errorf("Expected E_VERSION, got %v", err)
	}

	// Retrying with the current version succeeds.
	if _, _, err := services.UpdateFamily(db, id, 1, "Motors", 0, nil); err != nil {
		t.Errorf("Expected retry with fresh version to succeed, got %v", err)
	}
}

// TestGetFamilyDecodesLegacyMarkers tests hydration of a row written by the
// previous system
func TestGetFamilyDecodesLegacyMarkers(t *testing.T) {
	db := setupTestDB(t)

	legacy := `[{"x":"40","y":"60","variavel":"pressao","tipo":"numero"}]`
	row := models.Family{
		FamilyName: "Compressors",
		Markers:    models.JSON{JSON: datatypes.JSON(legacy)},
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to seed family: %v", err)
	}

	got, err := services.GetFamily(db, row.FamilyID)
	if err != nil {
		t.Fatalf("Failed to get family: %v", err)
	}
	if got.Markers.Len() != 1 {
		t.Fatalf("Expected 1 marker, got %d", got.Markers.Len())
	}

	m := got.Markers.Markers()[0]
	if m.X != 40 || m.Y != 60 {
		t.Errorf("Expected (40, 60), got (%v, %v)", m.X, m.Y)
	}
	if m.VariableKey != "pressao" || m.Kind != markers.KindNumeric {
		t.Errorf("Legacy fields not mapped: %+v", m)
	}
	if m.ID == "" || m.Seq != 1 {
		t.Errorf("Expected generated id and seq 1, got %+v", m)
	}
}

// TestSetFamilyImage tests the image slot columns
func TestSetFamilyImage(t *testing.T) {
	db := setupTestDB(t)

	id, err := services.CreateFamily(db, "Fans", 0, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	if err := services.SetFamilyImage(db, id, services.ImagePhoto, "abc-photo.jpg"); err != nil {
		t.Fatalf("Failed to set photo: %v", err)
	}
	if err := services.SetFamilyImage(db, id, services.ImageSchematic, "abc-schematic.png"); err != nil {
		t.Fatalf("Failed to set schematic: %v", err)
	}

	got, err := services.GetFamily(db, id)
	if err != nil {
		t.Fatalf("Failed to get family: %v", err)
	}
	if got.PhotoFile != "abc-photo.jpg" || got.SchematicFile != "abc-schematic.png" {
		t.Errorf("Image slots not recorded: %+v", got)
	}
	if got.Version != 0 {
		t.Errorf("Image upload must not bump the record version, got %d", got.Version)
	}

	if err := services.SetFamilyImage(db, id, "thumbnail", "x.png"); err == nil {
		t.Error("Expected invalid input for unknown slot")
	}
	if err := services.SetFamilyImage(db, 99999, services.ImagePhoto, "x.png"); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found, got %v", err)
	}
}

// TestListFamiliesOrder tests display ordering
func TestListFamiliesOrder(t *testing.T) {
	db := setupTestDB(t)

	for _, f := range []struct {
		name  string
		order int
	}{
		{"Zeta", 1},
		{"Alpha", 2},
		{"Beta", 1},
	} {
		if _, err := services.CreateFamily(db, f.name, f.order, nil); err != nil {
			t.Fatalf("Failed to create family %s: %v", f.name, err)
		}
	}

	list, err := services.ListFamilies(db)
	if err != nil {
		t.Fatalf("Failed to list families: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 families, got %d", len(list))
	}

	// display_order first, name breaks ties.
	want := []string{"Beta", "Zeta", "Alpha"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
}
