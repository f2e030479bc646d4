package services_test

import (
	"testing"

	"github.com/mandoxxdev/crm-catalog/internal/models"
	"github.com/mandoxxdev/crm-catalog/internal/services"
)

// TestOptionMapGrouping tests the per-family option map shape
func TestOptionMapGrouping(t *testing.T) {
	db := setupTestDB(t)

	familyID, err := services.CreateFamily(db, "Pumps", 0, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	for _, o := range []struct{ variable, value string }{
		{"material", "Cast iron"},
		{"power_hp", "5"},
		{"material", "Stainless steel"},
		{"power_hp", "10"},
	} {
		if _, err := services.AddOption(db, familyID, o.variable, o.value); err != nil {
			t.Fatalf("Failed to add option %+v: %v", o, err)
		}
	}

	m, err := services.OptionMap(db, familyID)
	if err != nil {
		t.Fatalf("Failed to get option map: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("Expected 2 variables in map, got %d", len(m))
	}
	if len(m["material"]) != 2 || len(m["power_hp"]) != 2 {
		t.Errorf("Unexpected grouping: %v", m)
	}
	// Insertion order per variable.
	if m["material"][0].Value != "Cast iron" || m["material"][1].Value != "Stainless steel" {
		t.Errorf("Expected insertion order, got %v", m["material"])
	}
	for _, item := range m["material"] {
		if item.ID == 0 {
			t.Error("Expected server-assigned option ids")
		}
	}
}

// TestAddOptionRejectsBlankValue tests that blank values never reach the
// database
func TestAddOptionRejectsBlankValue(t *testing.T) {
	db := setupTestDB(t)

	familyID, err := services.CreateFamily(db, "Valves", 0, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	for _, value := range []string{"", "   ", "\t\n"} {
		if _, err := services.AddOption(db, familyID, "material", value); err == nil || err.Error() != "blank value" {
			t.Errorf("Value %q: expected blank value, got %v", value, err)
		}
	}

	var count int64
	db.Model(&models.FamilyVariableOption{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no rows written, got %d", count)
	}
}

// TestAddOptionAllowsDuplicates tests that repeated values are accepted
func TestAddOptionAllowsDuplicates(t *testing.T) {
	db := setupTestDB(t)

	familyID, err := services.CreateFamily(db, "Motors", 0, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	a, err := services.AddOption(db, familyID, "voltage", "220V")
	if err != nil {
		t.Fatalf("Failed to add option: %v", err)
	}
	b, err := services.AddOption(db, familyID, "voltage", "220V")
	if err != nil {
		t.Fatalf("Expected duplicate value to be accepted, got %v", err)
	}
	if a.ID == b.ID {
		t.Error("Expected distinct ids for duplicate values")
	}

	m, _ := services.OptionMap(db, familyID)
	if len(m["voltage"]) != 2 {
		t.Errorf("Expected both rows in map, got %v", m["voltage"])
	}
}

// TestRemoveOption tests scoped deletion
func TestRemoveOption(t *testing.T) {
	db := setupTestDB(t)

	familyID, err := services.CreateFamily(db, "Fans", 0, nil)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}

	item, err := services.AddOption(db, familyID, "diameter", "400mm")
	if err != nil {
		t.Fatalf("Failed to add option: %v", err)
	}

	// Wrong variable scope must miss.
	if err := services.RemoveOption(db, familyID, "material", item.ID); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found for wrong variable, got %v", err)
	}

	if err := services.RemoveOption(db, familyID, "diameter", item.ID); err != nil {
		t.Fatalf("Failed to remove option: %v", err)
	}
	if err := services.RemoveOption(db, familyID, "diameter", item.ID); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found on second removal, got %v", err)
	}

	m, _ := services.OptionMap(db, familyID)
	if len(m) != 0 {
		t.Errorf("Expected empty map, got %v", m)
	}
}

// TestOptionsUnknownFamily tests family existence checks
func TestOptionsUnknownFamily(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.OptionMap(db, 12345); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found, got %v", err)
	}
	if _, err := services.AddOption(db, 12345, "material", "Steel"); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found, got %v", err)
	}
}
