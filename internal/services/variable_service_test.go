package services_test

import (
	"testing"

	"github.com/mandoxxdev/crm-catalog/internal/models"
	"github.com/mandoxxdev/crm-catalog/internal/services"
)

// TestVariableLifecycle tests create, update and deactivate
func TestVariableLifecycle(t *testing.T) {
	db := setupTestDB(t)

	if err := services.CreateVariable(db, "power_hp", "Power (HP)", "electrical", models.DataKindNumeric); err != nil {
		t.Fatalf("Failed to create variable: %v", err)
	}
	if err := services.CreateVariable(db, "material", "Material", "", ""); err != nil {
		t.Fatalf("Failed to create variable: %v", err)
	}

	list, err := services.ListActiveVariables(db)
	if err != nil {
		t.Fatalf("Failed to list variables: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 variables, got %d", len(list))
	}
	if list[0].Key != "power_hp" || list[1].Key != "material" {
		t.Errorf("Expected creation order, got %v", list)
	}
	if list[1].DataKind != models.DataKindText {
		t.Errorf("Expected blank data kind to default to text, got %q", list[1].DataKind)
	}

	if err := services.UpdateVariable(db, "material", "Casing material", "mechanical", models.DataKindList); err != nil {
		t.Fatalf("Failed to update variable: %v", err)
	}
	list, _ = services.ListActiveVariables(db)
	if list[1].DisplayName != "Casing material" || list[1].DataKind != models.DataKindList {
		t.Errorf("Update not applied: %+v", list[1])
	}

	if err := services.DeactivateVariable(db, "power_hp"); err != nil {
		t.Fatalf("Failed to deactivate variable: %v", err)
	}
	list, _ = services.ListActiveVariables(db)
	if len(list) != 1 || list[0].Key != "material" {
		t.Errorf("Expected only material after deactivation, got %v", list)
	}

	// The retired row stays in place so old markers can still resolve it.
	var total int64
	db.Model(&models.TechnicalVariable{}).Count(&total)
	if total != 2 {
		t.Errorf("Expected 2 rows retained, got %d", total)
	}
}

// TestCreateVariableDuplicateKey tests active-key uniqueness
func TestCreateVariableDuplicateKey(t *testing.T) {
	db := setupTestDB(t)

	if err := services.CreateVariable(db, "voltage", "Voltage", "", ""); err != nil {
		t.Fatalf("Failed to create variable: %v", err)
	}

	err := services.CreateVariable(db, "voltage", "Voltage again", "", "")
	if err == nil || err.Error() != "duplicate key" {
		t.Errorf("Expected duplicate key, got %v", err)
	}

	// A deactivated key may be re-issued.
	if err := services.DeactivateVariable(db, "voltage"); err != nil {
		t.Fatalf("Failed to deactivate variable: %v", err)
	}
	if err := services.CreateVariable(db, "voltage", "Voltage v2", "", ""); err != nil {
		t.Errorf("Expected re-issue of deactivated key to succeed, got %v", err)
	}
}

// TestCreateVariableValidation tests input rejection
func TestCreateVariableValidation(t *testing.T) {
	db := setupTestDB(t)

	cases := []struct {
		key, name, kind string
	}{
		{"", "Name", ""},
		{"  ", "Name", ""},
		{"key", "", ""},
		{"key", "Name", "blob"},
	}
	for _, c := range cases {
		if err := services.CreateVariable(db, c.key, c.name, "", c.kind); err == nil || err.Error() != "invalid input" {
			t.Errorf("Case %+v: expected invalid input, got %v", c, err)
		}
	}
}

// TestUpdateVariableNotFound tests misses on inactive and unknown keys
func TestUpdateVariableNotFound(t *testing.T) {
	db := setupTestDB(t)

	if err := services.UpdateVariable(db, "ghost", "Ghost", "", ""); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found, got %v", err)
	}

	if err := services.CreateVariable(db, "flow", "Flow", "", ""); err != nil {
		t.Fatalf("Failed to create variable: %v", err)
	}
	if err := services.DeactivateVariable(db, "flow"); err != nil {
		t.Fatalf("Failed to deactivate variable: %v", err)
	}
	if err := services.UpdateVariable(db, "flow", "Flow rate", "", ""); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found on deactivated key, got %v", err)
	}
	if err := services.DeactivateVariable(db, "flow"); err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found on second deactivation, got %v", err)
	}
}
