package services

import (
	"fmt"
	"strings"

	"github.com/mandoxxdev/crm-catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// OptionItem is one allowed value of a (family, variable) pair.
type OptionItem struct {
	ID    uint64 `json:"id"`
	Value string `json:"value"`
}

// OptionMap retrieves the full per-family option catalog, keyed by variable
// key in insertion order per variable. The SPA refetches this map after
// every mutation to pick up server-assigned ids.
func OptionMap(db *gorm.DB, familyID uint64) (map[string][]OptionItem, error) {
	if err := familyExists(db, familyID); err != nil {
		return nil, err
	}

	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
	// Index hint syntax is MySQL/MariaDB only.
	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_family_variable"))
	}

	var rows []models.FamilyVariableOption
	err := query.
		Where("family_id = ?", familyID).
		Order("option_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]OptionItem)
	for _, row := range rows {
		out[row.VariableKey] = append(out[row.VariableKey], OptionItem{
			ID:    row.OptionID,
			Value: row.OptionValue,
		})
	}
	return out, nil
}

// AddOption appends an allowed value to a (family, variable) pair. Blank
// values are rejected; duplicate values are not (remove and re-add is the
// only mutation path, and the legacy catalog tolerated duplicates).
func AddOption(db *gorm.DB, familyID uint64, variableKey, value string) (*OptionItem, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("blank value")
	}
	variableKey = strings.TrimSpace(variableKey)
	if variableKey == "" {
		return nil, fmt.Errorf("invalid input")
	}

	if err := familyExists(db, familyID); err != nil {
		return nil, err
	}

	row := models.FamilyVariableOption{
		FamilyID:    familyID,
		VariableKey: variableKey,
		OptionValue: value,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &OptionItem{ID: row.OptionID, Value: row.OptionValue}, nil
}

// RemoveOption deletes one option by id, scoped to its family and variable.
func RemoveOption(db *gorm.DB, familyID uint64, variableKey string, optionID uint64) error {
	res := db.Where("option_id = ? AND family_id = ? AND variable_key = ?",
		optionID, familyID, variableKey).
		Delete(&models.FamilyVariableOption{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

func familyExists(db *gorm.DB, familyID uint64) error {
	var count int64
	if err := db.Model(&models.Family{}).
		Where("family_id = ?", familyID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
