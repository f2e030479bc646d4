package services

import (
	"fmt"
	"strings"

	"github.com/mandoxxdev/crm-catalog/internal/markers"
	"github.com/mandoxxdev/crm-catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ListActiveVariables retrieves the active technical-variable registry in
// creation order, as the marker editor consumes it.
func ListActiveVariables(db *gorm.DB) ([]markers.Variable, error) {
	var rows []models.TechnicalVariable
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("active = ?", true).
		Order("variable_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]markers.Variable, 0, len(rows))
	for _, row := range rows {
		out = append(out, markers.Variable{
			Key:         row.VariableKey,
			DisplayName: row.DisplayName,
			Category:    row.Category,
			DataKind:    row.DataKind,
		})
	}
	return out, nil
}

// CreateVariable registers a new technical variable. The key is immutable
// afterwards and must be unique among active variables; a deactivated key
// may be re-issued.
func CreateVariable(db *gorm.DB, key, displayName, category, dataKind string) error {
	key = strings.TrimSpace(key)
	displayName = strings.TrimSpace(displayName)
	if key == "" || displayName == "" {
		return fmt.Errorf("invalid input")
	}
	if dataKind == "" {
		dataKind = models.DataKindText
	}
	switch dataKind {
	case models.DataKindText, models.DataKindNumeric, models.DataKindList:
	default:
		return fmt.Errorf("invalid input")
	}

	var count int64
	if err := db.Model(&models.TechnicalVariable{}).
		Where("variable_key = ? AND active = ?", key, true).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("duplicate key")
	}

	return db.Create(&models.TechnicalVariable{
		VariableKey: key,
		DisplayName: displayName,
		Category:    category,
		DataKind:    dataKind,
		Active:      true,
	}).Error
}

// UpdateVariable edits an active variable's display metadata. The key
// itself never changes.
func UpdateVariable(db *gorm.DB, key, displayName, category, dataKind string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("invalid input")
	}

	updates := map[string]interface{}{
		"display_name": displayName,
		"category":     category,
	}
	if dataKind != "" {
		switch dataKind {
		case models.DataKindText, models.DataKindNumeric, models.DataKindList:
			updates["data_kind"] = dataKind
		default:
			return fmt.Errorf("invalid input")
		}
	}

	res := db.Model(&models.TechnicalVariable{}).
		Where("variable_key = ? AND active = ?", key, true).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// DeactivateVariable retires a variable without deleting the row, since
// historical markers may still reference the key.
func DeactivateVariable(db *gorm.DB, key string) error {
	res := db.Model(&models.TechnicalVariable{}).
		Where("variable_key = ? AND active = ?", key, true).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
