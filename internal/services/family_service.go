package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mandoxxdev/crm-catalog/internal/markers"
	"github.com/mandoxxdev/crm-catalog/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// FamilyResult is the API output format for one family record, with the
// marker collection hydrated from its persisted JSON column.
type FamilyResult struct {
	FamilyID      uint64              `json:"familyId"`
	Name          string              `json:"name"`
	DisplayOrder  int                 `json:"displayOrder"`
	Version       uint64              `json:"version"`
	Markers       *markers.Collection `json:"markers"`
	PhotoFile     string              `json:"photoFile,omitempty"`
	SchematicFile string              `json:"schematicFile,omitempty"`
}

// ListFamilies retrieves all families ordered for display.
func ListFamilies(db *gorm.DB) ([]FamilyResult, error) {
	var rows []models.Family
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Order("display_order, family_name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]FamilyResult, 0, len(rows))
	for i := range rows {
		out = append(out, reduceFamily(&rows[i]))
	}
	return out, nil
}

// GetFamily retrieves one family by id.
func GetFamily(db *gorm.DB, familyID uint64) (*FamilyResult, error) {
	var row models.Family
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		First(&row, familyID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}

	result := reduceFamily(&row)
	return &result, nil
}

// CreateFamily inserts a new family record with its marker collection.
func CreateFamily(db *gorm.DB, name string, displayOrder int, col *markers.Collection) (uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("invalid input")
	}
	if col == nil {
		col = markers.New()
	}

	raw, err := json.Marshal(col)
	if err != nil {
		return 0, err
	}

	row := models.Family{
		FamilyName:   name,
		DisplayOrder: displayOrder,
		Markers:      models.JSON{JSON: datatypes.JSON(raw)},
	}
	if err := db.Create(&row).Error; err != nil {
		return 0, err
	}
	return row.FamilyID, nil
}

// UpdateFamily rewrites a family's scalar fields and marker collection as
// one update, guarded by an optimistic record-version check. A stale
// version returns E_VERSION so the client can refresh and reconcile.
func UpdateFamily(db *gorm.DB, familyID, version uint64, name string, displayOrder int, col *markers.Collection) (uint64, int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, 0, fmt.Errorf("invalid input")
	}
	if col == nil {
		col = markers.New()
	}

	raw, err := json.Marshal(col)
	if err != nil {
		return 0, 0, err
	}

	var newVersion uint64
	var affectedRows int64

	err = db.Transaction(func(tx *gorm.DB) error {
		// Lock and check version
		var row models.Family
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, familyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}
		if row.RecordVersion != version {
			return fmt.Errorf("E_VERSION")
		}

		newVersion = row.RecordVersion + 1
		res := tx.Model(&row).Updates(map[string]interface{}{
			"family_name":    name,
			"display_order":  displayOrder,
			"markers":        models.JSON{JSON: datatypes.JSON(raw)},
			"record_version": newVersion,
		})
		if res.Error != nil {
			return res.Error
		}
		affectedRows = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return newVersion, affectedRows, nil
}

// Image slots on a family record.
const (
	ImagePhoto     = "photo"
	ImageSchematic = "schematic"
)

// SetFamilyImage records the stored filename for one of the family's image
// slots. Uploads land after the record write, so this does not bump the
// record version.
func SetFamilyImage(db *gorm.DB, familyID uint64, slot, filename string) error {
	var column string
	switch slot {
	case ImagePhoto:
		column = "photo_file"
	case ImageSchematic:
		column = "schematic_file"
	default:
		return fmt.Errorf("invalid input")
	}

	res := db.Model(&models.Family{}).
		Where("family_id = ?", familyID).
		Update(column, filename)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// reduceFamily converts a family row to API output, hydrating the marker
// collection tolerantly: legacy shapes normalize, malformed JSON degrades
// to an empty collection.
func reduceFamily(row *models.Family) FamilyResult {
	return FamilyResult{
		FamilyID:      row.FamilyID,
		Name:          row.FamilyName,
		DisplayOrder:  row.DisplayOrder,
		Version:       row.RecordVersion,
		Markers:       markers.Decode(row.Markers.JSON),
		PhotoFile:     row.PhotoFile,
		SchematicFile: row.SchematicFile,
	}
}
