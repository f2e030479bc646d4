package models

import (
	"time"
)

// Family is a named grouping of catalog products sharing a reference
// schematic image. The marker collection is persisted as a single JSON
// document on the row.
type Family struct {
	FamilyID      uint64 `gorm:"primaryKey;autoIncrement"`
	FamilyName    string `gorm:"uniqueIndex;size:255;not null"`
	DisplayOrder  int    `gorm:"not null;default:0"`
	RecordVersion uint64 `gorm:"not null;default:0"`
	Markers       JSON   `gorm:"type:json"`
	PhotoFile     string `gorm:"size:255"`
	SchematicFile string `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Options []FamilyVariableOption `gorm:"foreignKey:FamilyID"`
}

// TableName overrides the table name for Family
func (Family) TableName() string {
	return "families"
}
