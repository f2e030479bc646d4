package models

import (
	"time"
)

// FamilyVariableOption is one admin-curated allowed value for a
// (family, variable) pair, e.g. "50 HP". Duplicate values within a pair are
// permitted; the only mutation path is remove and re-add.
type FamilyVariableOption struct {
	OptionID    uint64 `gorm:"primaryKey;autoIncrement"`
	FamilyID    uint64 `gorm:"not null;index:idx_family_variable"`
	VariableKey string `gorm:"size:255;not null;index:idx_family_variable"`
	OptionValue string `gorm:"size:255;not null"`
	CreatedAt   time.Time
}

// TableName overrides the table name for FamilyVariableOption
func (FamilyVariableOption) TableName() string {
	return "family_variable_options"
}
