package models

import (
	"time"
)

// Data kinds a technical variable can take.
const (
	DataKindText    = "text"
	DataKindNumeric = "numeric"
	DataKindList    = "list"
)

// TechnicalVariable is a reusable named attribute (e.g. "motor power (HP)")
// markers reference by key. Variables are never deleted, only deactivated,
// since historical markers may still hold the key.
type TechnicalVariable struct {
	VariableID   uint64 `gorm:"primaryKey;autoIncrement"`
	VariableKey  string `gorm:"index;size:255;not null"`
	DisplayName  string `gorm:"size:255;not null"`
	Category     string `gorm:"size:255"`
	DataKind     string `gorm:"size:50;not null;default:text"`
	Active       bool   `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name for TechnicalVariable
func (TechnicalVariable) TableName() string {
	return "technical_variables"
}
