package models

import (
	"time"
)

// SequenceModel is the per-document-type numero counter row. The value is
// incremented atomically inside the allocation transaction, so concurrent
// allocations serialize on the row instead of reading a stale count.
type SequenceModel struct {
	DocType   string    `gorm:"type:varchar(10);primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "document_sequences"
}
