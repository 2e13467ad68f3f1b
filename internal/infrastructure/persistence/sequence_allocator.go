package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/infrastructure/persistence/models"
)

// GormSequenceAllocator implements numbering.Allocator on the
// document_sequences table. Each allocation increments the per-type counter
// row with a single atomic UPDATE, so two concurrent allocations serialize
// on the row lock and can never observe the same value.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// Next reserves and formats the next numero for the document type
func (a *GormSequenceAllocator) Next(ctx context.Context, docType numbering.DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", shared.NewDomainError("INVALID_DOC_TYPE", "Unknown document type: "+docType.String())
	}

	var numero string
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := incrementSequence(tx, docType)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// First allocation for this type seeds the counter row.
			// ON CONFLICT DO NOTHING keeps a lost seeding race from
			// poisoning the transaction, so the increment can be retried
			// against the winner's row.
			seed := models.SequenceModel{
				DocType:   docType.String(),
				Value:     1,
				UpdatedAt: time.Now(),
			}
			seeded := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed)
			if seeded.Error != nil {
				return seeded.Error
			}
			if seeded.RowsAffected == 1 {
				numero = numbering.Format(docType, 1)
				return nil
			}

			result = incrementSequence(tx, docType)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrNumberingConflict
			}
		}

		var row models.SequenceModel
		if err := tx.First(&row, "doc_type = ?", docType.String()).Error; err != nil {
			return err
		}
		numero = numbering.Format(docType, row.Value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return numero, nil
}

func incrementSequence(tx *gorm.DB, docType numbering.DocumentType) *gorm.DB {
	return tx.Model(&models.SequenceModel{}).
		Where("doc_type = ?", docType.String()).
		Updates(map[string]interface{}{
			"value":      gorm.Expr("value + 1"),
			"updated_at": time.Now(),
		})
}

// Ensure GormSequenceAllocator implements Allocator
var _ numbering.Allocator = (*GormSequenceAllocator)(nil)
