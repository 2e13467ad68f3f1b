package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/domain/shipping"
	"github.com/gescom/backend/internal/infrastructure/persistence/models"
)

// GormDeliveryNoteRepository implements shipping.DeliveryNoteRepository using GORM
type GormDeliveryNoteRepository struct {
	db *gorm.DB
}

// NewGormDeliveryNoteRepository creates a new GormDeliveryNoteRepository
func NewGormDeliveryNoteRepository(db *gorm.DB) *GormDeliveryNoteRepository {
	return &GormDeliveryNoteRepository{db: db}
}

// FindByID finds a delivery note by its ID
func (r *GormDeliveryNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.DeliveryNote, error) {
	var model models.DeliveryNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumero finds a delivery note by its numero
func (r *GormDeliveryNoteRepository) FindByNumero(ctx context.Context, numero string) (*shipping.DeliveryNote, error) {
	var model models.DeliveryNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("numero = ?", numero).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds all delivery notes derived from an order
func (r *GormDeliveryNoteRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*shipping.DeliveryNote, error) {
	var noteModels []models.DeliveryNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]*shipping.DeliveryNote, len(noteModels))
	for i := range noteModels {
		notes[i] = noteModels[i].ToDomain()
	}
	return notes, nil
}

// FindAll finds delivery notes matching the filter
func (r *GormDeliveryNoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*shipping.DeliveryNote, error) {
	var noteModels []models.DeliveryNoteModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DeliveryNoteModel{}).Preload("Lines"),
		filter,
	)

	if err := query.Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]*shipping.DeliveryNote, len(noteModels))
	for i := range noteModels {
		notes[i] = noteModels[i].ToDomain()
	}
	return notes, nil
}

// Count counts delivery notes matching the filter
func (r *GormDeliveryNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.DeliveryNoteModel{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts delivery notes with the given status
func (r *GormDeliveryNoteRepository) CountByStatus(ctx context.Context, status shipping.DeliveryStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DeliveryNoteModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a delivery note together with its lines
func (r *GormDeliveryNoteRepository) Save(ctx context.Context, note *shipping.DeliveryNote) error {
	var model models.DeliveryNoteModel
	model.FromDomain(note)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(&model).Error; err != nil {
			return err
		}
		return saveDeliveryLines(tx, model.ID, model.Lines)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDeliveryNoteRepository) SaveWithLock(ctx context.Context, note *shipping.DeliveryNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		read := tx.Model(&models.DeliveryNoteModel{}).
			Where("id = ?", note.ID).
			Select("version").
			Scan(&currentVersion)
		if read.Error != nil {
			return read.Error
		}
		if read.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != note.Version {
			return shared.ErrConcurrencyConflict
		}

		note.Version++
		note.UpdatedAt = time.Now()

		var model models.DeliveryNoteModel
		model.FromDomain(note)

		result := tx.Model(&models.DeliveryNoteModel{}).
			Where("id = ? AND version = ?", model.ID, currentVersion).
			Updates(map[string]interface{}{
				"rep_id":          model.RepID,
				"status":          model.Status,
				"carrier":         model.Carrier,
				"tracking_number": model.TrackingNumber,
				"total_weight_kg": model.TotalWeightKg,
				"parcel_count":    model.ParcelCount,
				"notes":           model.Notes,
				"prepared_at":     model.PreparedAt,
				"shipped_at":      model.ShippedAt,
				"delivered_at":    model.DeliveredAt,
				"returned_at":     model.ReturnedAt,
				"cancelled_at":    model.CancelledAt,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return saveDeliveryLines(tx, model.ID, model.Lines)
	})
}

// saveDeliveryLines removes lines dropped from the aggregate and upserts the rest
func saveDeliveryLines(tx *gorm.DB, deliveryID uuid.UUID, lines []models.DeliveryLineModel) error {
	currentLineIDs := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("delivery_id = ? AND id NOT IN ?", deliveryID, currentLineIDs).
			Delete(&models.DeliveryLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("delivery_id = ?", deliveryID).
			Delete(&models.DeliveryLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range lines {
		lines[i].DeliveryID = deliveryID
		if err := tx.Save(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormDeliveryNoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDeliveryNoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("numero LIKE ? OR tracking_number LIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "carrier":
			query = query.Where("carrier = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormDeliveryNoteRepository implements DeliveryNoteRepository
var _ shipping.DeliveryNoteRepository = (*GormDeliveryNoteRepository)(nil)
