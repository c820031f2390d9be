package contents

import (
	"context"

	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the content ledger: per-item acquisition cost lines of a container.
// It never owns the container grand total, but every mutation path here ends by
// recomputing it inside the same transaction.
type Service struct {
	DB *gorm.DB
}

// ItemInput is one content line as submitted by the client. Total is not
// accepted from the client; it is recomputed server-side.
type ItemInput struct {
	Seq       int     `json:"seq"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      string  `json:"year"`
	LotNumber string  `json:"lot_number"`
	Price     float64 `json:"price"`
	Recovery  float64 `json:"recovery"`
	Cutting   float64 `json:"cutting"`
}

func validateItems(items []ItemInput) error {
	for _, it := range items {
		if it.Price < 0 || it.Recovery < 0 || it.Cutting < 0 {
			return apperr.InvalidInput("Cost components must not be negative")
		}
	}
	return nil
}

// ReplaceTx deletes the container's content set and inserts the new one, with
// per-item totals recomputed, then recomputes the container grand total. Runs
// inside the caller's transaction so a failure never leaves a mixed state.
func ReplaceTx(tx *gorm.DB, containerID uuid.UUID, items []ItemInput) ([]models.ContentItem, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if err := tx.Where("container_id = ?", containerID).Delete(&models.ContentItem{}).Error; err != nil {
		return nil, apperr.Internal("Failed to replace contents", err)
	}
	rows := make([]models.ContentItem, 0, len(items))
	for _, it := range items {
		row := models.ContentItem{
			ContainerID: containerID,
			Seq:         it.Seq,
			Make:        it.Make,
			Model:       it.Model,
			Year:        it.Year,
			LotNumber:   it.LotNumber,
			Price:       it.Price,
			Recovery:    it.Recovery,
			Cutting:     it.Cutting,
		}
		row.ComputeTotal()
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			return nil, apperr.Internal("Failed to replace contents", err)
		}
	}
	if err := RecomputeGrandTotalTx(tx, containerID); err != nil {
		return nil, err
	}
	return rows, nil
}

// RecomputeGrandTotalTx persists grand_total = rent + Σ(item.total) for the
// container. Callers mutating contents or rent must invoke this in the same
// transaction.
func RecomputeGrandTotalTx(tx *gorm.DB, containerID uuid.UUID) error {
	var sum float64
	if err := tx.Model(&models.ContentItem{}).
		Where("container_id = ?", containerID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error; err != nil {
		return apperr.Internal("Failed to total contents", err)
	}
	var rent float64
	if err := tx.Model(&models.Container{}).
		Where("container_id = ?", containerID).
		Select("rent").
		Scan(&rent).Error; err != nil {
		return apperr.Internal("Failed to load container rent", err)
	}
	if err := tx.Model(&models.Container{}).
		Where("container_id = ?", containerID).
		Update("grand_total", rent+sum).Error; err != nil {
		return apperr.Internal("Failed to update grand total", err)
	}
	return nil
}

// Replace is the standalone replace-contents operation (container update path
// goes through ReplaceTx directly). Owner-or-manager only.
func (s *Service) Replace(ctx context.Context, p *models.Principal, containerID uuid.UUID, items []ItemInput) ([]models.ContentItem, error) {
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ReplaceTx(tx, containerID, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.listOrdered(ctx, containerID)
}

// DeleteItem removes a single content line without touching siblings and
// recomputes the container grand total.
func (s *Service) DeleteItem(ctx context.Context, p *models.Principal, itemID uuid.UUID) error {
	var item models.ContentItem
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("Content item not found")
		}
		return apperr.Internal("Failed to load content item", err)
	}
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", item.ContainerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("Container not found")
		}
		return apperr.Internal("Failed to load container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return apperr.Forbidden("Not the container owner")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&models.ContentItem{}).Error; err != nil {
			return apperr.Internal("Failed to delete content item", err)
		}
		return RecomputeGrandTotalTx(tx, item.ContainerID)
	})
}

// ListForContainer returns the container's content lines ordered by sequence.
func (s *Service) ListForContainer(ctx context.Context, p *models.Principal, containerID uuid.UUID) ([]models.ContentItem, error) {
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	return s.listOrdered(ctx, containerID)
}

func (s *Service) listOrdered(ctx context.Context, containerID uuid.UUID) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := s.DB.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("seq ASC").
		Find(&items).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch contents", err)
	}
	return items, nil
}
