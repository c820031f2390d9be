package containers

import (
	"context"
	"errors"
	"time"

	"karavan-backend/internal/contents"
	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns container identity, the status machine and ownership rules, and
// aggregates the content ledger into the container grand total.
type Service struct {
	DB *gorm.DB
}

// CreateInput for a new container with its initial content set.
type CreateInput struct {
	VendorID    uuid.UUID
	Code        string
	City        string
	PurchasedOn time.Time
	Rent        float64
	Contents    []contents.ItemInput
}

// UpdateInput replaces the container's mutable fields and its content set.
type UpdateInput struct {
	VendorID    uuid.UUID
	Code        string
	City        string
	PurchasedOn time.Time
	Rent        float64
	Contents    []contents.ItemInput
}

func (s *Service) vendorExists(ctx context.Context, vendorID uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Vendor{}).
		Where("vendor_id = ?", vendorID).Count(&n).Error; err != nil {
		return apperr.Internal("Failed to check vendor", err)
	}
	if n == 0 {
		return apperr.NotFound("Vendor not found")
	}
	return nil
}

// codeTaken reports whether owner already uses code on another container.
func (s *Service) codeTaken(ctx context.Context, ownerID uuid.UUID, code string, exclude uuid.UUID) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&models.Container{}).
		Where("owner_id = ? AND code = ?", ownerID, code)
	if exclude != uuid.Nil {
		q = q.Where("container_id <> ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, apperr.Internal("Failed to check container code", err)
	}
	return n > 0, nil
}

// Create persists the container and its initial content set atomically and
// computes the grand total. The creator becomes the owner.
func (s *Service) Create(ctx context.Context, p *models.Principal, in CreateInput) (*models.Container, error) {
	if in.Code == "" {
		return nil, apperr.InvalidInput("Container code is required")
	}
	if in.Rent < 0 {
		return nil, apperr.InvalidInput("Rent must not be negative")
	}
	if err := s.vendorExists(ctx, in.VendorID); err != nil {
		return nil, err
	}
	taken, err := s.codeTaken(ctx, p.ID, in.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Container code already exists")
	}

	container := &models.Container{
		OwnerID:     p.ID,
		VendorID:    in.VendorID,
		Code:        in.Code,
		Status:      models.StatusPending,
		City:        in.City,
		PurchasedOn: datatypes.Date(in.PurchasedOn),
		Rent:        in.Rent,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(container).Error; err != nil {
			return apperr.Internal("Failed to create container", err)
		}
		items, err := contents.ReplaceTx(tx, container.ContainerID, in.Contents)
		if err != nil {
			return err
		}
		container.Contents = items
		return nil
	})
	if err != nil {
		// codeTaken runs before the insert, so only a concurrent create for the
		// same owner+code reaches the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Container code already exists")
		}
		return nil, err
	}
	// Re-read for the recomputed grand total.
	if err := s.DB.WithContext(ctx).Where("container_id = ?", container.ContainerID).First(container).Error; err != nil {
		return nil, apperr.Internal("Failed to reload container", err)
	}
	return container, nil
}

// Update rewrites the container fields and replaces its contents, recomputing
// the grand total in the same transaction. Owner-or-manager only.
func (s *Service) Update(ctx context.Context, p *models.Principal, containerID uuid.UUID, in UpdateInput) (*models.Container, error) {
	container, err := s.load(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	if in.Code == "" {
		return nil, apperr.InvalidInput("Container code is required")
	}
	if in.Rent < 0 {
		return nil, apperr.InvalidInput("Rent must not be negative")
	}
	if err := s.vendorExists(ctx, in.VendorID); err != nil {
		return nil, err
	}
	taken, err := s.codeTaken(ctx, container.OwnerID, in.Code, containerID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Container code already exists")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"vendor_id":    in.VendorID,
			"code":         in.Code,
			"city":         in.City,
			"purchased_on": datatypes.Date(in.PurchasedOn),
			"rent":         in.Rent,
		}
		if err := tx.Model(&models.Container{}).
			Where("container_id = ?", containerID).
			Updates(updates).Error; err != nil {
			return apperr.Internal("Failed to update container", err)
		}
		_, err := contents.ReplaceTx(tx, containerID, in.Contents)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Container code already exists")
		}
		return nil, err
	}
	return s.load(ctx, containerID)
}

// SetStatus advances the container through the lifecycle. Only forward
// transitions are allowed (pending → shipped → completed); setting the current
// status again is a no-op.
func (s *Service) SetStatus(ctx context.Context, p *models.Principal, containerID uuid.UUID, next models.ContainerStatus) (*models.Container, error) {
	if !next.Valid() {
		return nil, apperr.InvalidInput("Unknown container status")
	}
	container, err := s.load(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	if !container.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidInput("Invalid status transition")
	}
	if next != container.Status {
		if err := s.DB.WithContext(ctx).Model(container).
			Update("status", next).Error; err != nil {
			return nil, apperr.Internal("Failed to update status", err)
		}
		container.Status = next
	}
	return container, nil
}

// Delete removes the container and cascades its content items and documents.
// A container still referenced by transfers, sales, or expenses cannot be
// deleted; those ledgers must be cleared first.
func (s *Service) Delete(ctx context.Context, p *models.Principal, containerID uuid.UUID) error {
	container, err := s.load(ctx, containerID)
	if err != nil {
		return err
	}
	if !p.CanAccess(container.OwnerID) {
		return apperr.Forbidden("Not the container owner")
	}

	type refCheck struct {
		model interface{}
		msg   string
	}
	for _, rc := range []refCheck{
		{&models.Transfer{}, "Container has transfers"},
		{&models.SaleItem{}, "Container has sale records"},
		{&models.ExpenseItem{}, "Container has expense records"},
	} {
		var n int64
		if err := s.DB.WithContext(ctx).Model(rc.model).
			Where("container_id = ?", containerID).Count(&n).Error; err != nil {
			return apperr.Internal("Failed to check container references", err)
		}
		if n > 0 {
			return apperr.Conflict(rc.msg)
		}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("container_id = ?", containerID).Delete(&models.ContentItem{}).Error; err != nil {
			return apperr.Internal("Failed to delete contents", err)
		}
		if err := tx.Where("container_id = ?", containerID).Delete(&models.Document{}).Error; err != nil {
			return apperr.Internal("Failed to delete documents", err)
		}
		if err := tx.Where("container_id = ?", containerID).Delete(&models.Container{}).Error; err != nil {
			return apperr.Internal("Failed to delete container", err)
		}
		return nil
	})
}

// Summary is the minimal listing projection.
type Summary struct {
	ContainerID uuid.UUID              `json:"container_id"`
	Code        string                 `json:"code"`
	Status      models.ContainerStatus `json:"status"`
	City        string                 `json:"city"`
	PurchasedOn datatypes.Date         `json:"purchased_on"`
}

// List returns all containers for managers, owned containers otherwise.
func (s *Service) List(ctx context.Context, p *models.Principal) ([]Summary, error) {
	q := s.DB.WithContext(ctx).Model(&models.Container{}).Order("created_at DESC")
	if !p.IsManager() {
		q = q.Where("owner_id = ?", p.ID)
	}
	var out []Summary
	if err := q.Select("container_id, code, status, city, purchased_on").Scan(&out).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch containers", err)
	}
	return out, nil
}

// ListDetail is List with the full projection (contents, vendor, documents, owner).
func (s *Service) ListDetail(ctx context.Context, p *models.Principal) ([]models.Container, error) {
	q := s.detailQuery(ctx).Order("created_at DESC")
	if !p.IsManager() {
		q = q.Where("owner_id = ?", p.ID)
	}
	var out []models.Container
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch containers", err)
	}
	return out, nil
}

// Get returns the full projection for one container. Owner-or-manager only.
func (s *Service) Get(ctx context.Context, p *models.Principal, containerID uuid.UUID) (*models.Container, error) {
	var container models.Container
	if err := s.detailQuery(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to fetch container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	return &container, nil
}

func (s *Service) detailQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Contents", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Vendor").
		Preload("Documents").
		Preload("Owner")
}

func (s *Service) load(ctx context.Context, containerID uuid.UUID) (*models.Container, error) {
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to fetch container", err)
	}
	return &container, nil
}
