package vendors

import (
	"context"

	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages vendor counterparties. Vendors are owned by the user who
// registered them.
type Service struct {
	DB *gorm.DB
}

// Input for vendor create/update.
type Input struct {
	Company        string `json:"company"`
	Address        string `json:"address"`
	Representative string `json:"representative"`
	Contact        string `json:"contact"`
	Country        string `json:"country"`
}

func (s *Service) Create(ctx context.Context, p *models.Principal, in Input) (*models.Vendor, error) {
	if in.Company == "" {
		return nil, apperr.InvalidInput("Company name is required")
	}
	vendor := &models.Vendor{
		OwnerID:        p.ID,
		Company:        in.Company,
		Address:        in.Address,
		Representative: in.Representative,
		Contact:        in.Contact,
		Country:        in.Country,
	}
	if err := s.DB.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, apperr.Internal("Failed to create vendor", err)
	}
	return vendor, nil
}

// List returns all vendors for managers, own vendors otherwise.
func (s *Service) List(ctx context.Context, p *models.Principal) ([]models.Vendor, error) {
	q := s.DB.WithContext(ctx).Order("company ASC")
	if !p.IsManager() {
		q = q.Where("owner_id = ?", p.ID)
	}
	var out []models.Vendor
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch vendors", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, p *models.Principal, vendorID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.load(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(vendor.OwnerID) {
		return nil, apperr.Forbidden("Not the vendor owner")
	}
	return vendor, nil
}

func (s *Service) Update(ctx context.Context, p *models.Principal, vendorID uuid.UUID, in Input) (*models.Vendor, error) {
	vendor, err := s.load(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(vendor.OwnerID) {
		return nil, apperr.Forbidden("Not the vendor owner")
	}
	if in.Company == "" {
		return nil, apperr.InvalidInput("Company name is required")
	}
	updates := map[string]interface{}{
		"company":        in.Company,
		"address":        in.Address,
		"representative": in.Representative,
		"contact":        in.Contact,
		"country":        in.Country,
	}
	if err := s.DB.WithContext(ctx).Model(vendor).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("Failed to update vendor", err)
	}
	return s.load(ctx, vendorID)
}

// Delete removes a vendor. A vendor still referenced by containers or transfers
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, p *models.Principal, vendorID uuid.UUID) error {
	vendor, err := s.load(ctx, vendorID)
	if err != nil {
		return err
	}
	if !p.CanAccess(vendor.OwnerID) {
		return apperr.Forbidden("Not the vendor owner")
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Container{}).
		Where("vendor_id = ?", vendorID).Count(&n).Error; err != nil {
		return apperr.Internal("Failed to check vendor references", err)
	}
	if n > 0 {
		return apperr.Conflict("Vendor has containers")
	}
	if err := s.DB.WithContext(ctx).Model(&models.Transfer{}).
		Where("vendor_id = ?", vendorID).Count(&n).Error; err != nil {
		return apperr.Internal("Failed to check vendor references", err)
	}
	if n > 0 {
		return apperr.Conflict("Vendor has transfers")
	}
	if err := s.DB.WithContext(ctx).Where("vendor_id = ?", vendorID).Delete(&models.Vendor{}).Error; err != nil {
		return apperr.Internal("Failed to delete vendor", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.DB.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&vendor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Vendor not found")
		}
		return nil, apperr.Internal("Failed to fetch vendor", err)
	}
	return &vendor, nil
}
