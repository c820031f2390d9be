package transfers

import (
	"context"
	"time"

	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the transfer ledger: payments from users toward vendors, earmarked
// to containers. Rows are immutable once created, except for deletion.
type Service struct {
	DB *gorm.DB
}

// CreateInput for a new transfer. SenderName is who physically delivered the
// funds; the authenticated principal is recorded separately as the sender.
type CreateInput struct {
	VendorID      uuid.UUID
	ContainerID   uuid.UUID
	Amount        float64
	Type          string
	TransferredOn time.Time
	SenderName    string
	Description   string
}

// Create validates the references, resolves the nominal receiver from the
// vendor's registered owner, and persists the transfer.
func (s *Service) Create(ctx context.Context, p *models.Principal, in CreateInput) (*models.Transfer, error) {
	if in.Amount <= 0 {
		return nil, apperr.InvalidInput("Amount must be a positive number")
	}
	if !models.ValidTransferType(in.Type) {
		return nil, apperr.InvalidInput("Unknown transfer type")
	}

	var vendor models.Vendor
	if err := s.DB.WithContext(ctx).Where("vendor_id = ?", in.VendorID).First(&vendor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Vendor not found")
		}
		return nil, apperr.Internal("Failed to load vendor", err)
	}
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", in.ContainerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not entitled to pay against this container")
	}

	transfer := &models.Transfer{
		ContainerID:   in.ContainerID,
		VendorID:      in.VendorID,
		SenderID:      p.ID,
		ReceiverID:    vendor.OwnerID,
		Amount:        in.Amount,
		Type:          in.Type,
		TransferredOn: datatypes.Date(in.TransferredOn),
		SenderName:    in.SenderName,
		Description:   in.Description,
	}
	if err := s.DB.WithContext(ctx).Create(transfer).Error; err != nil {
		return nil, apperr.Internal("Failed to create transfer", err)
	}
	return transfer, nil
}

// ListForContainer returns all transfers for managers, only the principal's own
// rows otherwise. Documents are included.
func (s *Service) ListForContainer(ctx context.Context, p *models.Principal, containerID uuid.UUID) ([]models.Transfer, error) {
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	q := s.DB.WithContext(ctx).Preload("Documents").
		Where("container_id = ?", containerID).
		Order("created_at DESC")
	if !p.IsManager() {
		q = q.Where("sender_id = ?", p.ID)
	}
	var out []models.Transfer
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch transfers", err)
	}
	return out, nil
}

// Delete removes a transfer and cascades its attached documents. Manager or
// original sender only.
func (s *Service) Delete(ctx context.Context, p *models.Principal, transferID uuid.UUID) error {
	var transfer models.Transfer
	if err := s.DB.WithContext(ctx).Where("transfer_id = ?", transferID).First(&transfer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("Transfer not found")
		}
		return apperr.Internal("Failed to load transfer", err)
	}
	if !p.IsManager() && p.ID != transfer.SenderID {
		return apperr.Forbidden("Not the transfer sender")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", transferID).Delete(&models.Document{}).Error; err != nil {
			return apperr.Internal("Failed to delete transfer documents", err)
		}
		if err := tx.Where("transfer_id = ?", transferID).Delete(&models.Transfer{}).Error; err != nil {
			return apperr.Internal("Failed to delete transfer", err)
		}
		return nil
	})
}

// TotalAmount sums every transfer row for the container. There is no per-row
// status concept; the sum is the authoritative paid figure.
func (s *Service) TotalAmount(ctx context.Context, containerID uuid.UUID) (float64, error) {
	var total float64
	if err := s.DB.WithContext(ctx).Model(&models.Transfer{}).
		Where("container_id = ?", containerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, apperr.Internal("Failed to total transfers", err)
	}
	return total, nil
}
