package sales

import (
	"context"

	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the destination-market ledger: sale revenue and expense lines in
// AED, recorded against completed containers. Both line-item sets are replaced
// as a unit on save, mirroring the content ledger.
type Service struct {
	DB *gorm.DB
}

// SaleInput is one revenue line as submitted.
type SaleInput struct {
	Seq       int     `json:"seq"`
	Item      string  `json:"item"`
	SalePrice float64 `json:"sale_price"`
	LotNumber string  `json:"lot_number"`
	Note      string  `json:"note"`
}

// ExpenseInput is one cost line as submitted.
type ExpenseInput struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Ledger is both line-item sets of one container.
type Ledger struct {
	Sales    []models.SaleItem    `json:"sales"`
	Expenses []models.ExpenseItem `json:"expenses"`
}

// Replace swaps both ledgers atomically. Manager-only, and the container must
// have reached completed status; selling out of a container still on the water
// is a bookkeeping error.
func (s *Service) Replace(ctx context.Context, p *models.Principal, containerID uuid.UUID, saleIn []SaleInput, expendIn []ExpenseInput) (*Ledger, error) {
	if !p.IsManager() {
		return nil, apperr.Forbidden("Only managers may record sales and expenses")
	}
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	if container.Status != models.StatusCompleted {
		return nil, apperr.Conflict("Container is not completed")
	}
	for _, e := range expendIn {
		if !models.ValidExpenseCategory(e.Category) {
			return nil, apperr.InvalidInput("Unknown expense category")
		}
		if e.Amount < 0 {
			return nil, apperr.InvalidInput("Expense amount must not be negative")
		}
	}
	for _, sl := range saleIn {
		if sl.SalePrice < 0 {
			return nil, apperr.InvalidInput("Sale price must not be negative")
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("container_id = ?", containerID).Delete(&models.SaleItem{}).Error; err != nil {
			return apperr.Internal("Failed to replace sales", err)
		}
		if err := tx.Where("container_id = ?", containerID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return apperr.Internal("Failed to replace expenses", err)
		}
		saleRows := make([]models.SaleItem, 0, len(saleIn))
		for _, in := range saleIn {
			saleRows = append(saleRows, models.SaleItem{
				ContainerID: containerID,
				Seq:         in.Seq,
				Item:        in.Item,
				SalePrice:   in.SalePrice,
				LotNumber:   in.LotNumber,
				Note:        in.Note,
			})
		}
		if len(saleRows) > 0 {
			if err := tx.Create(&saleRows).Error; err != nil {
				return apperr.Internal("Failed to replace sales", err)
			}
		}
		expenseRows := make([]models.ExpenseItem, 0, len(expendIn))
		for _, in := range expendIn {
			expenseRows = append(expenseRows, models.ExpenseItem{
				ContainerID: containerID,
				Category:    in.Category,
				Amount:      in.Amount,
				Description: in.Description,
			})
		}
		if len(expenseRows) > 0 {
			if err := tx.Create(&expenseRows).Error; err != nil {
				return apperr.Internal("Failed to replace expenses", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ledger(ctx, containerID)
}

// Get returns both ledgers. Managers see any container's ledger; a regular user
// only containers they own.
func (s *Service) Get(ctx context.Context, p *models.Principal, containerID uuid.UUID) (*Ledger, error) {
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
	return s.ledger(ctx, containerID)
}

func (s *Service) ledger(ctx context.Context, containerID uuid.UUID) (*Ledger, error) {
	out := &Ledger{Sales: []models.SaleItem{}, Expenses: []models.ExpenseItem{}}
	if err := s.DB.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("seq ASC").
		Find(&out.Sales).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch sales", err)
	}
	if err := s.DB.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("created_at ASC").
		Find(&out.Expenses).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch expenses", err)
	}
	return out, nil
}

// TotalSales is Σ sale_price for the container (AED).
func (s *Service) TotalSales(ctx context.Context, containerID uuid.UUID) (float64, error) {
	var total float64
	if err := s.DB.WithContext(ctx).Model(&models.SaleItem{}).
		Where("container_id = ?", containerID).
		Select("COALESCE(SUM(sale_price), 0)").
		Scan(&total).Error; err != nil {
		return 0, apperr.Internal("Failed to total sales", err)
	}
	return total, nil
}

// TotalExpenses is Σ amount for the container (AED).
func (s *Service) TotalExpenses(ctx context.Context, containerID uuid.UUID) (float64, error) {
	var total float64
	if err := s.DB.WithContext(ctx).Model(&models.ExpenseItem{}).
		Where("container_id = ?", containerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, apperr.Internal("Failed to total expenses", err)
	}
	return total, nil
}
