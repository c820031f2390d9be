package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense categories (closed set).
const (
	ExpensePort       = "port"
	ExpenseAreaRent   = "area_rent"
	ExpenseLaborTips  = "labor_tips"
	ExpenseOverExpend = "over_expend"
)

// ValidExpenseCategory reports whether c is a known category.
func ValidExpenseCategory(c string) bool {
	switch c {
	case ExpensePort, ExpenseAreaRent, ExpenseLaborTips, ExpenseOverExpend:
		return true
	}
	return false
}

// ExpenseItem is one destination-market cost line, priced in AED.
type ExpenseItem struct {
	ExpenseID   uuid.UUID `gorm:"column:expense_id;type:uuid;primaryKey" json:"expense_id"`
	ContainerID uuid.UUID `gorm:"column:container_id;type:uuid;not null;index" json:"container_id"`
	Category    string    `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Amount      float64   `gorm:"column:amount;type:decimal(18,2);not null;default:0" json:"amount"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ExpenseItem) TableName() string {
	return "ExpenseItems"
}

func (e *ExpenseItem) BeforeCreate(tx *gorm.DB) error {
	if e.ExpenseID == uuid.Nil {
		e.ExpenseID = uuid.New()
	}
	return nil
}
