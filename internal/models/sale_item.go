package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleItem is one destination-market revenue line, priced in AED. Rows are
// replaced wholesale when a container's sales are saved.
type SaleItem struct {
	SaleID      uuid.UUID `gorm:"column:sale_id;type:uuid;primaryKey" json:"sale_id"`
	ContainerID uuid.UUID `gorm:"column:container_id;type:uuid;not null;index" json:"container_id"`
	Seq         int       `gorm:"column:seq;not null;default:0" json:"seq"`
	Item        string    `gorm:"column:item" json:"item"`
	SalePrice   float64   `gorm:"column:sale_price;type:decimal(18,2);not null;default:0" json:"sale_price"`
	LotNumber   string    `gorm:"column:lot_number" json:"lot_number"`
	Note        string    `gorm:"column:note" json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (SaleItem) TableName() string {
	return "SaleItems"
}

func (s *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if s.SaleID == uuid.Nil {
		s.SaleID = uuid.New()
	}
	return nil
}
