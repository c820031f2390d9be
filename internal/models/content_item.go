package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentItem is one acquired unit inside a container. Total is always
// price + recovery + cutting, computed server-side.
type ContentItem struct {
	ItemID      uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	ContainerID uuid.UUID `gorm:"column:container_id;type:uuid;not null;index" json:"container_id"`
	Seq         int       `gorm:"column:seq;not null;default:0" json:"seq"`
	Make        string    `gorm:"column:make" json:"make"`
	Model       string    `gorm:"column:model" json:"model"`
	Year        string    `gorm:"column:year" json:"year"`
	LotNumber   string    `gorm:"column:lot_number" json:"lot_number"`
	Price       float64   `gorm:"column:price;type:decimal(18,2);not null;default:0" json:"price"`
	Recovery    float64   `gorm:"column:recovery;type:decimal(18,2);not null;default:0" json:"recovery"`
	Cutting     float64   `gorm:"column:cutting;type:decimal(18,2);not null;default:0" json:"cutting"`
	Total       float64   `gorm:"column:total;type:decimal(18,2);not null;default:0" json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ContentItem) TableName() string {
	return "ContentItems"
}

func (i *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}

// ComputeTotal overwrites Total from the three cost components.
func (i *ContentItem) ComputeTotal() {
	i.Total = i.Price + i.Recovery + i.Cutting
}
