package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is a parts counterparty containers are bought from and transfers paid to.
type Vendor struct {
	VendorID       uuid.UUID      `gorm:"column:vendor_id;type:uuid;primaryKey" json:"vendor_id"`
	OwnerID        uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Company        string         `gorm:"column:company;not null" json:"company"`
	Address        string         `gorm:"column:address" json:"address"`
	Representative string         `gorm:"column:representative" json:"representative"`
	Contact        string         `gorm:"column:contact" json:"contact"`
	Country        string         `gorm:"column:country" json:"country"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vendor) TableName() string {
	return "Vendors"
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.VendorID == uuid.Nil {
		v.VendorID = uuid.New()
	}
	return nil
}
