package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transfer types (closed set).
const (
	TransferWire = "wire"
	TransferCash = "cash"
	TransferHand = "hand"
)

// ValidTransferType reports whether t is a known payment type.
func ValidTransferType(t string) bool {
	switch t {
	case TransferWire, TransferCash, TransferHand:
		return true
	}
	return false
}

// Transfer is a payment from a user toward a vendor, earmarked to a container.
// SenderName records who physically delivered the funds; SenderID is the
// authenticated principal that entered the row. Amounts are USD, same currency
// as the container grand total.
type Transfer struct {
	TransferID    uuid.UUID      `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	ContainerID   uuid.UUID      `gorm:"column:container_id;type:uuid;not null;index" json:"container_id"`
	VendorID      uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	SenderID      uuid.UUID      `gorm:"column:sender_id;type:uuid;not null;index" json:"sender_id"`
	ReceiverID    uuid.UUID      `gorm:"column:receiver_id;type:uuid;not null" json:"receiver_id"`
	Amount        float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Type          string         `gorm:"column:type;type:varchar(20);not null" json:"type"`
	TransferredOn datatypes.Date `gorm:"column:transferred_on" json:"transferred_on"`
	SenderName    string         `gorm:"column:sender_name" json:"sender_name"`
	Description   string         `gorm:"column:description" json:"description"`

	Documents []Document `gorm:"foreignKey:TransferID" json:"documents,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Transfer) TableName() string {
	return "Transfers"
}

func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	if t.TransferID == uuid.Nil {
		t.TransferID = uuid.New()
	}
	return nil
}
