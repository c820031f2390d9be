package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContainerStatus is the lifecycle state of a shipment.
type ContainerStatus string

const (
	StatusPending   ContainerStatus = "pending"
	StatusShipped   ContainerStatus = "shipped"
	StatusCompleted ContainerStatus = "completed"
)

// Valid reports whether s is one of the three lifecycle states.
func (s ContainerStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

// allowed forward transitions; a container never moves backward.
var statusNext = map[ContainerStatus]ContainerStatus{
	StatusPending: StatusShipped,
	StatusShipped: StatusCompleted,
}

// CanTransitionTo reports whether next is reachable from s. Setting the same
// status again is a no-op and allowed.
func (s ContainerStatus) CanTransitionTo(next ContainerStatus) bool {
	if !next.Valid() {
		return false
	}
	if next == s {
		return true
	}
	return statusNext[s] == next
}

// Container is one shipment: purchased parts grouped for export, costed in USD.
// GrandTotal is always rent plus the sum of content-item totals; it is recomputed
// on every content or rent mutation, never taken from the client.
type Container struct {
	ContainerID uuid.UUID       `gorm:"column:container_id;type:uuid;primaryKey" json:"container_id"`
	OwnerID     uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index:idx_owner_code,unique" json:"owner_id"`
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	Code        string          `gorm:"column:code;not null;index:idx_owner_code,unique,where:deleted_at IS NULL" json:"code"`
	Status      ContainerStatus `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	City        string          `gorm:"column:city" json:"city"`
	PurchasedOn datatypes.Date  `gorm:"column:purchased_on" json:"purchased_on"`
	Rent        float64         `gorm:"column:rent;type:decimal(18,2);not null;default:0" json:"rent"`
	GrandTotal  float64         `gorm:"column:grand_total;type:decimal(18,2);not null;default:0" json:"grand_total"`

	Contents  []ContentItem  `gorm:"foreignKey:ContainerID;constraint:OnDelete:CASCADE" json:"contents,omitempty"`
	Vendor    *Vendor        `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Owner     *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Documents []Document     `gorm:"foreignKey:ContainerID" json:"documents,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Container) TableName() string {
	return "Containers"
}

func (c *Container) BeforeCreate(tx *gorm.DB) error {
	if c.ContainerID == uuid.Nil {
		c.ContainerID = uuid.New()
	}
	return nil
}
