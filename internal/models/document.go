package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a stored-file reference attached to a container or a transfer
// (exactly one of the two). Path is the opaque value returned by the storage
// collaborator; the ledger knows nothing about storage mechanics.
type Document struct {
	DocumentID  uuid.UUID  `gorm:"column:document_id;type:uuid;primaryKey" json:"document_id"`
	ContainerID *uuid.UUID `gorm:"column:container_id;type:uuid;index" json:"container_id"`
	TransferID  *uuid.UUID `gorm:"column:transfer_id;type:uuid;index" json:"transfer_id"`
	Path        string     `gorm:"column:path;not null" json:"path"`
	Type        string     `gorm:"column:type" json:"type"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (Document) TableName() string {
	return "Documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.DocumentID == uuid.Nil {
		d.DocumentID = uuid.New()
	}
	return nil
}
