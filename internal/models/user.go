package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognized by the access rules. Managers see every container and ledger;
// regular users only what they own or sent.
const (
	RoleManager = "manager"
	RoleUser    = "user"
)

// User is an account that owns containers and vendors and sends transfers.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         string         `gorm:"column:role;not null;default:user" json:"role"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
