package vendors

import (
	"context"
	"testing"

	"karavan-backend/internal/database"
	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVendorsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}, db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	u := &models.User{
		Fullname:     "Test User",
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func principalFor(u *models.User) *models.Principal {
	return &models.Principal{ID: u.UserID, Role: u.Role, IsActive: true}
}

func TestCreate_RequiresCompany(t *testing.T) {
	svc, db := setupVendorsTest(t)
	owner := seedUser(t, db, models.RoleUser)

	_, err := svc.Create(context.Background(), principalFor(owner), Input{Company: ""})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestCreate_SetsOwner(t *testing.T) {
	svc, db := setupVendorsTest(t)
	owner := seedUser(t, db, models.RoleUser)

	vendor, err := svc.Create(context.Background(), principalFor(owner), Input{
		Company:        "Parts Co",
		Address:        "Industrial Area 5",
		Representative: "Ali",
		Contact:        "+971-50-0000000",
		Country:        "UAE",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, vendor.OwnerID)
	assert.Equal(t, "Parts Co", vendor.Company)
	assert.NotEqual(t, uuid.Nil, vendor.VendorID)
}

func TestList_ScopedByRole(t *testing.T) {
	svc, db := setupVendorsTest(t)
	alice := seedUser(t, db, models.RoleUser)
	bob := seedUser(t, db, models.RoleUser)
	manager := seedUser(t, db, models.RoleManager)

	_, err := svc.Create(context.Background(), principalFor(alice), Input{Company: "Alpha"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), principalFor(bob), Input{Company: "Beta"})
	require.NoError(t, err)

	own, err := svc.List(context.Background(), principalFor(alice))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Alpha", own[0].Company)

	all, err := svc.List(context.Background(), principalFor(manager))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Company) // company ASC
	assert.Equal(t, "Beta", all[1].Company)
}

func TestGetUpdate_OwnershipEnforced(t *testing.T) {
	svc, db := setupVendorsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)

	vendor, err := svc.Create(context.Background(), principalFor(owner), Input{Company: "Parts Co"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), principalFor(other), vendor.VendorID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Update(context.Background(), principalFor(other), vendor.VendorID, Input{Company: "Hijack"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	updated, err := svc.Update(context.Background(), principalFor(owner), vendor.VendorID, Input{Company: "Parts Co LLC", Country: "UAE"})
	require.NoError(t, err)
	assert.Equal(t, "Parts Co LLC", updated.Company)
	assert.Equal(t, "UAE", updated.Country)
}

func TestDelete_BlockedWhileReferenced(t *testing.T) {
	svc, db := setupVendorsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	p := principalFor(owner)

	vendor, err := svc.Create(context.Background(), p, Input{Company: "Parts Co"})
	require.NoError(t, err)

	container := &models.Container{
		OwnerID:  owner.UserID,
		VendorID: vendor.VendorID,
		Code:     "KRV-001",
		Status:   models.StatusPending,
	}
	require.NoError(t, db.Create(container).Error)

	err = svc.Delete(context.Background(), p, vendor.VendorID)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Vendor has containers", apperr.Message(err))

	require.NoError(t, db.Unscoped().Delete(container).Error)

	transfer := &models.Transfer{
		ContainerID: uuid.New(),
		VendorID:    vendor.VendorID,
		SenderID:    owner.UserID,
		ReceiverID:  owner.UserID,
		Amount:      100,
		Type:        models.TransferWire,
	}
	require.NoError(t, db.Create(transfer).Error)

	err = svc.Delete(context.Background(), p, vendor.VendorID)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Vendor has transfers", apperr.Message(err))

	require.NoError(t, db.Delete(transfer).Error)
	require.NoError(t, svc.Delete(context.Background(), p, vendor.VendorID))

	_, err = svc.Get(context.Background(), p, vendor.VendorID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
