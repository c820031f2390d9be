package contents

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

func setupContentsTest(t *testing.T) (*Service, *gorm.DB) {
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

func seedContainer(t *testing.T, db *gorm.DB, ownerID uuid.UUID, rent float64) *models.Container {
	v := &models.Vendor{OwnerID: ownerID, Company: "Parts Co"}
	require.NoError(t, db.Create(v).Error)
	c := &models.Container{
		OwnerID:  ownerID,
		VendorID: v.VendorID,
		Code:     uuid.New().String()[:8],
		Status:   models.StatusPending,
		Rent:     rent,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func principalFor(u *models.User) *models.Principal {
	return &models.Principal{ID: u.UserID, Role: u.Role, IsActive: true}
}

func TestReplace_ComputesTotalsAndGrandTotal(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 50)

	items, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, []ItemInput{
		{Seq: 1, Make: "Toyota", Model: "Camry", Price: 100, Recovery: 10, Cutting: 5},
		{Seq: 2, Make: "Honda", Model: "Civic", Price: 200},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 115.0, items[0].Total)
	assert.Equal(t, 200.0, items[1].Total)

	var reloaded models.Container
	require.NoError(t, db.First(&reloaded, "container_id = ?", container.ContainerID).Error)
	assert.Equal(t, 365.0, reloaded.GrandTotal) // 115 + 200 + rent 50
}

func TestReplace_IsIdempotent(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 0)

	in := []ItemInput{{Seq: 1, Make: "Toyota", Price: 300}}
	_, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, in)
	require.NoError(t, err)
	_, err = svc.Replace(context.Background(), principalFor(owner), container.ContainerID, in)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.ContentItem{}).Where("container_id = ?", container.ContainerID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	var reloaded models.Container
	require.NoError(t, db.First(&reloaded, "container_id = ?", container.ContainerID).Error)
	assert.Equal(t, 300.0, reloaded.GrandTotal)
}

func TestReplace_EmptySetClearsLedger(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 75)

	_, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, []ItemInput{
		{Seq: 1, Price: 500},
	})
	require.NoError(t, err)
	items, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	var reloaded models.Container
	require.NoError(t, db.First(&reloaded, "container_id = ?", container.ContainerID).Error)
	assert.Equal(t, 75.0, reloaded.GrandTotal) // rent only
}

func TestReplace_NegativeComponentRejected(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 0)

	_, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, []ItemInput{
		{Seq: 1, Price: -10},
	})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestReplace_ForeignContainerForbidden(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 0)

	_, err := svc.Replace(context.Background(), principalFor(other), container.ContainerID, nil)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Managers act on any container.
	manager := seedUser(t, db, models.RoleManager)
	_, err = svc.Replace(context.Background(), principalFor(manager), container.ContainerID, nil)
	assert.NoError(t, err)
}

func TestReplace_UnknownContainer(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)

	_, err := svc.Replace(context.Background(), principalFor(owner), uuid.New(), nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteItem_RecomputesGrandTotal(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 50)

	items, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, []ItemInput{
		{Seq: 1, Price: 100, Recovery: 10, Cutting: 5},
		{Seq: 2, Price: 200},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), principalFor(owner), items[1].ItemID))

	remaining, err := svc.ListForContainer(context.Background(), principalFor(owner), container.ContainerID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 1, remaining[0].Seq)

	var reloaded models.Container
	require.NoError(t, db.First(&reloaded, "container_id = ?", container.ContainerID).Error)
	assert.Equal(t, 165.0, reloaded.GrandTotal) // 115 + rent 50
}

func TestDeleteItem_ForeignForbidden(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 0)

	items, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, []ItemInput{
		{Seq: 1, Price: 100},
	})
	require.NoError(t, err)

	err = svc.DeleteItem(context.Background(), principalFor(other), items[0].ItemID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestListForContainer_OrderedBySeq(t *testing.T) {
	svc, db := setupContentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID, 0)

	_, err := svc.Replace(context.Background(), principalFor(owner), container.ContainerID, []ItemInput{
		{Seq: 3, Make: "C", Price: 1},
		{Seq: 1, Make: "A", Price: 1},
		{Seq: 2, Make: "B", Price: 1},
	})
	require.NoError(t, err)

	items, err := svc.ListForContainer(context.Background(), principalFor(owner), container.ContainerID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{items[0].Make, items[1].Make, items[2].Make})
}
