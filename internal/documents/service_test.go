package documents

import (
	"context"
	"errors"
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

// fakeStorage records stored objects in memory.
type fakeStorage struct {
	stored  map[string][]byte
	deleted []string
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{stored: map[string][]byte{}}
}

func (f *fakeStorage) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := "documents/" + suggestedName
	f.stored[path] = data
	return path, nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, path)
	delete(f.stored, path)
	return nil
}

func setupDocumentsTest(t *testing.T) (*Service, *fakeStorage, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	storage := newFakeStorage()
	return &Service{DB: db, Storage: storage}, storage, db
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

func seedContainer(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Container {
	v := &models.Vendor{OwnerID: ownerID, Company: "Parts Co"}
	require.NoError(t, db.Create(v).Error)
	c := &models.Container{
		OwnerID:  ownerID,
		VendorID: v.VendorID,
		Code:     uuid.New().String()[:8],
		Status:   models.StatusPending,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedTransfer(t *testing.T, db *gorm.DB, containerID, vendorID, senderID uuid.UUID) *models.Transfer {
	tr := &models.Transfer{
		ContainerID: containerID,
		VendorID:    vendorID,
		SenderID:    senderID,
		ReceiverID:  senderID,
		Amount:      100,
		Type:        models.TransferWire,
	}
	require.NoError(t, db.Create(tr).Error)
	return tr
}

func principalFor(u *models.User) *models.Principal {
	return &models.Principal{ID: u.UserID, Role: u.Role, IsActive: true}
}

func TestAttachToContainer(t *testing.T) {
	svc, storage, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)

	doc, err := svc.AttachToContainer(context.Background(), principalFor(owner), container.ContainerID, []byte("pdf-bytes"), "invoice.pdf", "invoice")
	require.NoError(t, err)
	require.NotNil(t, doc.ContainerID)
	assert.Equal(t, container.ContainerID, *doc.ContainerID)
	assert.Nil(t, doc.TransferID)
	assert.Equal(t, "documents/invoice.pdf", doc.Path)
	assert.Equal(t, []byte("pdf-bytes"), storage.stored[doc.Path])

	var n int64
	require.NoError(t, db.Model(&models.Document{}).Where("container_id = ?", container.ContainerID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAttachToContainer_ForeignForbidden(t *testing.T) {
	svc, storage, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)

	_, err := svc.AttachToContainer(context.Background(), principalFor(other), container.ContainerID, []byte("x"), "a.pdf", "invoice")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Empty(t, storage.stored)
}

func TestAttachToContainer_StorageFailure(t *testing.T) {
	svc, storage, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)
	storage.err = errors.New("bucket unreachable")

	_, err := svc.AttachToContainer(context.Background(), principalFor(owner), container.ContainerID, []byte("x"), "a.pdf", "invoice")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	var n int64
	require.NoError(t, db.Model(&models.Document{}).Count(&n).Error)
	assert.Equal(t, int64(0), n, "no row recorded when the object store fails")
}

func TestAttachToTransfer_SenderOrManagerOnly(t *testing.T) {
	svc, _, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)
	manager := seedUser(t, db, models.RoleManager)
	container := seedContainer(t, db, owner.UserID)
	transfer := seedTransfer(t, db, container.ContainerID, container.VendorID, owner.UserID)

	_, err := svc.AttachToTransfer(context.Background(), principalFor(other), transfer.TransferID, []byte("x"), "receipt.pdf", "receipt")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	doc, err := svc.AttachToTransfer(context.Background(), principalFor(owner), transfer.TransferID, []byte("x"), "receipt.pdf", "receipt")
	require.NoError(t, err)
	require.NotNil(t, doc.TransferID)
	assert.Equal(t, transfer.TransferID, *doc.TransferID)

	_, err = svc.AttachToTransfer(context.Background(), principalFor(manager), transfer.TransferID, []byte("x"), "receipt2.pdf", "receipt")
	assert.NoError(t, err)
}

func TestAttachBatch_FailuresReportedNotPropagated(t *testing.T) {
	svc, storage, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)

	docs, failures := svc.AttachBatchToContainer(context.Background(), principalFor(owner), container.ContainerID, map[string][]byte{
		"a.pdf": []byte("a"),
		"b.pdf": []byte("b"),
	}, "container")
	assert.Len(t, docs, 2)
	assert.Empty(t, failures)

	storage.err = errors.New("bucket unreachable")
	docs, failures = svc.AttachBatchToContainer(context.Background(), principalFor(owner), container.ContainerID, map[string][]byte{
		"c.pdf": []byte("c"),
	}, "container")
	assert.Empty(t, docs)
	require.Len(t, failures, 1)
	assert.Equal(t, "c.pdf", failures[0].Name)
	assert.NotEmpty(t, failures[0].Error)
}

func TestDelete_RemovesRowAndObject(t *testing.T) {
	svc, storage, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)

	doc, err := svc.AttachToContainer(context.Background(), principalFor(owner), container.ContainerID, []byte("x"), "a.pdf", "invoice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), principalFor(owner), doc.DocumentID))
	assert.Contains(t, storage.deleted, doc.Path)

	var n int64
	require.NoError(t, db.Model(&models.Document{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestDelete_ObjectStoreFailureIsBestEffort(t *testing.T) {
	svc, storage, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)

	doc, err := svc.AttachToContainer(context.Background(), principalFor(owner), container.ContainerID, []byte("x"), "a.pdf", "invoice")
	require.NoError(t, err)

	storage.err = errors.New("bucket unreachable")
	require.NoError(t, svc.Delete(context.Background(), principalFor(owner), doc.DocumentID))

	var n int64
	require.NoError(t, db.Model(&models.Document{}).Count(&n).Error)
	assert.Equal(t, int64(0), n, "row goes away even when the object delete fails")
}

func TestDelete_ForeignParentForbidden(t *testing.T) {
	svc, _, db := setupDocumentsTest(t)
	owner := seedUser(t, db, models.RoleUser)
	other := seedUser(t, db, models.RoleUser)
	container := seedContainer(t, db, owner.UserID)

	doc, err := svc.AttachToContainer(context.Background(), principalFor(owner), container.ContainerID, []byte("x"), "a.pdf", "invoice")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), principalFor(other), doc.DocumentID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
