package documents

import (
	"context"

	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service persists document references against containers and transfers. The
// file bytes live behind the Storage collaborator.
type Service struct {
	DB      *gorm.DB
	Storage Storage
}

// AttachToContainer stores the bytes and records the path against the
// container. Owner-or-manager only.
func (s *Service) AttachToContainer(ctx context.Context, p *models.Principal, containerID uuid.UUID, data []byte, name, docType string) (*models.Document, error) {
	var container models.Container
	if err := s.DB.WithContext(ctx).Where("container_id = ?", containerID).First(&container).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Container not found")
		}
		return nil, apperr.Internal("Failed to load container", err)
	}
	if !p.CanAccess(container.OwnerID) {
		return nil, apperr.Forbidden("Not the container owner")
	}
	path, err := s.Storage.Store(ctx, data, name)
	if err != nil {
		return nil, apperr.Internal("Failed to store document", err)
	}
	doc := &models.Document{ContainerID: &containerID, Path: path, Type: docType}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, apperr.Internal("Failed to record document", err)
	}
	return doc, nil
}

// AttachToTransfer stores the bytes and records the path against the transfer.
// Manager or original sender only.
func (s *Service) AttachToTransfer(ctx context.Context, p *models.Principal, transferID uuid.UUID, data []byte, name, docType string) (*models.Document, error) {
	var transfer models.Transfer
	if err := s.DB.WithContext(ctx).Where("transfer_id = ?", transferID).First(&transfer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Transfer not found")
		}
		return nil, apperr.Internal("Failed to load transfer", err)
	}
	if !p.IsManager() && p.ID != transfer.SenderID {
		return nil, apperr.Forbidden("Not the transfer sender")
	}
	path, err := s.Storage.Store(ctx, data, name)
	if err != nil {
		return nil, apperr.Internal("Failed to store document", err)
	}
	doc := &models.Document{TransferID: &transferID, Path: path, Type: docType}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, apperr.Internal("Failed to record document", err)
	}
	return doc, nil
}

// UploadFailure reports one failed file from a batch upload.
type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// AttachBatchToContainer uploads a set of files against a container. Failures
// are logged and reported back, never propagated: a half-failed upload batch
// must not invalidate the container that was already written.
func (s *Service) AttachBatchToContainer(ctx context.Context, p *models.Principal, containerID uuid.UUID, files map[string][]byte, docType string) ([]models.Document, []UploadFailure) {
	var docs []models.Document
	var failures []UploadFailure
	for name, data := range files {
		doc, err := s.AttachToContainer(ctx, p, containerID, data, name, docType)
		if err != nil {
			log.Warn().Str("container_id", containerID.String()).Str("file", name).Err(err).
				Msg("document upload failed")
			failures = append(failures, UploadFailure{Name: name, Error: apperr.Message(err)})
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, failures
}

// Delete removes the document row and best-effort deletes the stored object.
func (s *Service) Delete(ctx context.Context, p *models.Principal, documentID uuid.UUID) error {
	var doc models.Document
	if err := s.DB.WithContext(ctx).Where("document_id = ?", documentID).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("Document not found")
		}
		return apperr.Internal("Failed to load document", err)
	}
	if err := s.authorizeParent(ctx, p, &doc); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Where("document_id = ?", documentID).Delete(&models.Document{}).Error; err != nil {
		return apperr.Internal("Failed to delete document", err)
	}
	if err := s.Storage.Delete(ctx, doc.Path); err != nil {
		log.Warn().Str("path", doc.Path).Err(err).Msg("stored object delete failed")
	}
	return nil
}

func (s *Service) authorizeParent(ctx context.Context, p *models.Principal, doc *models.Document) error {
	switch {
	case doc.ContainerID != nil:
		var container models.Container
		if err := s.DB.WithContext(ctx).Where("container_id = ?", *doc.ContainerID).First(&container).Error; err != nil {
			return apperr.Internal("Failed to load container", err)
		}
		if !p.CanAccess(container.OwnerID) {
			return apperr.Forbidden("Not the container owner")
		}
	case doc.TransferID != nil:
		var transfer models.Transfer
		if err := s.DB.WithContext(ctx).Where("transfer_id = ?", *doc.TransferID).First(&transfer).Error; err != nil {
			return apperr.Internal("Failed to load transfer", err)
		}
		if !p.IsManager() && p.ID != transfer.SenderID {
			return apperr.Forbidden("Not the transfer sender")
		}
	default:
		return apperr.Internal("Document has no parent", nil)
	}
	return nil
}
