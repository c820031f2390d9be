package documents

import (
	"io"

	"karavan-backend/internal/middleware"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

func readUpload(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}
	return b, fh.Filename, nil
}

// UploadContainerDoc POST /api/v1/documents/container/:container_id (multipart: file, type)
func (h *Handlers) UploadContainerDoc(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	data, name, err := readUpload(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	doc, err := h.Service.AttachToContainer(c.Context(), p, containerID, data, name, c.FormValue("type"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Document uploaded", doc, nil)
}

// UploadTransferDoc POST /api/v1/documents/transfer/:transfer_id (multipart: file, type)
func (h *Handlers) UploadTransferDoc(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	transferID, err := uuid.Parse(c.Params("transfer_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for transfer_id", fiber.StatusBadRequest, nil)
	}
	data, name, err := readUpload(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	doc, err := h.Service.AttachToTransfer(c.Context(), p, transferID, data, name, c.FormValue("type"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Document uploaded", doc, nil)
}

// DeleteDocument DELETE /api/v1/documents/:document_id
func (h *Handlers) DeleteDocument(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	documentID, err := uuid.Parse(c.Params("document_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for document_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), p, documentID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Document deleted", nil, nil)
}
