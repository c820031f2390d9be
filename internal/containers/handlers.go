package containers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"karavan-backend/internal/contents"
	"karavan-backend/internal/documents"
	"karavan-backend/internal/middleware"
	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service   *Service
	Documents *documents.Service
}

const dateLayout = "2006-01-02"

// containerBody is the JSON payload for create/update (sent directly or as the
// "payload" field of a multipart create with attached documents).
type containerBody struct {
	VendorID    string               `json:"vendor_id"`
	Code        string               `json:"code"`
	City        string               `json:"city"`
	PurchasedOn string               `json:"purchased_on"`
	Rent        float64              `json:"rent"`
	Contents    []contents.ItemInput `json:"contents"`
}

func parseBody(c *fiber.Ctx) (*containerBody, []*multipart.FileHeader, error) {
	var body containerBody
	if form, err := c.MultipartForm(); err == nil && form != nil {
		payloads := form.Value["payload"]
		if len(payloads) == 0 {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Missing payload field")
		}
		if err := json.Unmarshal([]byte(payloads[0]), &body); err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid payload JSON")
		}
		return &body, form.File["documents"], nil
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return &body, nil, nil
}

func (b *containerBody) toCreateInput() (CreateInput, error) {
	vendorID, err := uuid.Parse(b.VendorID)
	if err != nil {
		return CreateInput{}, fiber.NewError(fiber.StatusBadRequest, "Invalid UUID format for vendor_id")
	}
	purchasedOn, err := time.Parse(dateLayout, b.PurchasedOn)
	if err != nil {
		return CreateInput{}, fiber.NewError(fiber.StatusBadRequest, "Invalid purchased_on date (expected YYYY-MM-DD)")
	}
	return CreateInput{
		VendorID:    vendorID,
		Code:        strings.TrimSpace(b.Code),
		City:        b.City,
		PurchasedOn: purchasedOn,
		Rent:        b.Rent,
		Contents:    b.Contents,
	}, nil
}

// CreateContainer POST /api/v1/containers — JSON, or multipart with a
// "payload" JSON field plus "documents" files. Upload failures are reported in
// metadata and never roll back the container write.
func (h *Handlers) CreateContainer(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	body, files, err := parseBody(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	in, err := body.toCreateInput()
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	container, err := h.Service.Create(c.Context(), p, in)
	if err != nil {
		return response.FromError(c, err)
	}

	meta := fiber.Map{}
	if len(files) > 0 && h.Documents != nil {
		blobs := make(map[string][]byte, len(files))
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			b, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				continue
			}
			blobs[fh.Filename] = b
		}
		docs, failures := h.Documents.AttachBatchToContainer(c.Context(), p, container.ContainerID, blobs, "container")
		container.Documents = docs
		if len(failures) > 0 {
			meta["upload_failures"] = failures
		}
	}

	return response.SuccessCreated(c, "Container created", container, meta)
}

// GetAllContainers GET /api/v1/containers?view=summary|detail
func (h *Handlers) GetAllContainers(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	switch c.Query("view", "summary") {
	case "detail":
		out, err := h.Service.ListDetail(c.Context(), p)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Success(c, "Containers fetched", out, nil)
	case "summary":
		out, err := h.Service.List(c.Context(), p)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Success(c, "Containers fetched", out, nil)
	}
	return response.Error(c, "Unknown view (expected summary or detail)", fiber.StatusBadRequest, nil)
}

// GetContainer GET /api/v1/containers/:container_id?view=summary|detail
func (h *Handlers) GetContainer(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	container, err := h.Service.Get(c.Context(), p, containerID)
	if err != nil {
		return response.FromError(c, err)
	}
	switch c.Query("view", "detail") {
	case "detail":
		return response.Success(c, "Container fetched", container, nil)
	case "summary":
		return response.Success(c, "Container fetched", Summary{
			ContainerID: container.ContainerID,
			Code:        container.Code,
			Status:      container.Status,
			City:        container.City,
			PurchasedOn: container.PurchasedOn,
		}, nil)
	}
	return response.Error(c, "Unknown view (expected summary or detail)", fiber.StatusBadRequest, nil)
}

// UpdateContainer PUT /api/v1/containers/:container_id
func (h *Handlers) UpdateContainer(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	var body containerBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in, err := body.toCreateInput()
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	container, err := h.Service.Update(c.Context(), p, containerID, UpdateInput(in))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Container updated", container, nil)
}

// SetStatus PATCH /api/v1/containers/:container_id/status
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "Missing status", fiber.StatusBadRequest, nil)
	}
	container, err := h.Service.SetStatus(c.Context(), p, containerID, models.ContainerStatus(body.Status))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Status updated", container, nil)
}

// DeleteContainer DELETE /api/v1/containers/:container_id
func (h *Handlers) DeleteContainer(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), p, containerID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Container deleted", nil, nil)
}
