package transfers

import (
	"time"

	"karavan-backend/internal/middleware"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

const dateLayout = "2006-01-02"

// CreateTransfer POST /api/v1/transfers
func (h *Handlers) CreateTransfer(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	var body struct {
		VendorID    string  `json:"vendor_id"`
		ContainerID string  `json:"container_id"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Date        string  `json:"date"`
		SenderName  string  `json:"sender_name"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	vendorID, err := uuid.Parse(body.VendorID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for vendor_id", fiber.StatusBadRequest, nil)
	}
	containerID, err := uuid.Parse(body.ContainerID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		return response.Error(c, "Invalid date (expected YYYY-MM-DD)", fiber.StatusBadRequest, nil)
	}
	transfer, err := h.Service.Create(c.Context(), p, CreateInput{
		VendorID:      vendorID,
		ContainerID:   containerID,
		Amount:        body.Amount,
		Type:          body.Type,
		TransferredOn: date,
		SenderName:    body.SenderName,
		Description:   body.Description,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Transfer recorded", transfer, nil)
}

// GetContainerTransfers GET /api/v1/transfers/container/:container_id
func (h *Handlers) GetContainerTransfers(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Service.ListForContainer(c.Context(), p, containerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Transfers fetched", out, nil)
}

// DeleteTransfer DELETE /api/v1/transfers/:transfer_id
func (h *Handlers) DeleteTransfer(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	transferID, err := uuid.Parse(c.Params("transfer_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for transfer_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), p, transferID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Transfer deleted", nil, nil)
}
