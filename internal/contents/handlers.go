package contents

import (
	"karavan-backend/internal/middleware"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// ReplaceContents PUT /api/v1/containers/:container_id/contents
func (h *Handlers) ReplaceContents(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Contents []ItemInput `json:"contents"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	items, err := h.Service.Replace(c.Context(), p, containerID, body.Contents)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Contents replaced", items, nil)
}

// ListContents GET /api/v1/containers/:container_id/contents
func (h *Handlers) ListContents(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	items, err := h.Service.ListForContainer(c.Context(), p, containerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Contents fetched", items, nil)
}

// DeleteItem DELETE /api/v1/contents/:item_id
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for item_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.DeleteItem(c.Context(), p, itemID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Content item deleted", nil, nil)
}
