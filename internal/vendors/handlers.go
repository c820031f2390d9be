package vendors

import (
	"karavan-backend/internal/middleware"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreateVendor POST /api/v1/vendors
func (h *Handlers) CreateVendor(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	var body Input
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	vendor, err := h.Service.Create(c.Context(), p, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Vendor created", vendor, nil)
}

// GetAllVendors GET /api/v1/vendors
func (h *Handlers) GetAllVendors(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	out, err := h.Service.List(c.Context(), p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Vendors fetched", out, nil)
}

// GetVendor GET /api/v1/vendors/:vendor_id
func (h *Handlers) GetVendor(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	vendorID, err := uuid.Parse(c.Params("vendor_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for vendor_id", fiber.StatusBadRequest, nil)
	}
	vendor, err := h.Service.Get(c.Context(), p, vendorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Vendor fetched", vendor, nil)
}

// UpdateVendor PUT /api/v1/vendors/:vendor_id
func (h *Handlers) UpdateVendor(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	vendorID, err := uuid.Parse(c.Params("vendor_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for vendor_id", fiber.StatusBadRequest, nil)
	}
	var body Input
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	vendor, err := h.Service.Update(c.Context(), p, vendorID, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Vendor updated", vendor, nil)
}

// DeleteVendor DELETE /api/v1/vendors/:vendor_id
func (h *Handlers) DeleteVendor(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	vendorID, err := uuid.Parse(c.Params("vendor_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for vendor_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), p, vendorID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Vendor deleted", nil, nil)
}
