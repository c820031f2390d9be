package reports

import (
	"karavan-backend/internal/middleware"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GetContainerProfit GET /api/v1/reports/containers/:container_id/profit
func (h *Handlers) GetContainerProfit(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Service.Profit(c.Context(), p, containerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profit computed", out, nil)
}

// GetContainerBalance GET /api/v1/reports/containers/:container_id/balance
func (h *Handlers) GetContainerBalance(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Service.Balance(c.Context(), p, containerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Balance computed", out, nil)
}

// GetUserSummaries GET /api/v1/reports/users
func (h *Handlers) GetUserSummaries(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	out, err := h.Service.UserSummaries(c.Context(), p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User summaries computed", out, nil)
}

// GetVendorSummaries GET /api/v1/reports/vendors
func (h *Handlers) GetVendorSummaries(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	out, err := h.Service.VendorSummaries(c.Context(), p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Vendor summaries computed", out, nil)
}

// GetTimeline GET /api/v1/reports/timeline?range=week|month|quarter|year
func (h *Handlers) GetTimeline(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	out, err := h.Service.Timeline(c.Context(), p, c.Query("range", "month"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Timeline computed", out, nil)
}

// GetDashboard GET /api/v1/reports/dashboard
func (h *Handlers) GetDashboard(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	out, err := h.Service.Summary(c.Context(), p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Dashboard computed", out, nil)
}
