package sales

import (
	"karavan-backend/internal/middleware"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// ReplaceLedger PUT /api/v1/sales/container/:container_id — replaces both the
// sale and expense sets as a unit.
func (h *Handlers) ReplaceLedger(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Sales    []SaleInput    `json:"sales"`
		Expenses []ExpenseInput `json:"expenses"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	ledger, err := h.Service.Replace(c.Context(), p, containerID, body.Sales, body.Expenses)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Sales and expenses saved", ledger, nil)
}

// GetLedger GET /api/v1/sales/container/:container_id
func (h *Handlers) GetLedger(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	containerID, err := uuid.Parse(c.Params("container_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for container_id", fiber.StatusBadRequest, nil)
	}
	ledger, err := h.Service.Get(c.Context(), p, containerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Sales and expenses fetched", ledger, nil)
}
