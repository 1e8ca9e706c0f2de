package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pubs-backend/internal/domains/sale"
	"pubs-backend/internal/domains/sale/service"
	"pubs-backend/internal/shared/response"
)

type SaleHandler struct {
	service service.ServiceInterface
}

func NewSaleHandler(s service.ServiceInterface) *SaleHandler {
	return &SaleHandler{service: s}
}

// PlaceSale - POST /api/v1/sales
func (h *SaleHandler) PlaceSale(c *gin.Context) {
	var req sale.PlaceSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	placed, err := h.service.PlaceSale(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sale.ToSaleResponse(placed))
}

// GetByID - GET /api/v1/sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale.ToSaleResponse(found))
}

// UpdateStatus - PATCH /api/v1/sales/:id/status
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req sale.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale.ToSaleResponse(updated))
}

// ListByStore - GET /api/v1/stores/:id/sales
func (h *SaleHandler) ListByStore(c *gin.Context) {
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	sales, err := h.service.GetByStore(c.Request.Context(), storeID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sale.ToSaleResponses(sales))
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return uuid.Nil, false
	}
	return id, true
}
