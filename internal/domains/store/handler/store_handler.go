package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pubs-backend/internal/domains/store"
	"pubs-backend/internal/domains/store/service"
	"pubs-backend/internal/shared/response"
)

type StoreHandler struct {
	service service.ServiceInterface
}

func NewStoreHandler(svc service.ServiceInterface) *StoreHandler {
	return &StoreHandler{service: svc}
}

// Create - POST /api/v1/stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req store.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, store.ToStoreResponse(created))
}

// GetByID - GET /api/v1/stores/:id
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, store.ToStoreResponse(found))
}

// List - GET /api/v1/stores
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, store.ToStoreResponses(stores))
}
