package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pubs-backend/internal/domains/publisher"
	"pubs-backend/internal/domains/publisher/service"
	"pubs-backend/internal/shared/response"
)

// PublisherHandler handles HTTP requests for publisher domain
type PublisherHandler struct {
	service service.ServiceInterface
}

func NewPublisherHandler(svc service.ServiceInterface) *PublisherHandler {
	return &PublisherHandler{
		service: svc,
	}
}

// CreatePublisher handles POST /publishers
func (h *PublisherHandler) CreatePublisher(c *gin.Context) {
	var req publisher.CreatePublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, publisher.ToPublisherResponse(created))
}

// GetPublisher handles GET /publishers/:id
func (h *PublisherHandler) GetPublisher(c *gin.Context) {
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

	response.Success(c, http.StatusOK, publisher.ToPublisherResponse(found))
}

// ListPublishers handles GET /publishers
func (h *PublisherHandler) ListPublishers(c *gin.Context) {
	publishers, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, publisher.ToPublisherResponses(publishers))
}
