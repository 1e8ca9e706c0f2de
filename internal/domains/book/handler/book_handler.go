package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pubs-backend/internal/domains/book"
	"pubs-backend/internal/domains/book/service"
	"pubs-backend/internal/shared/response"
)

// Handler - HTTP handler cho catalogue queries
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{service: s}
}

// GetByISBN - GET /api/v1/books/isbn/:isbn
func (h *Handler) GetByISBN(c *gin.Context) {
	found, err := h.service.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book.ToBookResponse(found))
}

// Search - GET /api/v1/books/search?q=
// q rỗng trả về toàn bộ sách còn sống.
func (h *Handler) Search(c *gin.Context) {
	books, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book.ToBookResponses(books))
}

// Create - POST /api/v1/books
func (h *Handler) Create(c *gin.Context) {
	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book.ToBookResponse(created))
}
