package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"books-api/internal/domains/book/model"
	"books-api/internal/domains/book/service"
	"books-api/internal/shared/apperror"
	"books-api/internal/shared/request"
	"books-api/internal/shared/response"
)

// Handler - HTTP handler for books
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{service: svc}
}

// List - GET /api/books
// Query params: title, authorId, page, limit
func (h *Handler) List(c *gin.Context) {
	p, err := request.Page(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := model.Filter{Title: c.Query("title")}
	if raw := c.Query("authorId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			response.Error(c, apperror.Validation("invalid authorId", apperror.FieldError{
				Field:   "authorId",
				Message: "author id must be a positive integer",
			}))
			return
		}
		filter.AuthorID = id
	}

	res, err := h.service.List(c.Request.Context(), filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", res)
}

// GetByID - GET /api/books/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", book)
}

// ListByAuthor - GET /api/books/author/:authorId
func (h *Handler) ListByAuthor(c *gin.Context) {
	authorID, err := request.ParamID(c, "authorId")
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := request.Page(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.ListByAuthor(c.Request.Context(), authorID, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", res)
}

// AuthorBooks - GET /api/authors/:id/books
func (h *Handler) AuthorBooks(c *gin.Context) {
	authorID, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := request.Page(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.AuthorWithBooks(c.Request.Context(), authorID, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", res)
}

// Create - POST /api/books
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book created successfully", book)
}

// Update - PATCH /api/books/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req model.UpdateBookRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book updated successfully", book)
}

// Delete - DELETE /api/books/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book deleted successfully", nil)
}
