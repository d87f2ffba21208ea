package handler

import (
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"books-api/internal/domains/user/model"
	"books-api/internal/domains/user/service"
	"books-api/internal/shared/apperror"
	"books-api/internal/shared/middleware"
	"books-api/internal/shared/request"
	"books-api/internal/shared/response"
)

// UserHandler serves /api/users. It is stateless apart from its service.
type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(svc service.ServiceInterface) *UserHandler {
	return &UserHandler{service: svc}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /api/users/register
// @Summary      Register new user
// @Tags         Authentication
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User registered successfully", res)
}

// Login handles POST /api/users/login
// @Summary      Log in with email and password
// @Tags         Authentication
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", res)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /api/users/profile/:id
// @Security     BearerAuth
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", u)
}

// UpdateProfile handles PUT /api/users/profile/:id
// @Security     BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req model.UpdateUserRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	asAdmin := identity != nil && identity.Role == model.RoleAdmin

	u, err := h.service.Update(c.Request.Context(), id, &req, asAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", u)
}

// Delete handles DELETE /api/users/:id
// @Security     BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User deleted successfully", nil)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// List handles GET /api/users/all
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	p, err := request.Page(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", res)
}

// GetByEmail handles GET /api/users/email/:email
// @Security     BearerAuth
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Param("email")
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		response.Error(c, apperror.Validation("invalid email", apperror.FieldError{
			Field:   "email",
			Message: err.Error(),
		}))
		return
	}

	u, err := h.service.GetByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", u)
}
