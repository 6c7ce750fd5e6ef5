package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/app"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	service *app.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *app.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name  string `json:"name"  validate:"required,notblank,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UserResponse is the HTTP representation of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// GetUser handles GET /api/v1/users/:id.
//
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers handles GET /api/v1/users?cursor=&limit=.
//
// @Summary List users
// @Tags users
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.Page[UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.PageRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.Fail(c, err)
		return
	}

	after, err := req.After()
	if err != nil {
		dto.Fail(c, err)
		return
	}

	page, err := h.service.ListUsers(c.Request.Context(), after, req.PageLimit())
	if err != nil {
		dto.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(page, toUserResponse))
}

// CreateUser handles POST /api/v1/users.
//
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.Fail(c, err)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), app.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// RegisterUserRoutes registers user routes on rg. Listing is guarded by
// listGuards, e.g. a role check.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, listGuards ...gin.HandlerFunc) {
	users := rg.Group("/users")
	users.GET("", append(listGuards, h.ListUsers)...)
	users.POST("", h.CreateUser)
	users.GET("/:id", h.GetUser)
}
