package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/middleware"
	"wishlist-backend/internal/features/user/mapper"
	"wishlist-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes mounts /users. Login takes init data, the rest a bearer token.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, resolver middleware.IdentityResolver) {
	users := router.Group("/users")
	users.POST("/auth", middleware.RequireInitData(resolver), h.Login)

	authed := users.Group("", middleware.RequireBearer(resolver))
	{
		authed.GET("/me", h.GetMe)
		authed.GET("/:id", h.GetUser)
	}
}

// @Summary Log in with Telegram init data
// @Description Verifies X-Telegram-Init-Data, creates or refreshes the user record and issues an access token.
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.TokenResponse "Access token"
// @Failure 401 {object} middleware.ErrorResponse "Invalid init data"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/auth [post]
func (h *UserHandler) Login(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTokenResponse(result))
}

// @Summary Get current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse "User data"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondUser(c, userID)
}

// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Telegram user ID"
// @Success 200 {object} models.UserResponse "User data"
// @Failure 400 {object} middleware.ErrorResponse "Invalid user ID"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(errors.NewValidationError("id", "must be an integer"))
		return
	}
	h.respondUser(c, id)
}

func (h *UserHandler) respondUser(c *gin.Context, id int64) {
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserResponse(user))
}
