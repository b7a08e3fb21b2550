package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/middleware"
	"wishlist-backend/internal/features/gift/mapper"
	"wishlist-backend/internal/features/gift/models"
	"wishlist-backend/internal/features/gift/models/dto"
	"wishlist-backend/internal/features/gift/service"
)

type GiftHandler struct {
	service service.GiftService
}

func NewGiftHandler(service service.GiftService) *GiftHandler {
	return &GiftHandler{service: service}
}

func (h *GiftHandler) RegisterRoutes(router *gin.RouterGroup, resolver middleware.IdentityResolver) {
	gifts := router.Group("/gifts", middleware.RequireBearer(resolver))
	{
		gifts.POST("", h.Add)
		gifts.GET("/user/:id", h.ListByOwner)
		gifts.GET("/:id", h.Get)
		gifts.DELETE("/:id", h.Delete)
		gifts.POST("/:id/reserve", h.Reserve)
		gifts.DELETE("/:id/reserve/friend", h.ReleaseByFriend)
		gifts.DELETE("/:id/reserve/owner", h.ReleaseByOwner)
	}
}

// @Summary Add a gift to the caller's wishlist
// @Tags gifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gift body dto.CreateGiftRequest true "Gift"
// @Success 201 {object} models.CreatedResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /gifts [post]
func (h *GiftHandler) Add(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.Wrap(err, errors.ErrCodeValidation, "Invalid gift payload"))
		return
	}

	id, err := h.service.Add(c.Request.Context(), mapper.FromCreateRequest(userID, &req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
}

// @Summary Get a gift
// @Description reserved_by is only filled in for the user holding the reservation.
// @Tags gifts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gift ID"
// @Success 200 {object} models.GiftResponse
// @Failure 404 {object} middleware.ErrorResponse "Gift not found"
// @Router /gifts/{id} [get]
func (h *GiftHandler) Get(c *gin.Context) {
	userID, giftID, ok := ids(c)
	if !ok {
		return
	}
	gift, err := h.service.Get(c.Request.Context(), giftID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToGiftResponse(gift))
}

// @Summary Get a user's wishlist
// @Tags gifts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Owner Telegram ID"
// @Success 200 {array} models.GiftResponse
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /gifts/user/{id} [get]
func (h *GiftHandler) ListByOwner(c *gin.Context) {
	userID, ownerID, ok := ids(c)
	if !ok {
		return
	}
	gifts, err := h.service.ListByOwner(c.Request.Context(), ownerID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToGiftResponses(gifts))
}

// @Summary Delete a gift
// @Tags gifts
// @Security BearerAuth
// @Param id path int true "Gift ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Gift not found"
// @Router /gifts/{id} [delete]
func (h *GiftHandler) Delete(c *gin.Context) {
	h.run(c, http.StatusNoContent, h.service.Delete)
}

// @Summary Reserve a friend's gift
// @Tags gifts
// @Security BearerAuth
// @Param id path int true "Gift ID"
// @Success 201 "Reserved"
// @Failure 403 {object} middleware.ErrorResponse "Owner or not a friend"
// @Failure 404 {object} middleware.ErrorResponse "Gift not found"
// @Failure 409 {object} middleware.ErrorResponse "Already reserved"
// @Router /gifts/{id}/reserve [post]
func (h *GiftHandler) Reserve(c *gin.Context) {
	h.run(c, http.StatusCreated, h.service.Reserve)
}

// @Summary Withdraw own reservation
// @Tags gifts
// @Security BearerAuth
// @Param id path int true "Gift ID"
// @Success 204 "Released"
// @Failure 404 {object} middleware.ErrorResponse "Gift not found"
// @Router /gifts/{id}/reserve/friend [delete]
func (h *GiftHandler) ReleaseByFriend(c *gin.Context) {
	h.run(c, http.StatusNoContent, h.service.ReleaseByFriend)
}

// @Summary Withdraw any reservation on own gift
// @Tags gifts
// @Security BearerAuth
// @Param id path int true "Gift ID"
// @Success 204 "Released"
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Gift not found"
// @Router /gifts/{id}/reserve/owner [delete]
func (h *GiftHandler) ReleaseByOwner(c *gin.Context) {
	h.run(c, http.StatusNoContent, h.service.ReleaseByOwner)
}

// run calls op(giftID, userID) and answers with status on success.
func (h *GiftHandler) run(c *gin.Context, status int, op func(ctx context.Context, giftID, userID int64) error) {
	userID, giftID, ok := ids(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), giftID, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(status)
}

func ids(c *gin.Context) (int64, int64, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return 0, 0, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(errors.NewValidationError("id", "must be an integer"))
		return 0, 0, false
	}
	return userID, id, true
}
