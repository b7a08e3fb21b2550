package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/middleware"
	"wishlist-backend/internal/features/friend/mapper"
	"wishlist-backend/internal/features/friend/models"
	"wishlist-backend/internal/features/friend/service"
	usermapper "wishlist-backend/internal/features/user/mapper"
)

type FriendHandler struct {
	service service.FriendService
}

func NewFriendHandler(service service.FriendService) *FriendHandler {
	return &FriendHandler{service: service}
}

func (h *FriendHandler) RegisterRoutes(router *gin.RouterGroup, resolver middleware.IdentityResolver) {
	users := router.Group("/users", middleware.RequireBearer(resolver))
	{
		users.GET("/:id/relation", h.GetRelation)
		users.GET("/me/friends", h.ListFriends)
		users.GET("/me/friend-requests", h.ListPending)
		users.POST("/me/friends/:id/request", h.SendRequest)
		users.PATCH("/me/friends/:id/accept", h.AcceptRequest)
		users.PATCH("/me/friends/:id/reject", h.RejectRequest)
		users.DELETE("/me/friends/:id", h.DeleteFriend)
	}
}

// @Summary Send a friend request
// @Tags friends
// @Security BearerAuth
// @Param id path int true "Receiver Telegram ID"
// @Success 201 "Request sent"
// @Failure 400 {object} middleware.ErrorResponse "Self request or already friends"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me/friends/{id}/request [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, otherID, ok := ids(c)
	if !ok {
		return
	}
	if err := h.service.SendRequest(c.Request.Context(), userID, otherID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusCreated)
}

// @Summary List incoming friend requests
// @Description Pending requests addressed to the caller, newest first.
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PendingRequestResponse
// @Router /users/me/friend-requests [get]
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	requests, err := h.service.ListPending(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPendingRequestResponses(requests))
}

// @Summary Accept a friend request
// @Description Accepting a request that is not pending is a no-op.
// @Tags friends
// @Security BearerAuth
// @Param id path int true "Sender Telegram ID"
// @Success 200 "Accepted"
// @Router /users/me/friends/{id}/accept [patch]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, otherID, ok := ids(c)
	if !ok {
		return
	}
	if err := h.service.AcceptRequest(c.Request.Context(), userID, otherID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Reject a friend request
// @Tags friends
// @Security BearerAuth
// @Param id path int true "Sender Telegram ID"
// @Success 200 "Rejected"
// @Router /users/me/friends/{id}/reject [patch]
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID, otherID, ok := ids(c)
	if !ok {
		return
	}
	if err := h.service.RejectRequest(c.Request.Context(), userID, otherID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Remove a friend
// @Tags friends
// @Security BearerAuth
// @Param id path int true "Friend Telegram ID"
// @Success 204 "Removed"
// @Router /users/me/friends/{id} [delete]
func (h *FriendHandler) DeleteFriend(c *gin.Context) {
	userID, otherID, ok := ids(c)
	if !ok {
		return
	}
	if err := h.service.DeleteFriendship(c.Request.Context(), userID, otherID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse
// @Router /users/me/friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	friends, err := h.service.ListFriends(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, usermapper.ToUserResponses(friends))
}

// @Summary Relation to another user
// @Description Which friendship action the caller can take toward the user.
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Telegram user ID"
// @Success 200 {object} models.RelationResponse
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{id}/relation [get]
func (h *FriendHandler) GetRelation(c *gin.Context) {
	userID, otherID, ok := ids(c)
	if !ok {
		return
	}
	action, err := h.service.RelationTo(c.Request.Context(), userID, otherID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.RelationResponse{UserID: otherID, Action: action})
}

// ids returns the caller and the :id path parameter.
func ids(c *gin.Context) (int64, int64, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return 0, 0, false
	}
	otherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(errors.NewValidationError("id", "must be an integer"))
		return 0, 0, false
	}
	return userID, otherID, true
}
