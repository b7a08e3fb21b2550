package middleware

import (
	"github.com/gin-gonic/gin"

	"wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/auth/initdata"
)

const (
	InitDataHeader      = "X-Telegram-Init-Data"
	AuthorizationHeader = "Authorization"

	identityKey = "identity"
	userIDKey   = "user_id"
)

// IdentityResolver authenticates a request by either credential.
type IdentityResolver interface {
	ResolveFromInitData(header string) (*initdata.Identity, error)
	ResolveFromToken(authorization string) (int64, error)
}

// RequireInitData verifies X-Telegram-Init-Data and stores the identity.
func RequireInitData(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.ResolveFromInitData(c.GetHeader(InitDataHeader))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set(userIDKey, identity.ID)
		c.Next()
	}
}

// RequireBearer verifies the access token and stores the user id.
func RequireBearer(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.ResolveFromToken(c.GetHeader(AuthorizationHeader))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireInitData.
func GetIdentity(c *gin.Context) (*initdata.Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, errors.NewAuthError(errors.AuthMissingHeader)
	}
	identity, ok := value.(*initdata.Identity)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "Invalid identity in request context")
	}
	return identity, nil
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (int64, error) {
	if id := getUserID(c); id != 0 {
		return id, nil
	}
	return 0, errors.NewAuthError(errors.AuthMissingHeader)
}

func getUserID(c *gin.Context) int64 {
	if userID, exists := c.Get(userIDKey); exists {
		if id, ok := userID.(int64); ok {
			return id
		}
	}
	return 0
}
