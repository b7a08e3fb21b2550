package mapper

import (
	"time"

	"wishlist-backend/internal/features/user/models"
)

// ToUserResponse maps User model to UserResponse DTO
func ToUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:        user.ID,
		Username:  optional(user.Username),
		FirstName: user.FirstName,
		LastName:  optional(user.LastName),
		AvatarURL: optional(user.AvatarURL),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func ToUserResponses(users []*models.User) []*models.UserResponse {
	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

func ToTokenResponse(result *models.LoginResult) *models.TokenResponse {
	return &models.TokenResponse{
		AccessToken: result.Token.AccessToken,
		TokenType:   result.Token.TokenType,
		ExpiresAt:   result.Token.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
