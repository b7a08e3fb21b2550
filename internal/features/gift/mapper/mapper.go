package mapper

import (
	"strings"

	"wishlist-backend/internal/features/gift/models"
	"wishlist-backend/internal/features/gift/models/dto"
)

// FromCreateRequest builds an unsaved gift owned by ownerID.
func FromCreateRequest(ownerID int64, req *dto.CreateGiftRequest) *models.Gift {
	return &models.Gift{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Name),
		URL:      value(req.URL),
		WishRate: req.WishRate,
		Price:    req.Price,
		Note:     value(req.Note),
	}
}

func ToGiftResponse(g *models.Gift) *models.GiftResponse {
	return &models.GiftResponse{
		ID:         g.ID,
		OwnerID:    g.OwnerID,
		Name:       g.Name,
		URL:        optional(g.URL),
		WishRate:   g.WishRate,
		Price:      g.Price,
		Note:       optional(g.Note),
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
		IsReserved: g.IsReserved,
		ReservedBy: g.ReservedBy,
	}
}

func ToGiftResponses(gifts []*models.Gift) []*models.GiftResponse {
	out := make([]*models.GiftResponse, 0, len(gifts))
	for _, g := range gifts {
		out = append(out, ToGiftResponse(g))
	}
	return out
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
