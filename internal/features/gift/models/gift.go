package models

import "time"

// Gift is a wishlist entry. IsReserved and ReservedBy are projected for one viewer:
// ReservedBy is set only when that viewer holds the reservation.
type Gift struct {
	ID        int64
	OwnerID   int64
	Name      string
	URL       string
	WishRate  *int
	Price     *int64
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time

	IsReserved bool
	ReservedBy *int64
}

func (g *Gift) IsOwnedBy(userID int64) bool {
	return g.OwnerID == userID
}

// GiftResponse is the public view of a gift.
// @Description Wishlist gift as seen by the requesting user
type GiftResponse struct {
	ID         int64     `json:"id" example:"1"`
	OwnerID    int64     `json:"user_id" example:"100"`
	Name       string    `json:"name" example:"Bike"`
	URL        *string   `json:"url" example:"https://example.com/bike"`
	WishRate   *int      `json:"wish_rate" example:"10"`
	Price      *int64    `json:"price" example:"1000000"`
	Note       *string   `json:"note" example:"Red, 28 inch"`
	CreatedAt  time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-03-15T14:30:00Z"`
	IsReserved bool      `json:"is_reserved" example:"true"`
	ReservedBy *int64    `json:"reserved_by" example:"200"`
}

// CreatedResponse carries the id of a new gift.
type CreatedResponse struct {
	ID int64 `json:"id" example:"1"`
}
