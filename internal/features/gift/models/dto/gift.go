package dto

// CreateGiftRequest is the body of POST /gifts.
type CreateGiftRequest struct {
	Name     string  `json:"name" binding:"required,max=255" example:"Bike"`
	URL      *string `json:"url" binding:"omitempty,max=2048" example:"https://example.com/bike"`
	WishRate *int    `json:"wish_rate" binding:"omitempty,min=1,max=10" example:"10"`
	Price    *int64  `json:"price" binding:"omitempty,min=0" example:"1000000"`
	Note     *string `json:"note" binding:"omitempty,max=1000" example:"Red, 28 inch"`
}
