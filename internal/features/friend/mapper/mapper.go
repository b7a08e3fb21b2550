package mapper

import (
	"wishlist-backend/internal/features/friend/models"
)

func ToPendingRequestResponse(req *models.PendingRequest) *models.PendingRequestResponse {
	resp := &models.PendingRequestResponse{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Status:     string(req.Status),
		SenderName: req.SenderName,
		CreatedAt:  req.CreatedAt,
	}
	if req.SenderUsername != "" {
		username := req.SenderUsername
		resp.SenderUsername = &username
	}
	return resp
}

func ToPendingRequestResponses(requests []*models.PendingRequest) []*models.PendingRequestResponse {
	out := make([]*models.PendingRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, ToPendingRequestResponse(req))
	}
	return out
}
