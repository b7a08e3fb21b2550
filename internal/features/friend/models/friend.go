package models

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// PendingRequest is an incoming friend request awaiting an answer.
type PendingRequest struct {
	SenderID       int64
	ReceiverID     int64
	Status         RequestStatus
	SenderName     string
	SenderUsername string
	CreatedAt      time.Time
}

// Action is what a user can do toward another user given their relation.
type Action string

const (
	ActionAlreadyFriends     Action = "ALREADY_FRIENDS"
	ActionAddFriend          Action = "ADD_FRIEND"
	ActionRequestAlreadySent Action = "REQUEST_ALREADY_SENT"
	ActionSendRequest        Action = "SEND_REQUEST"
)

// Relations holds a user's friends and pending requests in both directions.
// The three sets are disjoint and never contain the user.
type Relations struct {
	UserID   int64
	Friends  map[int64]struct{}
	Incoming map[int64]struct{}
	Outgoing map[int64]struct{}
}

func NewRelations(userID int64) *Relations {
	return &Relations{
		UserID:   userID,
		Friends:  make(map[int64]struct{}),
		Incoming: make(map[int64]struct{}),
		Outgoing: make(map[int64]struct{}),
	}
}

// AddFriend, AddIncoming and AddOutgoing keep the sets disjoint with
// friends > incoming > outgoing precedence.
func (r *Relations) AddFriend(id int64) {
	if id == r.UserID {
		return
	}
	r.Friends[id] = struct{}{}
	delete(r.Incoming, id)
	delete(r.Outgoing, id)
}

func (r *Relations) AddIncoming(id int64) {
	if id == r.UserID {
		return
	}
	if _, ok := r.Friends[id]; ok {
		return
	}
	r.Incoming[id] = struct{}{}
	delete(r.Outgoing, id)
}

func (r *Relations) AddOutgoing(id int64) {
	if id == r.UserID {
		return
	}
	if _, ok := r.Friends[id]; ok {
		return
	}
	if _, ok := r.Incoming[id]; ok {
		return
	}
	r.Outgoing[id] = struct{}{}
}

// Classify returns the action available toward candidateID.
func (r *Relations) Classify(candidateID int64) Action {
	if _, ok := r.Friends[candidateID]; ok {
		return ActionAlreadyFriends
	}
	if _, ok := r.Incoming[candidateID]; ok {
		return ActionAddFriend
	}
	if _, ok := r.Outgoing[candidateID]; ok {
		return ActionRequestAlreadySent
	}
	return ActionSendRequest
}

// PendingRequestResponse is the public view of a pending request.
// @Description Incoming friend request
type PendingRequestResponse struct {
	SenderID       int64     `json:"sender_tg_id" example:"100"`
	ReceiverID     int64     `json:"receiver_tg_id" example:"200"`
	Status         string    `json:"status" example:"pending"`
	SenderName     string    `json:"sender_name" example:"John Doe"`
	SenderUsername *string   `json:"sender_username" example:"johndoe"`
	CreatedAt      time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
}

// RelationResponse is the action available toward another user.
type RelationResponse struct {
	UserID int64  `json:"user_id" example:"200"`
	Action Action `json:"action" example:"SEND_REQUEST" enums:"ALREADY_FRIENDS,ADD_FRIEND,REQUEST_ALREADY_SENT,SEND_REQUEST"`
}
