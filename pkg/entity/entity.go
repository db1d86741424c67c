package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task priorities, stored as text
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Friend request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

type User struct {
	ID                     uuid.UUID
	Name                   string
	Nickname               string
	PasswordHash           string
	TasksCompletedToday    int
	TasksCompletedThisWeek int
	LastResetDate          *time.Time
}

type Task struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Name      string    `json:"name"`
	Body      string    `json:"body,omitempty"`
	Deadline  time.Time `json:"deadline"`
	Priority  string    `json:"priority"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

type FriendRequest struct {
	ID            int64     `json:"id"`
	RequesterID   uuid.UUID `json:"requester_id"`
	TargetID      uuid.UUID `json:"target_id"`
	RequesterName string    `json:"requester_name"`
	TargetName    string    `json:"target_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Friend is the peer side of an approved request, as shown in friend listings
type Friend struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Nickname string    `json:"nickname"`
}

type FriendTopTask struct {
	Friend Friend `json:"friend"`
	Task   Task   `json:"task"`
}
