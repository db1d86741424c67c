package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=8,max=18"`
	Nickname string `validate:"required,max=12"`
	Password string `validate:"required,min=8,max=72"`
}

type TaskRequest struct {
	Name     string    `validate:"required,max=100"`
	Body     string    `validate:"max=100"`
	Deadline time.Time `validate:"required"`
	Priority string    `validate:"required,oneof=High Medium Low"`
	Progress int       `validate:"min=0,max=100"`
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

// Friend request decisions
const (
	ActionApprove = "approve"
	ActionDeny    = "deny"
)

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	// Like GetByID, but rolls stale completion counters over first so the
	// caller never sees yesterday's numbers
	Profile(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) error
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type TasksServiceI interface {
	CreateTask(ctx context.Context, uid uuid.UUID, req *TaskRequest) (*entity.Task, error)
	// Returns task with taskID if it belongs to userID
	GetTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.Task, error)
	// Lists user's tasks ranked by priority and deadline
	GetUserTasks(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Task, error)
	UpdateTask(ctx context.Context, taskID, userID uuid.UUID, req *TaskRequest) (*entity.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error
	// Applies the counter reset policy, then deletes the task and bumps both
	// completion counters
	CompleteTask(ctx context.Context, taskID, userID uuid.UUID) error
}

type FriendsServiceI interface {
	// Creates a pending request towards the user named targetName
	SendRequest(ctx context.Context, requesterID uuid.UUID, targetName string) (*entity.FriendRequest, error)
	// Lists requests sent or received by uid
	ListRequests(ctx context.Context, uid uuid.UUID) ([]*entity.FriendRequest, error)
	// Approves or denies a pending request addressed to uid
	Decide(ctx context.Context, uid uuid.UUID, requestID int64, action string) (*entity.FriendRequest, error)
	// Deduplicated friend set of uid over approved requests in either direction
	Friends(ctx context.Context, uid uuid.UUID) ([]entity.Friend, error)
	// Top ranked task of every friend, friends without tasks omitted
	TopTaskPerFriend(ctx context.Context, uid uuid.UUID) ([]entity.FriendTopTask, error)
	// Full ranked task list of the friend named friendName
	FriendTasks(ctx context.Context, uid uuid.UUID, friendName string) ([]*entity.Task, error)
}
