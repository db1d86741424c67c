package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by handle. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Changes user's display nickname
	UpdateNickname(ctx context.Context, uid uuid.UUID, nickname string) error
	// Zeroes the daily counter and, when weekly is set, the weekly one too.
	// Stamps last_reset_date with resetAt
	ResetCounters(ctx context.Context, uid uuid.UUID, weekly bool, resetAt time.Time) error
	// Deletes user. Tasks and friend requests go with it (FK cascade)
	Delete(ctx context.Context, uid uuid.UUID) error
}

type TasksRepositoryI interface {
	// Creates new task. Only UserID, Name, Body, Deadline, Priority, Progress are necessary
	Create(ctx context.Context, task *entity.Task) (uuid.UUID, error)
	// Searches task with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// Lists tasks owned by user with uid in insertion order. Requires pagination params provided
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Task, error)
	// Updates task by ID (ID in task is necessary)
	Update(ctx context.Context, task *entity.Task) error
	// Deletes task with id
	Delete(ctx context.Context, id uuid.UUID) error
	// Deletes task with id and bumps both completion counters of userID
	// in one transaction. Increments are done in SQL, so concurrent
	// completions never lose counts
	Complete(ctx context.Context, id, userID uuid.UUID) error
}

type FriendRequestsRepositoryI interface {
	// Creates new pending request from requester to target
	Create(ctx context.Context, requesterID, targetID uuid.UUID) (int64, error)
	// Searches request with given id, with both handles resolved
	GetByID(ctx context.Context, id int64) (*entity.FriendRequest, error)
	// Moves request into status (approved or denied)
	SetStatus(ctx context.Context, id int64, status string) error
	// Lists requests where uid is requester or target, newest first
	ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.FriendRequest, error)
	// Lists peers of approved requests involving uid, either direction.
	// Rows are not deduplicated here, the service derives the friend set
	ApprovedPeers(ctx context.Context, uid uuid.UUID) ([]entity.Friend, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
