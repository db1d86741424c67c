package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/OTOMOKOUSUKE/Task-app/internal/error_values"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/cleanup"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

type FriendRequestsRepository struct {
	conn PgConnection
}

func NewFriendRequestsRepo(cfg DBConfig) *FriendRequestsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for friendRequestsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for friendRequestsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &FriendRequestsRepository{
		conn: pool,
	}
}

func NewFriendRequestsRepoWithConn(conn PgConnection) *FriendRequestsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for friendRequestsRepo: " + err.Error())
	}
	return &FriendRequestsRepository{
		conn: conn,
	}
}

func (fr *FriendRequestsRepository) Create(ctx context.Context, requesterID, targetID uuid.UUID) (int64, error) {
	var id int64
	row := fr.conn.QueryRow(ctx, `INSERT INTO friend_requests (requester_id, target_id, status) VALUES ($1, $2, $3) RETURNING id;`,
		requesterID,
		targetID,
		entity.StatusPending,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Foreign key violation
			case "23503":
				return 0, errorvalues.ErrUserNotFound
			}
		}
		return 0, errors.New("creating friend request db error: " + err.Error())
	}
	return id, nil
}

func (fr *FriendRequestsRepository) GetByID(ctx context.Context, id int64) (*entity.FriendRequest, error) {
	var req entity.FriendRequest
	row := fr.conn.QueryRow(ctx, `SELECT fr.id, fr.requester_id, fr.target_id, ru.name, tu.name, fr.status, fr.created_at
		FROM friend_requests fr JOIN users ru ON ru.id = fr.requester_id JOIN users tu ON tu.id = fr.target_id WHERE fr.id = $1;`, id)
	if err := row.Scan(&req.ID, &req.RequesterID, &req.TargetID, &req.RequesterName, &req.TargetName, &req.Status, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrRequestNotFound
		}
		return nil, errors.New("getting friend request by id error: " + err.Error())
	}
	return &req, nil
}

// SetStatus flips a pending request only. Zero rows affected means the row is
// already decided (or gone), so a concurrent decision cannot be overwritten.
func (fr *FriendRequestsRepository) SetStatus(ctx context.Context, id int64, status string) error {
	ct, err := fr.conn.Exec(ctx, `UPDATE friend_requests SET status = $1 WHERE id = $2 AND status = 'pending';`, status, id)
	if err != nil {
		return errors.New("updating friend request status error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrRequestDecided
	}
	return nil
}

func (fr *FriendRequestsRepository) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.FriendRequest, error) {
	requests := make([]*entity.FriendRequest, 0)
	rows, err := fr.conn.Query(ctx, `SELECT fr.id, fr.requester_id, fr.target_id, ru.name, tu.name, fr.status, fr.created_at
		FROM friend_requests fr JOIN users ru ON ru.id = fr.requester_id JOIN users tu ON tu.id = fr.target_id
		WHERE fr.requester_id = $1 OR fr.target_id = $1 ORDER BY fr.created_at DESC;`, uid)
	if err != nil {
		return nil, errors.New("listing friend requests error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		r := entity.FriendRequest{}
		err = rows.Scan(&r.ID, &r.RequesterID, &r.TargetID, &r.RequesterName, &r.TargetName, &r.Status, &r.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling friend request error: " + err.Error())
		}
		requests = append(requests, &r)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return requests, nil
}

func (fr *FriendRequestsRepository) ApprovedPeers(ctx context.Context, uid uuid.UUID) ([]entity.Friend, error) {
	peers := make([]entity.Friend, 0)
	rows, err := fr.conn.Query(ctx, `SELECT u.id, u.name, u.nickname FROM friend_requests fr
		JOIN users u ON u.id = CASE WHEN fr.requester_id = $1 THEN fr.target_id ELSE fr.requester_id END
		WHERE fr.status = $2 AND (fr.requester_id = $1 OR fr.target_id = $1);`, uid, entity.StatusApproved)
	if err != nil {
		return nil, errors.New("listing approved peers error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		p := entity.Friend{}
		err = rows.Scan(&p.ID, &p.Name, &p.Nickname)
		if err != nil {
			return nil, errors.New("unmarhalling peer error: " + err.Error())
		}
		peers = append(peers, p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return peers, nil
}
