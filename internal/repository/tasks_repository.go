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

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(cfg DBConfig) *TasksRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for tasksRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &TasksRepository{
		conn: pool,
	}
}

func NewTasksRepoWithConn(conn PgConnection) *TasksRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	return &TasksRepository{
		conn: conn,
	}
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) (uuid.UUID, error) {
	var id uuid.UUID
	row := tr.conn.QueryRow(ctx, `INSERT INTO tasks (user_id, name, body, deadline, priority, progress) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		task.UserID,
		task.Name,
		task.Body,
		task.Deadline,
		task.Priority,
		task.Progress,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Foreign key violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating task db error: " + err.Error())
	}
	return id, nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var task entity.Task
	row := tr.conn.QueryRow(ctx, `SELECT id, user_id, name, body, deadline, priority, progress, created_at FROM tasks WHERE id = $1;`, id)
	if err := row.Scan(&task.ID, &task.UserID, &task.Name, &task.Body, &task.Deadline, &task.Priority, &task.Progress, &task.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return &task, nil
}

// GetByUserID lists tasks in urgency order (priority, then deadline, then
// creation). Ordering happens before LIMIT/OFFSET so pages follow the global
// ranking, a High task never slips behind a page of Low ones.
func (tr *TasksRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Task, error) {
	tasks := make([]*entity.Task, 0)
	rows, err := tr.conn.Query(ctx, `SELECT id, user_id, name, body, deadline, priority, progress, created_at
		FROM tasks WHERE user_id = $1
		ORDER BY CASE priority WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 WHEN 'Low' THEN 3 ELSE 4 END, deadline, created_at
		LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting tasks by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		t := entity.Task{}
		err = rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Body, &t.Deadline, &t.Priority, &t.Progress, &t.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling task error: " + err.Error())
		}
		tasks = append(tasks, &t)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET name = $1, body = $2, deadline = $3, priority = $4, progress = $5 WHERE id = $6;`,
		task.Name, task.Body, task.Deadline, task.Priority, task.Progress, task.ID,
	)
	if err != nil {
		return errors.New("error updating task: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting task: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

// Complete removes the task row and bumps both completion counters of its
// owner inside a single transaction. Counters are incremented in SQL rather
// than read-modify-write, two concurrent completions both land.
func (tr *TasksRepository) Complete(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := tr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting completion tx error: " + err.Error())
	}
	ct, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		tx.Rollback(ctx)
		return errors.New("error deleting completed task: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		tx.Rollback(ctx)
		return errorvalues.ErrTaskNotFound
	}
	ct, err = tx.Exec(ctx, `UPDATE users SET tasks_completed_today = tasks_completed_today + 1, tasks_completed_this_week = tasks_completed_this_week + 1 WHERE id = $1;`, userID)
	if err != nil {
		tx.Rollback(ctx)
		return errors.New("error incrementing counters: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		tx.Rollback(ctx)
		return errorvalues.ErrUserNotFound
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing completion tx error: " + err.Error())
	}
	return nil
}
