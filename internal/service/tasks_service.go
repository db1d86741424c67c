package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/OTOMOKOUSUKE/Task-app/internal/error_values"
	"github.com/OTOMOKOUSUKE/Task-app/internal/repository"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

type TasksService struct {
	repo      repository.TasksRepositoryI
	usersRepo repository.UsersRepositoryI
}

func NewTasksService(tasksRepo repository.TasksRepositoryI, usersRepo repository.UsersRepositoryI) *TasksService {
	if tasksRepo == nil || usersRepo == nil {
		log.Fatal("provided nil repos to tasks service")
	}
	return &TasksService{
		repo:      tasksRepo,
		usersRepo: usersRepo,
	}
}

func validateTaskRequest(req *TaskRequest) error {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}

func (ts *TasksService) CreateTask(ctx context.Context, uid uuid.UUID, req *TaskRequest) (*entity.Task, error) {
	if err := validateTaskRequest(req); err != nil {
		return nil, err
	}
	t := entity.Task{
		UserID:   uid,
		Name:     req.Name,
		Body:     req.Body,
		Deadline: req.Deadline,
		Priority: req.Priority,
		Progress: req.Progress,
	}
	id, err := ts.repo.Create(ctx, &t)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

func (ts *TasksService) GetTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if task.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return task, nil
}

func (ts *TasksService) GetUserTasks(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Task, error) {
	tasks, err := ts.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return RankTasks(tasks), nil
}

func (ts *TasksService) UpdateTask(ctx context.Context, taskID, userID uuid.UUID, req *TaskRequest) (*entity.Task, error) {
	if err := validateTaskRequest(req); err != nil {
		return nil, err
	}
	task, err := ts.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	task.Name = req.Name
	task.Body = req.Body
	task.Deadline = req.Deadline
	task.Priority = req.Priority
	task.Progress = req.Progress
	err = ts.repo.Update(ctx, task)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

func (ts *TasksService) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	_, err := ts.GetTask(ctx, taskID, userID)
	if err != nil {
		return err
	}
	err = ts.repo.Delete(ctx, taskID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("tasks repository error: " + err.Error())
	}
	return nil
}

// CompleteTask runs the counter reset policy first so the increment lands in
// the current day and week, then removes the task and bumps both counters.
func (ts *TasksService) CompleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	_, err := ts.GetTask(ctx, taskID, userID)
	if err != nil {
		return err
	}
	user, err := ts.usersRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("users repository error: " + err.Error())
	}
	if reset, weekly := ApplyCounterReset(user, time.Now()); reset {
		err = ts.usersRepo.ResetCounters(ctx, userID, weekly, *user.LastResetDate)
		if err != nil {
			return errors.New("users repository error: " + err.Error())
		}
	}
	err = ts.repo.Complete(ctx, taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			return err
		case errors.Is(err, errorvalues.ErrUserNotFound):
			return err
		}
		return errors.New("tasks repository error: " + err.Error())
	}
	return nil
}
