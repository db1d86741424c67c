package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/OTOMOKOUSUKE/Task-app/internal/error_values"
	"github.com/OTOMOKOUSUKE/Task-app/internal/service"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/httputil"
)

// Deadline comes in as datetime-local form input, interpreted as JST
const deadlineLayout = "2006-01-02T15:04"

var deadlineZone = time.FixedZone("JST", 9*60*60)

type TaskRequest struct {
	Name     string `json:"name"`
	Body     string `json:"body"`
	Deadline string `json:"deadline"`
	Priority string `json:"priority"`
	Progress int    `json:"progress"`
}

type GetTasksResponse struct {
	UserID string         `json:"uid"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Tasks  []*entity.Task `json:"tasks"`
}

func (req *TaskRequest) toServiceRequest() (*service.TaskRequest, error) {
	deadline, err := time.ParseInLocation(deadlineLayout, req.Deadline, deadlineZone)
	if err != nil {
		return nil, err
	}
	return &service.TaskRequest{
		Name:     req.Name,
		Body:     req.Body,
		Deadline: deadline,
		Priority: req.Priority,
		Progress: req.Progress,
	}, nil
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req TaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	servReq, err := req.toServiceRequest()
	if err != nil {
		logger.Error("create task error: malformed deadline")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid deadline format", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.CreateTask(ctx, uid, servReq)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create task error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create task: user doesn't exists", nil)
		case isValidationError(err):
			logger.Error("create task error: invalid task data")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task data", err)
		default:
			logger.Error("create task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"task_id": task.ID.String()})
	logger.Info("task created")
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.tasksService.GetUserTasks(ctx, uid, service.PaginationOpts{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error("getting tasks list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetTasksResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  limit,
		Tasks:  tasks,
	})
	logger.Info("tasks provided")
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.GetTask(ctx, id, uid)
	if err != nil {
		writeTaskLookupError(w, logger, "get task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task provided")
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req TaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	servReq, err := req.toServiceRequest()
	if err != nil {
		logger.Error("update task error: malformed deadline")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid deadline format", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.UpdateTask(ctx, id, uid, servReq)
	if err != nil {
		if isValidationError(err) {
			logger.Error("update task error: invalid task data")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task data", err)
			return
		}
		writeTaskLookupError(w, logger, "update task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.tasksService.DeleteTask(ctx, id, uid)
	if err != nil {
		writeTaskLookupError(w, logger, "task deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted")
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task completion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task completion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.tasksService.CompleteTask(ctx, id, uid)
	if err != nil {
		writeTaskLookupError(w, logger, "task completion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task completed")
}

// Owned-by-someone-else reads as not found on purpose, ids aren't probeable
func writeTaskLookupError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrTaskNotFound):
		logger.Error(op + " error: unexist task")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrWrongOwner):
		logger.Error(op + " error: task has different owner")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
