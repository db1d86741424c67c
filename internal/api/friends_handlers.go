package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/OTOMOKOUSUKE/Task-app/internal/error_values"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/httputil"
)

type SendFriendRequestRequest struct {
	Name string `json:"name"`
}

type DecideFriendRequestRequest struct {
	Action string `json:"action"`
}

type GetFriendRequestsResponse struct {
	UserID   string                  `json:"uid"`
	Requests []*entity.FriendRequest `json:"requests"`
}

type GetFriendsResponse struct {
	UserID  string          `json:"uid"`
	Friends []entity.Friend `json:"friends"`
}

func (s *Server) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("send friend request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req SendFriendRequestRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("send friend request error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	request, err := s.friendsService.SendRequest(ctx, uid, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("send friend request error: unexist target")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrSelfRequest):
			logger.Error("send friend request error: request to oneself")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "cannot send friend request to yourself", nil)
		default:
			logger.Error("send friend request error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while sending friend request", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, request)
	logger.Info("friend request sent")
}

func (s *Server) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get friend requests error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	requests, err := s.friendsService.ListRequests(ctx, uid)
	if err != nil {
		logger.Error("getting friend requests error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friend requests", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetFriendRequestsResponse{
		UserID:   uid.String(),
		Requests: requests,
	})
	logger.Info("friend requests provided")
}

func (s *Server) DecideFriendRequest(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("decide friend request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("decide friend request error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request id in path value", nil)
		return
	}
	var req DecideFriendRequestRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("decide friend request error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	request, err := s.friendsService.Decide(ctx, uid, id, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrRequestNotFound):
			logger.Error("decide friend request error: unexist request")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "friend request doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("decide friend request error: request addressed to another user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "friend request doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrRequestDecided):
			logger.Error("decide friend request error: request already decided")
			httputil.WriteErrorResponse(w, http.StatusConflict, "friend request already decided", nil)
		case isValidationError(err):
			logger.Error("decide friend request error: unknown action")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "action must be approve or deny", nil)
		default:
			logger.Error("decide friend request error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deciding friend request", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, request)
	logger.Info("friend request decided")
}

func (s *Server) GetFriends(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get friends error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	friends, err := s.friendsService.Friends(ctx, uid)
	if err != nil {
		logger.Error("getting friends list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friends list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetFriendsResponse{
		UserID:  uid.String(),
		Friends: friends,
	})
	logger.Info("friends provided")
}

func (s *Server) GetFriendsTopTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get friends top tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	top, err := s.friendsService.TopTaskPerFriend(ctx, uid)
	if err != nil {
		logger.Error("getting friends top tasks error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friends top tasks", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, top)
	logger.Info("friends top tasks provided")
}

func (s *Server) GetFriendTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get friend tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	name := r.PathValue("name")
	if name == "" {
		logger.Error("get friend tasks error: empty name in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid friend name in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.friendsService.FriendTasks(ctx, uid, name)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNotFriends):
			logger.Error("get friend tasks error: not friends")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "friend not found", nil)
		default:
			logger.Error("get friend tasks error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friend tasks", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
	logger.Info("friend tasks provided")
}
