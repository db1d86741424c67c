package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/OTOMOKOUSUKE/Task-app/internal/api"
	errorvalues "github.com/OTOMOKOUSUKE/Task-app/internal/error_values"
	"github.com/OTOMOKOUSUKE/Task-app/internal/service"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
	jwtservice "github.com/OTOMOKOUSUKE/Task-app/pkg/jwt_service"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	username        = "test_user"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID          = uuid.New()
	taskID          = uuid.New()
	friendName      = "friend_name"
)

func testUser() *entity.User {
	return &entity.User{
		ID:           userID,
		Name:         username,
		Nickname:     "tester",
		PasswordHash: string(passwordHash),
	}
}

func testTask() *entity.Task {
	return &entity.Task{
		ID:        taskID,
		UserID:    userID,
		Name:      "test_task",
		Body:      "test_task_body",
		Deadline:  time.Now().Add(24 * time.Hour),
		Priority:  entity.PriorityHigh,
		Progress:  10,
		CreatedAt: time.Now(),
	}
}

func testFriendRequest(status string) *entity.FriendRequest {
	return &entity.FriendRequest{
		ID:            1,
		RequesterID:   userID,
		TargetID:      uuid.New(),
		RequesterName: username,
		TargetName:    friendName,
		Status:        status,
		CreatedAt:     time.Now(),
	}
}

// Mocks either answer with canned data or fail with whatever ChangeState set

type UserServiceMock struct {
	err error
}

func (m *UserServiceMock) ChangeState(err error) { m.err = err }

func (m *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testUser(), nil
}

func (m *UserServiceMock) Login(ctx context.Context, name, password string) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testUser(), nil
}

func (m *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testUser(), nil
}

func (m *UserServiceMock) GetByName(ctx context.Context, name string) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testUser(), nil
}

func (m *UserServiceMock) Profile(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testUser(), nil
}

func (m *UserServiceMock) UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) error {
	return m.err
}

func (m *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	return m.err
}

type TasksServiceMock struct {
	err error
}

func (m *TasksServiceMock) ChangeState(err error) { m.err = err }

func (m *TasksServiceMock) CreateTask(ctx context.Context, uid uuid.UUID, req *service.TaskRequest) (*entity.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testTask(), nil
}

func (m *TasksServiceMock) GetTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testTask(), nil
}

func (m *TasksServiceMock) GetUserTasks(ctx context.Context, uid uuid.UUID, pagination service.PaginationOpts) ([]*entity.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*entity.Task{testTask(), testTask()}, nil
}

func (m *TasksServiceMock) UpdateTask(ctx context.Context, taskID, userID uuid.UUID, req *service.TaskRequest) (*entity.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testTask(), nil
}

func (m *TasksServiceMock) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	return m.err
}

func (m *TasksServiceMock) CompleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	return m.err
}

type FriendsServiceMock struct {
	err error
}

func (m *FriendsServiceMock) ChangeState(err error) { m.err = err }

func (m *FriendsServiceMock) SendRequest(ctx context.Context, requesterID uuid.UUID, targetName string) (*entity.FriendRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testFriendRequest(entity.StatusPending), nil
}

func (m *FriendsServiceMock) ListRequests(ctx context.Context, uid uuid.UUID) ([]*entity.FriendRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*entity.FriendRequest{testFriendRequest(entity.StatusPending)}, nil
}

func (m *FriendsServiceMock) Decide(ctx context.Context, uid uuid.UUID, requestID int64, action string) (*entity.FriendRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return testFriendRequest(entity.StatusApproved), nil
}

func (m *FriendsServiceMock) Friends(ctx context.Context, uid uuid.UUID) ([]entity.Friend, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []entity.Friend{{ID: uuid.New(), Name: friendName, Nickname: "friend"}}, nil
}

func (m *FriendsServiceMock) TopTaskPerFriend(ctx context.Context, uid uuid.UUID) ([]entity.FriendTopTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []entity.FriendTopTask{{
		Friend: entity.Friend{ID: uuid.New(), Name: friendName, Nickname: "friend"},
		Task:   *testTask(),
	}}, nil
}

func (m *FriendsServiceMock) FriendTasks(ctx context.Context, uid uuid.UUID, friendName string) ([]*entity.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*entity.Task{testTask()}, nil
}

func newTestServer() (*api.Server, *UserServiceMock, *TasksServiceMock, *FriendsServiceMock) {
	userMock := &UserServiceMock{}
	tasksMock := &TasksServiceMock{}
	friendsMock := &FriendsServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService:    userMock,
		TasksService:   tasksMock,
		FriendsService: friendsMock,
		JwtService:     jwtservice.New("secret"),
	})
	return serv, userMock, tasksMock, friendsMock
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "User-ID", userID))
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Nickname: "tester",
		Password: password,
	})
	require.NoError(t, err)
	serv, mock, _, _ := newTestServer()
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(nil)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("existed user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(errorvalues.ErrUserExists)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("invalid credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(errors.New("validation error: name too short"))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("corrupted")))
		mock.ChangeState(nil)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(errors.New("service error"))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Name:     username,
		Password: password,
	})
	require.NoError(t, err)
	serv, mock, _, _ := newTestServer()
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(nil)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		token, ok := result["token"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})
	t.Run("unexist user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(errorvalues.ErrUserNotFound)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("wrong password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(errorvalues.ErrWrongCredentials)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(nil)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestMe(t *testing.T) {
	serv, mock, _, _ := newTestServer()
	t.Run("profile provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
		mock.ChangeState(nil)
		serv.Me(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.ProfileResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, username, resp.Name)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		mock.ChangeState(nil)
		serv.Me(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestUpdateNickname(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.NicknameRequest{Nickname: "renamed"})
	require.NoError(t, err)
	serv, mock, _, _ := newTestServer()
	t.Run("updated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/users/me/nickname", bytes.NewReader(body)))
		mock.ChangeState(nil)
		serv.UpdateNickname(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid nickname", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/users/me/nickname", bytes.NewReader(body)))
		mock.ChangeState(errors.New("validation error: nickname too long"))
		serv.UpdateNickname(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unexist user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/users/me/nickname", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrUserNotFound)
		serv.UpdateNickname(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestDeleteAccount(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.DeleteAccountRequest{Password: password})
	require.NoError(t, err)
	serv, mock, _, _ := newTestServer()
	t.Run("deleted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/users/me", bytes.NewReader(body)))
		mock.ChangeState(nil)
		serv.DeleteAccount(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("wrong password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/users/me", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrWrongCredentials)
		serv.DeleteAccount(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
}

func taskBody(t *testing.T) []byte {
	t.Helper()
	body, err := sonic.ConfigDefault.Marshal(api.TaskRequest{
		Name:     "test_task",
		Body:     "test_task_body",
		Deadline: "2025-06-10T18:00",
		Priority: entity.PriorityHigh,
		Progress: 10,
	})
	require.NoError(t, err)
	return body
}

func TestCreateTask(t *testing.T) {
	serv, _, mock, _ := newTestServer()
	t.Run("created", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(taskBody(t))))
		mock.ChangeState(nil)
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(taskBody(t)))
		mock.ChangeState(nil)
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("malformed deadline", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.TaskRequest{
			Name:     "test_task",
			Deadline: "June 10th",
			Priority: entity.PriorityHigh,
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body)))
		mock.ChangeState(nil)
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid task data", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(taskBody(t))))
		mock.ChangeState(errors.New("validation error: progress out of range"))
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(taskBody(t))))
		mock.ChangeState(errors.New("service error"))
		serv.CreateTask(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestGetTasks(t *testing.T) {
	serv, _, mock, _ := newTestServer()
	t.Run("listed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks?limit=10&page=1", nil))
		mock.ChangeState(nil)
		serv.GetTasks(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetTasksResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Len(t, resp.Tasks, 2)
		assert.Equal(t, 10, resp.Limit)
	})
	t.Run("out of range limit falls back", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks?limit=500&page=0", nil))
		mock.ChangeState(nil)
		serv.GetTasks(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetTasksResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, 10, resp.Limit)
		assert.Equal(t, 1, resp.Page)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
		mock.ChangeState(errors.New("service error"))
		serv.GetTasks(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestTaskByID(t *testing.T) {
	serv, _, mock, _ := newTestServer()
	withTaskID := func(r *http.Request) *http.Request {
		r = authed(r)
		r.SetPathValue("id", taskID.String())
		return r
	}
	t.Run("task provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+taskID.String(), nil))
		mock.ChangeState(nil)
		serv.GetTask(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/garbage", nil))
		req.SetPathValue("id", "garbage")
		mock.ChangeState(nil)
		serv.GetTask(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unexist task", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+taskID.String(), nil))
		mock.ChangeState(errorvalues.ErrTaskNotFound)
		serv.GetTask(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("foreign task reads as unexist", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+taskID.String(), nil))
		mock.ChangeState(errorvalues.ErrWrongOwner)
		serv.GetTask(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("updated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodPut, "/api/v1/tasks/"+taskID.String(), bytes.NewReader(taskBody(t))))
		mock.ChangeState(nil)
		serv.UpdateTask(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("deleted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+taskID.String(), nil))
		mock.ChangeState(nil)
		serv.DeleteTask(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("completed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+taskID.String()+"/complete", nil))
		mock.ChangeState(nil)
		serv.CompleteTask(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("completing unexist task", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withTaskID(httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+taskID.String()+"/complete", nil))
		mock.ChangeState(errorvalues.ErrTaskNotFound)
		serv.CompleteTask(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestSendFriendRequest(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.SendFriendRequestRequest{Name: friendName})
	require.NoError(t, err)
	serv, _, _, mock := newTestServer()
	t.Run("sent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests", bytes.NewReader(body)))
		mock.ChangeState(nil)
		serv.SendFriendRequest(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("unexist target", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrUserNotFound)
		serv.SendFriendRequest(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("request to oneself", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrSelfRequest)
		serv.SendFriendRequest(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests", bytes.NewReader([]byte("corrupted"))))
		mock.ChangeState(nil)
		serv.SendFriendRequest(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestDecideFriendRequest(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.DecideFriendRequestRequest{Action: service.ActionApprove})
	require.NoError(t, err)
	serv, _, _, mock := newTestServer()
	withRequestID := func(r *http.Request) *http.Request {
		r = authed(r)
		r.SetPathValue("id", "1")
		return r
	}
	t.Run("decided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withRequestID(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/1/decide", bytes.NewReader(body)))
		mock.ChangeState(nil)
		serv.DecideFriendRequest(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp entity.FriendRequest
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, entity.StatusApproved, resp.Status)
	})
	t.Run("unexist request", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withRequestID(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/1/decide", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrRequestNotFound)
		serv.DecideFriendRequest(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("request addressed to another user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withRequestID(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/1/decide", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrWrongOwner)
		serv.DecideFriendRequest(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("already decided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withRequestID(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/1/decide", bytes.NewReader(body)))
		mock.ChangeState(errorvalues.ErrRequestDecided)
		serv.DecideFriendRequest(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("unknown action", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withRequestID(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/1/decide", bytes.NewReader(body)))
		mock.ChangeState(errors.New("validation error: unknown action maybe"))
		serv.DecideFriendRequest(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/garbage/decide", bytes.NewReader(body)))
		req.SetPathValue("id", "garbage")
		mock.ChangeState(nil)
		serv.DecideFriendRequest(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetFriends(t *testing.T) {
	serv, _, _, mock := newTestServer()
	t.Run("friends provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/friends", nil))
		mock.ChangeState(nil)
		serv.GetFriends(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetFriendsResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Len(t, resp.Friends, 1)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/friends", nil))
		mock.ChangeState(errors.New("service error"))
		serv.GetFriends(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestGetFriendsTopTasks(t *testing.T) {
	serv, _, _, mock := newTestServer()
	rr := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/friends/top-tasks", nil))
	mock.ChangeState(nil)
	serv.GetFriendsTopTasks(rr, req)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	var resp []entity.FriendTopTask
	require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, friendName, resp[0].Friend.Name)
}

func TestGetFriendTasks(t *testing.T) {
	serv, _, _, mock := newTestServer()
	withName := func(r *http.Request) *http.Request {
		r = authed(r)
		r.SetPathValue("name", friendName)
		return r
	}
	t.Run("friend tasks provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withName(httptest.NewRequest(http.MethodGet, "/api/v1/friends/"+friendName+"/tasks", nil))
		mock.ChangeState(nil)
		serv.GetFriendTasks(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("not friends", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withName(httptest.NewRequest(http.MethodGet, "/api/v1/friends/"+friendName+"/tasks", nil))
		mock.ChangeState(errorvalues.ErrNotFriends)
		serv.GetFriendTasks(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func tokenHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := api.GetUIDFromContext(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"uid": "` + uid.String() + `"}`))
}

func TestAuthMiddleware(t *testing.T) {
	serv, mock, _, _ := newTestServer()
	handler := serv.AuthMiddleware(http.HandlerFunc(tokenHandler))
	jwts := jwtservice.New("secret")
	token, err := jwts.GenerateToken(testUser())
	require.NoError(t, err)
	t.Run("successful auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mock.ChangeState(nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("deleted user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mock.ChangeState(errorvalues.ErrUserNotFound)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
