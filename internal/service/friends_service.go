package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	errorvalues "github.com/OTOMOKOUSUKE/Task-app/internal/error_values"
	"github.com/OTOMOKOUSUKE/Task-app/internal/repository"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/entity"
)

// Cap on a friend's full task listing. Storage already hands tasks back in
// urgency order, so truncation only drops the least urgent tail.
const friendTasksLimit = 500

type FriendsService struct {
	repo      repository.FriendRequestsRepositoryI
	usersRepo repository.UsersRepositoryI
	tasksRepo repository.TasksRepositoryI
}

func NewFriendsService(requestsRepo repository.FriendRequestsRepositoryI, usersRepo repository.UsersRepositoryI, tasksRepo repository.TasksRepositoryI) *FriendsService {
	if requestsRepo == nil || usersRepo == nil || tasksRepo == nil {
		log.Fatal("provided nil repos to friends service")
	}
	return &FriendsService{
		repo:      requestsRepo,
		usersRepo: usersRepo,
		tasksRepo: tasksRepo,
	}
}

// SendRequest always creates a fresh pending row. Repeated requests between
// the same pair are allowed, the friend set dedups them on read.
func (fs *FriendsService) SendRequest(ctx context.Context, requesterID uuid.UUID, targetName string) (*entity.FriendRequest, error) {
	target, err := fs.usersRepo.FindByName(ctx, targetName)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	if target.ID == requesterID {
		return nil, errorvalues.ErrSelfRequest
	}
	id, err := fs.repo.Create(ctx, requesterID, target.ID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	req, err := fs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRequestNotFound) {
			return nil, err
		}
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	return req, nil
}

func (fs *FriendsService) ListRequests(ctx context.Context, uid uuid.UUID) ([]*entity.FriendRequest, error) {
	requests, err := fs.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	return requests, nil
}

// Decide moves a pending request into approved or denied. Only the target may
// decide, and decided requests stay decided.
func (fs *FriendsService) Decide(ctx context.Context, uid uuid.UUID, requestID int64, action string) (*entity.FriendRequest, error) {
	var status string
	switch action {
	case ActionApprove:
		status = entity.StatusApproved
	case ActionDeny:
		status = entity.StatusDenied
	default:
		return nil, errors.New("validation error: unknown action " + action)
	}
	req, err := fs.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRequestNotFound) {
			return nil, err
		}
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	if req.TargetID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	if req.Status != entity.StatusPending {
		return nil, errorvalues.ErrRequestDecided
	}
	err = fs.repo.SetStatus(ctx, requestID, status)
	if err != nil {
		// a concurrent decision between our pending check and the update
		// surfaces here as ErrRequestDecided
		if errors.Is(err, errorvalues.ErrRequestNotFound) || errors.Is(err, errorvalues.ErrRequestDecided) {
			return nil, err
		}
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	req.Status = status
	return req, nil
}

// Friends is the set union over approved requests in either direction.
// Duplicate rows between the same pair collapse to one friend.
func (fs *FriendsService) Friends(ctx context.Context, uid uuid.UUID) ([]entity.Friend, error) {
	peers, err := fs.repo.ApprovedPeers(ctx, uid)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	seen := make(map[uuid.UUID]struct{}, len(peers))
	friends := make([]entity.Friend, 0, len(peers))
	for _, p := range peers {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		friends = append(friends, p)
	}
	return friends, nil
}

func (fs *FriendsService) TopTaskPerFriend(ctx context.Context, uid uuid.UUID) ([]entity.FriendTopTask, error) {
	friends, err := fs.Friends(ctx, uid)
	if err != nil {
		return nil, err
	}
	top := make([]entity.FriendTopTask, 0, len(friends))
	for _, friend := range friends {
		// first row in urgency order is the friend's most pressing task
		tasks, err := fs.tasksRepo.GetByUserID(ctx, friend.ID, 1, 0)
		if err != nil {
			return nil, errors.New("tasks repository error: " + err.Error())
		}
		if len(tasks) == 0 {
			continue
		}
		top = append(top, entity.FriendTopTask{
			Friend: friend,
			Task:   *tasks[0],
		})
	}
	return top, nil
}

func (fs *FriendsService) FriendTasks(ctx context.Context, uid uuid.UUID, friendName string) ([]*entity.Task, error) {
	friends, err := fs.Friends(ctx, uid)
	if err != nil {
		return nil, err
	}
	var friend *entity.Friend
	for i := range friends {
		if friends[i].Name == friendName {
			friend = &friends[i]
			break
		}
	}
	if friend == nil {
		return nil, errorvalues.ErrNotFriends
	}
	tasks, err := fs.tasksRepo.GetByUserID(ctx, friend.ID, friendTasksLimit, 0)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return RankTasks(tasks), nil
}
