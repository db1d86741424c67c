package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrTaskNotFound = errors.New("task doesn't exists")
	ErrWrongOwner   = errors.New("record belongs to another user")

	ErrSelfRequest     = errors.New("friend request to oneself")
	ErrRequestNotFound = errors.New("friend request doesn't exists")
	ErrRequestDecided  = errors.New("friend request already decided")
	ErrNotFriends      = errors.New("users are not friends")
)
