package memory

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

// UserRepo is an in-memory implementation of users.UserRepo.
type UserRepo struct {
	mu          sync.RWMutex
	users       map[string]*users.User // id -> user
	usernameIDs map[string]string      // username -> id
	emailIDs    map[string]string      // email -> id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:       make(map[string]*users.User),
		usernameIDs: make(map[string]string),
		emailIDs:    make(map[string]string),
	}
}

func (r *UserRepo) Create(_ context.Context, user *users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.usernameIDs[user.Username]; ok {
		return apperrors.ErrUsernameTaken
	}
	if _, ok := r.emailIDs[user.Email]; ok {
		return apperrors.ErrEmailTaken
	}

	stored := *user
	r.users[user.ID] = &stored
	r.usernameIDs[user.Username] = user.ID
	r.emailIDs[user.Email] = user.ID
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usernameIDs[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.get(id)
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emailIDs[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.get(id)
}

func (r *UserRepo) SetLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.LastLogin = time.Now()
	return nil
}

func (r *UserRepo) get(id string) (*users.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}
