package users

import "context"

// UserRepo is the persistence boundary for registered users.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetLastLogin(ctx context.Context, id string) error
}
