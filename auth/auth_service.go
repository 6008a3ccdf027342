package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/users"
)

// Service implements registration and login on top of the user store.
// Login is not a persistent server concept: a successful login only exists
// as the authenticated marker the handler writes into the session.
type Service struct {
	users users.UserRepo
}

func NewService(userRepo users.UserRepo) *Service {
	return &Service{users: userRepo}
}

// Registration is the signup form input.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates and creates a new user. All user-facing problems are
// collected into one ValidationError so the form can show every issue at
// once, the way the registration page lists them.
func (s *Service) Register(ctx context.Context, reg Registration) (*users.User, error) {
	var messages []string

	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	if reg.Username == "" {
		messages = append(messages, "Username is required.")
	}
	if reg.Email == "" || !strings.Contains(reg.Email, "@") {
		messages = append(messages, "A valid email address is required.")
	}
	if err := users.ValidatePasswordStrength(reg.Password); err != nil {
		messages = append(messages, "Password must be at least 8 characters long.")
	}
	if reg.Password != reg.ConfirmPassword {
		messages = append(messages, "Passwords do not match.")
	}

	if reg.Username != "" {
		if _, err := s.users.GetByUsername(ctx, reg.Username); err == nil {
			messages = append(messages, "Username already exists. Please choose another.")
		} else if !apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Wrapf(err, "register: lookup username")
		}
	}
	if reg.Email != "" {
		if _, err := s.users.GetByEmail(ctx, reg.Email); err == nil {
			messages = append(messages, "Email already exists. Please choose another.")
		} else if !apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Wrapf(err, "register: lookup email")
		}
	}

	if len(messages) > 0 {
		return nil, newValidationError(messages...)
	}

	hash, err := users.HashPassword(reg.Password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "register: hash password")
	}

	user := &users.User{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		DateJoined:   time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Wrapf(err, "register: create user")
	}

	log.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks the credentials and returns the matching user. The two
// failure messages mirror the login form: unknown username vs bad password.
func (s *Service) Login(ctx context.Context, username, password string) (*users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, newValidationError("Username and password are required.")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, newValidationError("User not found. Please check your username.")
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "login: lookup user")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, newValidationError("Invalid credentials. Please try again.")
	}

	if err := s.users.SetLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; last-login is advisory.
		log.Err(err).Str("user_id", user.ID).Msg("login: failed to record last login")
	}

	return user, nil
}
