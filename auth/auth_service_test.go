package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-lending-server/auth"
	"github.com/jrsteele09/go-lending-server/store/memory"
	"github.com/jrsteele09/go-lending-server/users"
)

const (
	testUsername = "alice"
	testEmail    = "alice@example.com"
	testPassword = "password123"
)

func setupAuthService(t *testing.T) (*auth.Service, users.UserRepo) {
	t.Helper()
	repo := memory.NewUserRepo()
	return auth.NewService(repo), repo
}

func registerTestUser(t *testing.T, service *auth.Service) *users.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.Registration{
		Username:        testUsername,
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return user
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var vErr *auth.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Messages
}

func TestRegisterSuccess(t *testing.T) {
	service, repo := setupAuthService(t)

	user := registerTestUser(t, service)
	require.NotEmpty(t, user.ID)
	require.Equal(t, testUsername, user.Username)
	require.Equal(t, testEmail, user.Email)
	require.NotEqual(t, testPassword, user.PasswordHash)

	stored, err := repo.GetByUsername(context.Background(), testUsername)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestRegisterCollectsAllProblems(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(context.Background(), auth.Registration{
		Username:        "",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
	})

	messages := validationMessages(t, err)
	require.Contains(t, messages, "Username is required.")
	require.Contains(t, messages, "A valid email address is required.")
	require.Contains(t, messages, "Password must be at least 8 characters long.")
	require.Contains(t, messages, "Passwords do not match.")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _ := setupAuthService(t)
	registerTestUser(t, service)

	_, err := service.Register(context.Background(), auth.Registration{
		Username:        testUsername,
		Email:           "other@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.Contains(t, validationMessages(t, err), "Username already exists. Please choose another.")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := setupAuthService(t)
	registerTestUser(t, service)

	_, err := service.Register(context.Background(), auth.Registration{
		Username:        "bob",
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.Contains(t, validationMessages(t, err), "Email already exists. Please choose another.")
}

func TestLoginSuccess(t *testing.T) {
	service, repo := setupAuthService(t)
	registered := registerTestUser(t, service)

	user, err := service.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	stored, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.False(t, stored.LastLogin.IsZero())
}

func TestLoginUnknownUser(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Login(context.Background(), "nobody", testPassword)
	require.Contains(t, validationMessages(t, err), "User not found. Please check your username.")
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := setupAuthService(t)
	registerTestUser(t, service)

	_, err := service.Login(context.Background(), testUsername, "wrong-password")
	require.Contains(t, validationMessages(t, err), "Invalid credentials. Please try again.")
}

func TestLoginMissingFields(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Login(context.Background(), "", "")
	require.Contains(t, validationMessages(t, err), "Username and password are required.")
}
