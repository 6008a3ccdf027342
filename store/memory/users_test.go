package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/store/memory"
	"github.com/jrsteele09/go-lending-server/users"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	repo := memory.NewUserRepo()
	ctx := context.Background()

	user := &users.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "u1", byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepoUniqueness(t *testing.T) {
	repo := memory.NewUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &users.User{ID: "u1", Username: "alice", Email: "alice@example.com"}))

	err := repo.Create(ctx, &users.User{ID: "u2", Username: "alice", Email: "other@example.com"})
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	err = repo.Create(ctx, &users.User{ID: "u2", Username: "alice2", Email: "alice@example.com"})
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestUserRepoSetLastLogin(t *testing.T) {
	repo := memory.NewUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &users.User{ID: "u1", Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, repo.SetLastLogin(ctx, "u1"))

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.False(t, user.LastLogin.IsZero())

	require.ErrorIs(t, repo.SetLastLogin(ctx, "missing"), apperrors.ErrUserNotFound)
}
