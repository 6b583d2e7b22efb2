package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
)

func newTestUser(t *testing.T, username string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(uuid.Nil, username, "secret123", username+" name", role)
	require.NoError(t, err)
	return u
}

func TestGormUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	user := newTestUser(t, "Alice", identity.RoleService)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("find by id and username", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, identity.RoleService, found.Role)
		assert.True(t, found.IsActive)
		assert.True(t, found.VerifyPassword("secret123"))

		byName, err := repo.FindByUsername(ctx, " ALICE ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, newTestUser(t, "alice", identity.RoleBar))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		exists, err := repo.ExistsByUsername(ctx, "Alice")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("update writes zero values", func(t *testing.T) {
		user.SetActive(false)
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)
	})

	t.Run("touch last active", func(t *testing.T) {
		require.NoError(t, repo.TouchLastActive(ctx, user.ID))
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.LastActiveAt)

		assert.ErrorIs(t, repo.TouchLastActive(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, newTestUser(t, "ghost", identity.RoleBar)), shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, user.ID))
		_, err := repo.FindByID(ctx, user.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	bob := newTestUser(t, "bob", identity.RoleBar)
	carol := newTestUser(t, "carol", identity.RoleService)
	dave := newTestUser(t, "dave", identity.RoleService)
	dave.SetActive(false)
	for _, u := range []*identity.User{bob, carol, dave} {
		require.NoError(t, repo.Create(ctx, u))
	}

	serviceRole := identity.RoleService
	all, err := repo.FindAll(ctx, identity.RosterFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bob", all[0].Username)

	service, err := repo.FindAll(ctx, identity.RosterFilter{Role: &serviceRole, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, service, 1)
	assert.Equal(t, carol.ID, service[0].ID)

	byKeyword, err := repo.FindAll(ctx, identity.RosterFilter{Search: "CAR"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)

	some, err := repo.FindByIDs(ctx, []uuid.UUID{bob.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, bob.ID, some[0].ID)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormUserRepository_DatabaseError(t *testing.T) {
	db, mock := newMockDatabase(t)
	defer db.Close()
	repo := NewGormUserRepository(db.DB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(assert.AnError)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	exists, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}
