package user

import (
	"context"
	"testing"

	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockUserRepo struct {
	users map[primitive.ObjectID]*User
}

func newMockUserRepo(users ...*User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[primitive.ObjectID]*User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error { return nil }

func (m *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error) {
	var out []User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int64) ([]User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) ListActive(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *User) error { return nil }

func (m *mockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (m *mockUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func TestDirectoryCapabilitiesFollowRoles(t *testing.T) {
	admin := &User{Username: "admin", Roles: []string{RoleAdmin}, Active: true}
	plain := &User{Username: "plain", Roles: []string{RoleUser}, Active: true}
	inactive := &User{Username: "gone", Roles: []string{RoleAdmin}, Active: false}
	dir := NewDirectory(newMockUserRepo(admin, plain, inactive))
	ctx := context.Background()

	ok, err := dir.HasCapability(ctx, admin.ID, dailyreport.CanReview)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.HasCapability(ctx, admin.ID, dailyreport.CanAdminister)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.HasCapability(ctx, plain.ID, dailyreport.CanReview)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = dir.HasCapability(ctx, inactive.ID, dailyreport.CanReview)
	require.NoError(t, err)
	assert.False(t, ok, "deactivated accounts lose their capabilities")

	ok, err = dir.HasCapability(ctx, primitive.NewObjectID(), dailyreport.CanReview)
	require.NoError(t, err)
	assert.False(t, ok, "unknown user is not an error, just no capability")
}

func TestDirectoryFindEmployee(t *testing.T) {
	named := &User{Username: "awali", FullName: "Ahmad Wali", Active: true}
	unnamed := &User{Username: "karim", Active: true}
	dir := NewDirectory(newMockUserRepo(named, unnamed))
	ctx := context.Background()

	e, err := dir.FindEmployee(ctx, named.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Wali", e.DisplayName)

	e, err = dir.FindEmployee(ctx, unnamed.ID)
	require.NoError(t, err)
	assert.Equal(t, "karim", e.DisplayName, "display name falls back to username")

	_, err = dir.FindEmployee(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, dailyreport.ErrEmployeeNotFound)
}

func TestDirectoryUsernamesByIDs(t *testing.T) {
	a := &User{Username: "awali", Active: true}
	b := &User{Username: "karim", Active: true}
	dir := NewDirectory(newMockUserRepo(a, b))

	names, err := dir.UsernamesByIDs(context.Background(), []string{
		a.ID.Hex(),
		b.ID.Hex(),
		"not-an-object-id",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		a.ID.Hex(): "awali",
		b.ID.Hex(): "karim",
	}, names)
}
