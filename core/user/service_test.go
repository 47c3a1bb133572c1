package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/user"
	dummydb "github.com/diplomasi/admin/storage/database/dummy"
	testutil "github.com/diplomasi/admin/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewUserRepository(db)
	return user.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, repo, "Ahmed Ali", "ahmed@example.com", user.RoleLearner, user.StatusActive)

	_, err := svc.Create(ctx, user.UserData{Name: "Other", Email: "ahmed@example.com", Role: user.RoleLearner, Status: user.StatusActive})
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, map[string]string{"email": user.ErrEmailExists.Error()}, vErr.FieldMap())

	usr, err := svc.Create(ctx, user.UserData{Name: "Sara", Email: "sara@example.com", Role: user.RoleManager, Status: user.StatusActive})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.False(t, usr.CreatedAt.IsZero())

	got, err := svc.GetByEmail(ctx, " SARA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
}

func TestService_Update(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	ahmed := testutil.CreateUser(t, repo, "Ahmed Ali", "ahmed@example.com", user.RoleLearner, user.StatusActive, created)
	testutil.CreateUser(t, repo, "Sara", "sara@example.com", user.RoleLearner, user.StatusActive)

	_, err := svc.Update(ctx, ahmed.ID, user.UserData{Name: "Ahmed", Email: "sara@example.com", Role: user.RoleLearner, Status: user.StatusActive})
	assert.True(t, core.IsValidationError(err))

	// keeping its own email is fine
	usr, err := svc.Update(ctx, ahmed.ID, user.UserData{Name: "Ahmed", Email: "ahmed@example.com", Role: user.RoleSupport, Status: user.StatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", usr.Name)
	assert.Equal(t, user.RoleSupport, usr.Role)
	assert.Equal(t, user.StatusSuspended, usr.Status)
	assert.True(t, usr.CreatedAt.Equal(created))

	_, err = svc.Update(ctx, "lol", user.UserData{Name: "Ghost", Email: "ghost@example.com", Role: user.RoleLearner, Status: user.StatusActive})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_Query(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	testutil.CreateUser(t, repo, "أحمد علي", "ahmed@example.com", user.RoleLearner, user.StatusActive, now.Add(-3*time.Hour))
	testutil.CreateUser(t, repo, "Sara Hassan", "sara@example.com", user.RoleManager, user.StatusActive, now.Add(-2*time.Hour))
	testutil.CreateUser(t, repo, "Omar", "omar@diplomasi.app", user.RoleLearner, user.StatusSuspended, now.Add(-time.Hour))

	names := func(res catalog.Result) []string {
		out := make([]string, 0, len(res.Items))
		for _, r := range res.Items {
			out = append(out, r.(user.User).Name)
		}
		return out
	}

	tests := []struct {
		name  string
		query catalog.Query
		want  []string
	}{
		{name: "all, newest first", query: catalog.Query{}, want: []string{"Omar", "Sara Hassan", "أحمد علي"}},
		{name: "search name", query: catalog.NewQuery("أحمد", nil), want: []string{"أحمد علي"}},
		{name: "search email, any case", query: catalog.NewQuery("DIPLOMASI", nil), want: []string{"Omar"}},
		{name: "role filter", query: catalog.NewQuery("", map[string]string{"role": user.RoleLearner}), want: []string{"Omar", "أحمد علي"}},
		{name: "all bypasses filters", query: catalog.NewQuery("", map[string]string{"role": catalog.All, "status": catalog.All}), want: []string{"Omar", "Sara Hassan", "أحمد علي"}},
		{
			name:  "search and filters",
			query: catalog.NewQuery("a", map[string]string{"role": user.RoleLearner, "status": user.StatusActive}),
			want:  []string{"أحمد علي"},
		},
		{
			name:  "ordering",
			query: catalog.NewQuery("", nil, core.Ordering{Field: "name", Ascending: true}),
			want:  []string{"Omar", "Sara Hassan", "أحمد علي"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Query(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, 3, res.Total)
			assert.Equal(t, tt.want, names(res))
			assert.ElementsMatch(t, []string{user.RoleLearner, user.RoleManager}, res.Facets["role"])
		})
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	u1 := testutil.CreateUser(t, repo, "Ahmed", "ahmed@example.com", user.RoleLearner, user.StatusActive)
	u2 := testutil.CreateUser(t, repo, "Sara", "sara@example.com", user.RoleLearner, user.StatusActive)
	u3 := testutil.CreateUser(t, repo, "Omar", "omar@example.com", user.RoleLearner, user.StatusActive)

	require.NoError(t, svc.Delete(ctx, u1.ID, u3.ID, "unknown"))
	users, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, u2.ID, users[0].ID)
}

func TestService_Import(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Import(ctx,
		user.User{ID: "u1", Name: "أحمد علي", Email: "ahmed@example.com", Role: user.RoleLearner, Status: user.StatusActive, CreatedAt: created},
		user.User{ID: "u2", Name: "Sara", Email: "sara@example.com", Role: user.RoleManager, Status: user.StatusInactive, CreatedAt: created.Add(time.Hour)},
	))

	users, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[0].ID)
	assert.True(t, users[1].CreatedAt.Equal(created))

	usr, err := svc.GetByEmail(ctx, "AHMED@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", usr.ID)
}
