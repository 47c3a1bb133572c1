package platform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core/form"
	"github.com/diplomasi/admin/core/platform"
	dummydb "github.com/diplomasi/admin/storage/database/dummy"
	testutil "github.com/diplomasi/admin/tests"
)

func TestService(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	svc := platform.NewService(dummydb.NewSettingsRepository(db))
	ctx := context.Background()

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultSettings, s)

	inMaintenance, err := svc.InMaintenance(ctx)
	require.NoError(t, err)
	assert.False(t, inMaintenance)
	allowed, err := svc.SignupAllowed(ctx)
	require.NoError(t, err)
	assert.True(t, allowed)

	// edit through the settings form, starting from the stored settings
	state, err := form.New(platform.Defaults, s)
	require.NoError(t, err)
	var data platform.SettingsData
	_, err = testutil.NewReducer().Submit(state, form.Values{
		"contactEmail":    " Help@Diplomasi.app ",
		"maintenanceMode": true,
		"allowSignup":     false,
	}, &data)
	require.NoError(t, err)

	s, err = svc.Update(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultSettings.SiteName, s.SiteName)
	assert.Equal(t, "help@diplomasi.app", s.ContactEmail)
	assert.False(t, s.UpdatedAt.IsZero())

	inMaintenance, err = svc.InMaintenance(ctx)
	require.NoError(t, err)
	assert.True(t, inMaintenance)
	allowed, err = svc.SignupAllowed(ctx)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSettingsForm(t *testing.T) {
	state, err := form.New(platform.Defaults, nil)
	require.NoError(t, err)

	var data platform.SettingsData
	state, err = testutil.NewReducer().Submit(state, form.Values{"siteName": "D", "contactEmail": "nope"}, &data)
	assert.Error(t, err)
	assert.False(t, state.Submitted)
	assert.Contains(t, state.Errors, "siteName")
	assert.Contains(t, state.Errors, "contactEmail")
}
