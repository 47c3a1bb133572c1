package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/form"
	testutil "github.com/diplomasi/admin/tests"
)

func TestNew(t *testing.T) {
	t.Run("create mode uses the defaults", func(t *testing.T) {
		s, err := form.New(course.LevelDefaults, nil)
		require.NoError(t, err)
		assert.False(t, s.Editing)
		assert.Equal(t, form.Values{"order": float64(1), "isActive": true}, s.Values)
		assert.False(t, s.IsDirty())
	})

	t.Run("edit mode is pre-filled from the entity", func(t *testing.T) {
		s, err := form.New(course.LevelDefaults, course.Level{ID: "l1", Title: "Basics", Order: 4})
		require.NoError(t, err)
		assert.True(t, s.Editing)
		assert.Equal(t, "Basics", s.Values["title"])
		assert.Equal(t, float64(4), s.Values["order"])
		assert.Equal(t, false, s.Values["isActive"])
	})

	t.Run("nil pointer entity means create mode", func(t *testing.T) {
		var lvl *course.Level
		s, err := form.New(course.LevelDefaults, lvl)
		require.NoError(t, err)
		assert.False(t, s.Editing)
	})
}

func TestReducer_SetFieldIsPure(t *testing.T) {
	r := testutil.NewReducer()
	s0, _ := form.New(course.LevelDefaults, nil)

	s1 := r.Reduce(s0, form.SetField{Name: "title", Value: "Level X"}, nil)
	assert.NotContains(t, s0.Values, "title")
	assert.Nil(t, s0.Dirty)
	assert.Equal(t, "Level X", s1.Values["title"])
	assert.True(t, s1.IsDirty())

	// back to the initial value
	s2 := r.Reduce(s1, form.SetField{Name: "order", Value: 1}, nil)
	assert.False(t, s2.Dirty["order"])

	s3 := r.Reduce(s2, form.Reset{}, nil)
	assert.Equal(t, s0.Values, s3.Values)
	assert.False(t, s3.IsDirty())
}

func TestReducer_SetFieldComparesJSONValues(t *testing.T) {
	r := testutil.NewReducer()
	s0, err := form.New(course.LevelDefaults, nil)
	require.NoError(t, err)

	// posted JSON numbers are float64 while the defaults are Go ints
	s1 := r.Reduce(s0, form.SetField{Name: "order", Value: float64(1)}, nil)
	assert.False(t, s1.IsDirty())
	s2 := r.Reduce(s1, form.SetField{Name: "isActive", Value: true}, nil)
	assert.False(t, s2.IsDirty())

	s3 := r.Reduce(s2, form.SetField{Name: "order", Value: float64(2)}, nil)
	assert.True(t, s3.Dirty["order"])
	assert.Equal(t, float64(2), s3.Values["order"])

	edit, err := form.New(course.LevelDefaults, course.Level{ID: "l1", Title: "Basics", Order: 4, IsActive: true})
	require.NoError(t, err)
	edit = r.Reduce(edit, form.SetField{Name: "order", Value: 4}, nil)
	assert.False(t, edit.IsDirty())
}

func TestReducer_Submit(t *testing.T) {
	r := testutil.NewReducer()

	tests := []struct {
		name    string
		changes form.Values
		wantErr map[string]string
	}{
		{
			name:    "valid",
			changes: form.Values{"title": "  Level X ", "order": 3},
		},
		{
			name:    "invalid fields",
			changes: form.Values{"title": "ab", "order": 0},
			wantErr: map[string]string{
				"title": "title must be at least 3 characters in length",
				"order": "order must be 1 or greater",
			},
		},
		{
			name:    "wrong type",
			changes: form.Values{"title": "Level X", "order": "third"},
			wantErr: map[string]string{"order": "invalid value"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := form.New(course.LevelDefaults, nil)
			var data course.LevelData
			s, err := r.Submit(s, tt.changes, &data)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, s.Submitted)
				assert.Equal(t, "Level X", data.Title)
				assert.Equal(t, 3, data.Order)
				require.NotNil(t, data.IsActive)
				assert.True(t, *data.IsActive)
				return
			}
			require.Error(t, err)
			assert.False(t, s.Submitted)
			assert.Equal(t, tt.wantErr, s.Errors)
			assert.True(t, core.IsValidationError(err))
			assert.Equal(t, form.ErrNotSubmitted.Error(), err.Error())
		})
	}
}

func TestReducer_editClearsFieldError(t *testing.T) {
	r := testutil.NewReducer()
	s, _ := form.New(course.LessonDefaults, nil)

	var data course.LessonData
	s, err := r.Submit(s, form.Values{"title": "Intro"}, &data)
	require.Error(t, err)
	assert.Equal(t, "video lessons require a video URL", s.Errors["videoUrl"])

	s = r.Reduce(s, form.SetField{Name: "videoUrl", Value: "https://videos.example.com/intro"}, nil)
	assert.NotContains(t, s.Errors, "videoUrl")

	s = r.Reduce(s, form.Submit{}, &data)
	assert.True(t, s.Submitted)
	assert.Empty(t, s.Errors)
}
