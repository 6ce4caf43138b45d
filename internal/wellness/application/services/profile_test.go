package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()
	repo := newMemProfiles()
	fallback := domain.DefaultUserProfile()
	svc := NewProfileService(repo, fallback, testLogger())

	t.Run("missing profile is defaulted", func(t *testing.T) {
		p, status := svc.Get(ctx, "u1")
		assert.Equal(t, domain.StatusDefaulted, status)
		assert.Equal(t, fallback, p)
	})

	t.Run("stored profile is measured", func(t *testing.T) {
		stored := domain.DefaultUserProfile()
		stored.Role = domain.RoleStudent
		repo.data["u2"] = stored

		p, status := svc.Get(ctx, "u2")
		assert.Equal(t, domain.StatusMeasured, status)
		assert.Equal(t, domain.RoleStudent, p.Role)
	})

	t.Run("read failure falls back", func(t *testing.T) {
		failing := NewProfileService(&memProfiles{findErr: errBackend}, fallback, testLogger())
		p, status := failing.Get(ctx, "u3")
		assert.Equal(t, domain.StatusUnavailable, status)
		assert.Equal(t, fallback, p)
	})
}

func TestProfileService_Save(t *testing.T) {
	ctx := context.Background()
	repo := newMemProfiles()
	svc := NewProfileService(repo, domain.DefaultUserProfile(), testLogger())

	invalid := domain.DefaultUserProfile()
	invalid.Role = domain.Role("astronaut")
	err := svc.Save(ctx, "u1", invalid)
	require.ErrorIs(t, err, domain.ErrInvalidProfile)
	assert.Empty(t, repo.data)

	valid := domain.DefaultUserProfile()
	valid.Name = "Ada"
	require.NoError(t, svc.Save(ctx, "u1", valid))
	assert.Equal(t, "Ada", repo.data["u1"].Name)
}
