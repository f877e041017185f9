package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kipko3ch/link-seav1/internal/models"
)

func TestThemeService_CRUD(t *testing.T) {
	db := setupTestDB(t)
	service := NewThemeService(db, testLogger())
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	ocean, err := service.Create(ctx, alice.ID, ThemeInput{Name: "Ocean", BackgroundColor: "#001f3f", TextColor: "#ffffff", AccentColor: "#39cccc"})
	require.NoError(t, err)
	assert.False(t, ocean.IsActive)

	t.Run("List Ordered", func(t *testing.T) {
		_, err := service.Create(ctx, alice.ID, ThemeInput{Name: "Forest"})
		require.NoError(t, err)

		themes, err := service.List(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, themes, 2)
		assert.Equal(t, "Ocean", themes[0].Name)
		assert.Equal(t, "Forest", themes[1].Name)

		none, err := service.List(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Name Required", func(t *testing.T) {
		_, err := service.Create(ctx, alice.ID, ThemeInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Coalesce Update", func(t *testing.T) {
		accent := "#ff851b"
		updated, err := service.Update(ctx, alice.ID, ocean.ID, ThemeUpdate{AccentColor: &accent})
		require.NoError(t, err)
		assert.Equal(t, "#ff851b", updated.AccentColor)
		assert.Equal(t, "#001f3f", updated.BackgroundColor)
		assert.Equal(t, "Ocean", updated.Name)
	})

	t.Run("Not Owner", func(t *testing.T) {
		name := "Stolen"
		_, err := service.Update(ctx, bob.ID, ocean.ID, ThemeUpdate{Name: &name})
		assert.ErrorIs(t, err, ErrThemeNotFound)
		assert.ErrorIs(t, service.Delete(ctx, bob.ID, ocean.ID), ErrThemeNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, alice.ID, ocean.ID))
		assert.ErrorIs(t, service.Delete(ctx, alice.ID, ocean.ID), ErrThemeNotFound)
	})
}

func TestThemeService_Activation(t *testing.T) {
	db := setupTestDB(t)
	service := NewThemeService(db, testLogger())
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	_, err := service.GetActive(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNoActiveTheme)

	a, err := service.Create(ctx, alice.ID, ThemeInput{Name: "A", IsActive: true})
	require.NoError(t, err)
	b, err := service.Create(ctx, alice.ID, ThemeInput{Name: "B"})
	require.NoError(t, err)
	bobTheme, err := service.Create(ctx, bob.ID, ThemeInput{Name: "Bob", IsActive: true})
	require.NoError(t, err)

	active, err := service.GetActive(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	t.Run("Switch Active", func(t *testing.T) {
		on := true
		_, err := service.Update(ctx, alice.ID, b.ID, ThemeUpdate{IsActive: &on})
		require.NoError(t, err)

		active, err := service.GetActive(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, active.ID)

		var count int64
		db.Model(&models.Theme{}).Where("user_id = ? AND is_active = ?", alice.ID, true).Count(&count)
		assert.Equal(t, int64(1), count)

		bobActive, err := service.GetActive(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, bobTheme.ID, bobActive.ID)
	})

	t.Run("Create Active Deactivates Others", func(t *testing.T) {
		c, err := service.Create(ctx, alice.ID, ThemeInput{Name: "C", IsActive: true})
		require.NoError(t, err)

		var count int64
		db.Model(&models.Theme{}).Where("user_id = ? AND is_active = ?", alice.ID, true).Count(&count)
		assert.Equal(t, int64(1), count)

		active, err := service.GetActive(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, active.ID)
	})

	t.Run("Concurrent Activation", func(t *testing.T) {
		themes, err := service.List(ctx, alice.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for _, th := range themes {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				on := true
				_, _ = service.Update(ctx, alice.ID, id, ThemeUpdate{IsActive: &on})
			}(th.ID)
		}
		wg.Wait()

		var count int64
		db.Model(&models.Theme{}).Where("user_id = ? AND is_active = ?", alice.ID, true).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Deactivate Leaves None", func(t *testing.T) {
		active, err := service.GetActive(ctx, alice.ID)
		require.NoError(t, err)
		off := false
		_, err = service.Update(ctx, alice.ID, active.ID, ThemeUpdate{IsActive: &off})
		require.NoError(t, err)

		_, err = service.GetActive(ctx, alice.ID)
		assert.ErrorIs(t, err, ErrNoActiveTheme)
	})

	t.Run("Deleting Active Promotes Nothing", func(t *testing.T) {
		on := true
		_, err := service.Update(ctx, alice.ID, a.ID, ThemeUpdate{IsActive: &on})
		require.NoError(t, err)
		require.NoError(t, service.Delete(ctx, alice.ID, a.ID))

		_, err = service.GetActive(ctx, alice.ID)
		assert.ErrorIs(t, err, ErrNoActiveTheme)
	})
}
