package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kipko3ch/link-seav1/internal/models"
)

func TestLinkService_Create(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, testLogger())
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "a@x.com")

	t.Run("Normalizes URL", func(t *testing.T) {
		link, err := service.Create(ctx, alice.ID, LinkInput{Title: "Site", URL: "example.com", Type: "Website"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", link.URL)
		assert.Equal(t, int64(0), link.ClickCount)
		assert.NotZero(t, link.ID)
		assert.False(t, link.CreatedAt.IsZero())
		assert.Equal(t, 0, link.Position)
	})

	t.Run("Keeps Scheme", func(t *testing.T) {
		link, err := service.Create(ctx, alice.ID, LinkInput{Title: "X", URL: "http://x.com", Type: "Website"})
		require.NoError(t, err)
		assert.Equal(t, "http://x.com", link.URL)
		assert.Equal(t, 1, link.Position)
	})

	t.Run("Unknown Type Passes Through", func(t *testing.T) {
		link, err := service.Create(ctx, alice.ID, LinkInput{Title: "Y", URL: "y.com", Type: "Myspace", Icon: "star"})
		require.NoError(t, err)
		assert.Equal(t, "Myspace", link.Type)
		assert.Equal(t, "star", link.Icon)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		cases := []LinkInput{
			{URL: "x.com", Type: "Website"},
			{Title: "X", Type: "Website"},
			{Title: "X", URL: "x.com"},
		}
		for _, in := range cases {
			_, err := service.Create(ctx, alice.ID, in)
			assert.ErrorIs(t, err, ErrValidation)
		}
	})
}

func TestLinkService_List(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, testLogger())
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&models.Link{
			UserID: alice.ID, Title: title, URL: "https://x.com", Type: "Website",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	require.NoError(t, db.Create(&models.Link{UserID: bob.ID, Title: "bob", URL: "https://b.com", Type: "Website"}).Error)

	links, err := service.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "third", links[0].Title)
	assert.Equal(t, "first", links[2].Title)

	empty, err := service.List(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}

func TestLinkService_Update(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, testLogger())
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	link, err := service.Create(ctx, alice.ID, LinkInput{Title: "Site", URL: "example.com", Type: "Website", Description: "desc"})
	require.NoError(t, err)

	t.Run("Coalesce", func(t *testing.T) {
		title := "Renamed"
		pos := 4
		updated, err := service.Update(ctx, alice.ID, link.ID, LinkUpdate{Title: &title, Position: &pos})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, 4, updated.Position)
		assert.Equal(t, "https://example.com", updated.URL)
		assert.Equal(t, "desc", updated.Description)
	})

	t.Run("Normalizes URL", func(t *testing.T) {
		url := "new.example.com"
		updated, err := service.Update(ctx, alice.ID, link.ID, LinkUpdate{URL: &url})
		require.NoError(t, err)
		assert.Equal(t, "https://new.example.com", updated.URL)
	})

	t.Run("Not Owner", func(t *testing.T) {
		title := "Hijack"
		_, err := service.Update(ctx, bob.ID, link.ID, LinkUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrLinkNotFound)

		var stored models.Link
		require.NoError(t, db.First(&stored, link.ID).Error)
		assert.Equal(t, "Renamed", stored.Title)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := service.Update(ctx, alice.ID, 9999, LinkUpdate{})
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("Empty Title", func(t *testing.T) {
		title := ""
		_, err := service.Update(ctx, alice.ID, link.ID, LinkUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Empty Type", func(t *testing.T) {
		linkType := "  "
		_, err := service.Update(ctx, alice.ID, link.ID, LinkUpdate{Type: &linkType})
		assert.ErrorIs(t, err, ErrValidation)

		var stored models.Link
		require.NoError(t, db.First(&stored, link.ID).Error)
		assert.Equal(t, "Website", stored.Type)
	})
}

func TestLinkService_Delete(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, testLogger())
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	link, err := service.Create(ctx, alice.ID, LinkInput{Title: "Site", URL: "example.com", Type: "Website"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Click{LinkID: link.ID, IPAddress: "1.1.1.1", ClickedAt: time.Now()}).Error)
	}

	t.Run("Not Owner Keeps Clicks", func(t *testing.T) {
		err := service.Delete(ctx, bob.ID, link.ID)
		assert.ErrorIs(t, err, ErrLinkNotFound)

		var clicks int64
		db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&clicks)
		assert.Equal(t, int64(3), clicks)
	})

	t.Run("Owner Removes Link And Clicks", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, alice.ID, link.ID))

		var clicks, links int64
		db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&clicks)
		db.Model(&models.Link{}).Where("id = ?", link.ID).Count(&links)
		assert.Zero(t, clicks)
		assert.Zero(t, links)
	})

	t.Run("Already Gone", func(t *testing.T) {
		err := service.Delete(ctx, alice.ID, link.ID)
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}
