package service

import (
	"ClipHub/internal/apperr"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, st repository.Store, name string) *model.User {
	t.Helper()
	user := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func TestSaveVideo(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	svc := NewVideoService(st.Videos(), st.Playlists())
	alice := seedUser(t, st, "alice")
	ctx := context.Background()

	saved, err := svc.Save(ctx, alice.ID, &model.Video{VideoID: "v1", Title: "Heist", Duration: "2:05"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, alice.ID, saved.UserID)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = svc.Save(ctx, alice.ID, &model.Video{VideoID: "v1", Title: "Heist"})
	require.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "Video already saved")

	_, err = svc.Save(ctx, alice.ID, &model.Video{VideoID: "v2"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	_, err = svc.Save(ctx, alice.ID, &model.Video{Title: "No id"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestRemoveThenSaveAgain(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	svc := NewVideoService(st.Videos(), st.Playlists())
	alice := seedUser(t, st, "alice")
	ctx := context.Background()

	_, err := svc.Save(ctx, alice.ID, &model.Video{VideoID: "v1", Title: "Heist"})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, alice.ID, "v1"))

	assert.True(t, apperr.Is(svc.Remove(ctx, alice.ID, "v1"), apperr.KindNotFound))

	_, err = svc.Save(ctx, alice.ID, &model.Video{VideoID: "v1", Title: "Heist"})
	assert.NoError(t, err)
}

func TestRemovePullsFromPlaylists(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	svc := NewVideoService(st.Videos(), st.Playlists())
	alice := seedUser(t, st, "alice")
	ctx := context.Background()

	saved, err := svc.Save(ctx, alice.ID, &model.Video{VideoID: "v1", Title: "Heist"})
	require.NoError(t, err)
	playlist := &model.Playlist{Name: "Mine", UserID: alice.ID}
	require.NoError(t, st.Playlists().Create(ctx, playlist))
	_, err = st.Playlists().AddVideo(ctx, playlist.ID, saved.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, alice.ID, "v1"))
	got, err := st.Playlists().FindByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, got.VideoRefs)
}

func TestListSavedOnlyOwn(t *testing.T) {
	st := testutil.NewSQLiteStore(t)
	svc := NewVideoService(st.Videos(), st.Playlists())
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	ctx := context.Background()

	_, err := svc.Save(ctx, alice.ID, &model.Video{VideoID: "v1", Title: "One"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, alice.ID, &model.Video{VideoID: "v2", Title: "Two"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, bob.ID, &model.Video{VideoID: "v3", Title: "Three"})
	require.NoError(t, err)

	videos, err := svc.ListSaved(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "v2", videos[0].VideoID)
	assert.Equal(t, "v1", videos[1].VideoID)
}
