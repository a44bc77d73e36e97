package service

import (
	"ClipHub/internal/apperr"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/internal/testutil"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playlistFixture struct {
	st    repository.Store
	svc   PlaylistService
	alice *model.User
	bob   *model.User
}

func newPlaylistFixture(t *testing.T) *playlistFixture {
	st := testutil.NewSQLiteStore(t)
	return &playlistFixture{
		st:    st,
		svc:   NewPlaylistService(st.Playlists(), st.Videos()),
		alice: seedUser(t, st, "alice"),
		bob:   seedUser(t, st, "bob"),
	}
}

func (f *playlistFixture) save(t *testing.T, owner *model.User, videoID string) *model.Video {
	t.Helper()
	video := &model.Video{VideoID: videoID, Title: "clip " + videoID, Thumbnail: videoID + ".jpg", Duration: "1:00", UserID: owner.ID}
	require.NoError(t, f.st.Videos().Create(context.Background(), video))
	return video
}

func TestCreateAndListPlaylists(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice.ID, "   ", "")
	require.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Contains(t, err.Error(), "Playlist name is required")

	first, err := f.svc.Create(ctx, f.alice.ID, "Drama", "tears")
	require.NoError(t, err)
	assert.Empty(t, first.Videos)
	second, err := f.svc.Create(ctx, f.alice.ID, "Action", "")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.bob.ID, "Bob's", "")
	require.NoError(t, err)

	video := f.save(t, f.alice, "v1")
	_, err = f.svc.AddVideo(ctx, first.Playlist.ID, f.alice.ID, "v1")
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Playlist.ID, list[0].Playlist.ID)
	assert.Empty(t, list[0].Videos)
	require.Len(t, list[1].Videos, 1)
	assert.Equal(t, video.ID, list[1].Videos[0].ID)
}

func TestPlaylistOwnershipChecks(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Mine", "")
	require.NoError(t, err)
	id := created.Playlist.ID
	f.save(t, f.bob, "v1")

	_, err = f.svc.Get(ctx, id, f.bob.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.Update(ctx, id, f.bob.ID, "Hijacked", "")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(f.svc.Delete(ctx, id, f.bob.ID), apperr.KindForbidden))
	_, err = f.svc.AddVideo(ctx, id, f.bob.ID, "v1")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.RemoveVideo(ctx, id, f.bob.ID, "v1")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	for _, missing := range []string{"999999", "not-an-id"} {
		_, err = f.svc.Get(ctx, missing, f.alice.ID)
		assert.True(t, apperr.Is(err, apperr.KindNotFound), missing)
		assert.True(t, apperr.Is(f.svc.Delete(ctx, missing, f.alice.ID), apperr.KindNotFound), missing)
	}

	got, err := f.svc.Get(ctx, id, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Playlist.Name)
}

func TestUpdatePlaylist(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Old", "desc")
	require.NoError(t, err)
	id := created.Playlist.ID

	updated, err := f.svc.Update(ctx, id, f.alice.ID, "New", "")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Playlist.Name)
	assert.Equal(t, "desc", updated.Playlist.Description)

	updated, err = f.svc.Update(ctx, id, f.alice.ID, "  ", "   ")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Playlist.Name)

	updated, err = f.svc.Update(ctx, id, f.alice.ID, "", "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", updated.Playlist.Description)
}

func TestDeletePlaylistKeepsVideos(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Mine", "")
	require.NoError(t, err)
	f.save(t, f.alice, "v1")
	_, err = f.svc.AddVideo(ctx, created.Playlist.ID, f.alice.ID, "v1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.Playlist.ID, f.alice.ID))
	_, err = f.svc.Get(ctx, created.Playlist.ID, f.alice.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.st.Videos().FindOwned(ctx, f.alice.ID, "v1")
	assert.NoError(t, err)
}

func TestAddAndRemovePlaylistVideos(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Mine", "")
	require.NoError(t, err)
	id := created.Playlist.ID

	_, err = f.svc.AddVideo(ctx, id, f.alice.ID, "never-saved")
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "Video not found")

	own := f.save(t, f.alice, "v1")
	f.save(t, f.bob, "v1")
	bobsOnly := f.save(t, f.bob, "v2")

	got, err := f.svc.AddVideo(ctx, id, f.alice.ID, "v1")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, own.ID, got.Videos[0].ID, "earliest saved copy is used")

	// 自己没收藏过，用别人收藏的那条
	got, err = f.svc.AddVideo(ctx, id, f.alice.ID, "v2")
	require.NoError(t, err)
	require.Len(t, got.Videos, 2)
	assert.Equal(t, bobsOnly.ID, got.Videos[1].ID)

	_, err = f.svc.AddVideo(ctx, id, f.alice.ID, "v1")
	require.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "Video already in playlist")

	got, err = f.svc.RemoveVideo(ctx, id, f.alice.ID, "v1")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, "v2", got.Videos[0].VideoID)

	// 不在歌单里也不报错
	got, err = f.svc.RemoveVideo(ctx, id, f.alice.ID, "v1")
	require.NoError(t, err)
	assert.Len(t, got.Videos, 1)

	_, err = f.svc.RemoveVideo(ctx, id, f.alice.ID, "never-saved")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPlaylistMembershipFollowsVideoID(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Mine", "")
	require.NoError(t, err)
	id := created.Playlist.ID

	bobs := f.save(t, f.bob, "vid")
	got, err := f.svc.AddVideo(ctx, id, f.alice.ID, "vid")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, bobs.ID, got.Videos[0].ID)

	// alice之后自己也收藏了同一个视频，歌单里仍然只算一个
	f.save(t, f.alice, "vid")
	_, err = f.svc.AddVideo(ctx, id, f.alice.ID, "vid")
	require.True(t, apperr.Is(err, apperr.KindConflict))

	got, err = f.svc.RemoveVideo(ctx, id, f.alice.ID, "vid")
	require.NoError(t, err)
	assert.Empty(t, got.Videos)

	got, err = f.svc.AddVideo(ctx, id, f.alice.ID, "vid")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, bobs.ID, got.Videos[0].ID)
}

func TestRemoveVideoPullsEveryCopyWithSameVideoID(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Mine", "")
	require.NoError(t, err)
	id := created.Playlist.ID

	first := f.save(t, f.bob, "vid")
	second := f.save(t, f.alice, "vid")
	other := f.save(t, f.alice, "keep")
	// 直接走仓库塞进两份同videoId的引用
	for _, ref := range []string{first.ID, other.ID, second.ID} {
		_, err := f.st.Playlists().AddVideo(ctx, id, ref)
		require.NoError(t, err)
	}

	_, err = f.svc.AddVideo(ctx, id, f.alice.ID, "vid")
	require.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := f.svc.RemoveVideo(ctx, id, f.alice.ID, "vid")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, "keep", got.Videos[0].VideoID)
}

func TestConcurrentAddVideoAddsOnce(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Race", "")
	require.NoError(t, err)
	f.save(t, f.alice, "v1")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AddVideo(ctx, created.Playlist.ID, f.alice.ID, "v1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperr.Is(err, apperr.KindConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 5, conflicts)
}

func TestPopulatedReadsSkipDanglingRefs(t *testing.T) {
	f := newPlaylistFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.alice.ID, "Mine", "")
	require.NoError(t, err)
	video := f.save(t, f.alice, "v1")
	_, err = f.svc.AddVideo(ctx, created.Playlist.ID, f.alice.ID, "v1")
	require.NoError(t, err)

	// 绕过service直接删视频，歌单里留下悬空引用
	_, err = f.st.Videos().DeleteOwned(ctx, f.alice.ID, "v1")
	require.NoError(t, err)
	raw, err := f.st.Playlists().FindByID(ctx, created.Playlist.ID)
	require.NoError(t, err)
	require.Equal(t, []string{video.ID}, raw.VideoRefs)

	got, err := f.svc.Get(ctx, created.Playlist.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Videos)
}
