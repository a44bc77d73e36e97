// Package repotest 存储后端的通用契约测试，Mongo和SQL实现跑同一套用例
package repotest

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Harness 描述一个待测后端：NewStore每次返回一个空库，MissingID是格式合法但不存在的ID
type Harness struct {
	NewStore  func(t *testing.T) repository.Store
	MissingID string
}

func Run(t *testing.T, h Harness) {
	t.Run("Users", func(t *testing.T) { testUsers(t, h) })
	t.Run("Videos", func(t *testing.T) { testVideos(t, h) })
	t.Run("Playlists", func(t *testing.T) { testPlaylists(t, h) })
	t.Run("ConcurrentAddVideo", func(t *testing.T) { testConcurrentAddVideo(t, h) })
	t.Run("DeleteUserCascade", func(t *testing.T) { testDeleteUserCascade(t, h) })
	t.Run("SearchHistory", func(t *testing.T) { testSearchHistory(t, h) })
}

func createUser(t *testing.T, st repository.Store, name string) *model.User {
	t.Helper()
	user := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, st.Users().Create(context.Background(), user))
	require.NotEmpty(t, user.ID)
	return user
}

func createVideo(t *testing.T, st repository.Store, userID, videoID string) *model.Video {
	t.Helper()
	video := &model.Video{VideoID: videoID, Title: "clip " + videoID, Duration: "1:00", UserID: userID}
	require.NoError(t, st.Videos().Create(context.Background(), video))
	require.NotEmpty(t, video.ID)
	return video
}

func testUsers(t *testing.T, h Harness) {
	ctx := context.Background()
	st := h.NewStore(t)
	alice := createUser(t, st, "alice")
	assert.False(t, alice.CreatedAt.IsZero())

	err := st.Users().Create(ctx, &model.User{Username: "other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	err = st.Users().Create(ctx, &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	byEmail, err := st.Users().FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byName, err := st.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byID, err := st.Users().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = st.Users().FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.Users().FindByID(ctx, h.MissingID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.Users().FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testVideos(t *testing.T, h Harness) {
	ctx := context.Background()
	st := h.NewStore(t)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	first := createVideo(t, st, alice.ID, "vid-1")
	second := createVideo(t, st, alice.ID, "vid-2")
	assert.Equal(t, alice.ID, first.UserID)

	// 同一个用户不能重复收藏，别的用户可以
	err := st.Videos().Create(ctx, &model.Video{VideoID: "vid-1", Title: "dup", UserID: alice.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	bobCopy := createVideo(t, st, bob.ID, "vid-1")

	list, err := st.Videos().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	owned, err := st.Videos().FindOwned(ctx, bob.ID, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, bobCopy.ID, owned.ID)

	anyCopy, err := st.Videos().FindAnyByVideoID(ctx, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, anyCopy.ID, "earliest saved copy")

	found, err := st.Videos().FindByIDs(ctx, []string{first.ID, bobCopy.ID, h.MissingID, "bogus"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := st.Videos().FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	deleted, err := st.Videos().DeleteOwned(ctx, alice.ID, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)
	_, err = st.Videos().FindOwned(ctx, alice.ID, "vid-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.Videos().DeleteOwned(ctx, alice.ID, "vid-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// 取消收藏后可以再次收藏
	createVideo(t, st, alice.ID, "vid-1")
}

func testPlaylists(t *testing.T, h Harness) {
	ctx := context.Background()
	st := h.NewStore(t)
	alice := createUser(t, st, "alice")
	video := createVideo(t, st, alice.ID, "vid-1")
	other := createVideo(t, st, alice.ID, "vid-2")

	older := &model.Playlist{Name: "Drama", Description: "tears", UserID: alice.ID}
	require.NoError(t, st.Playlists().Create(ctx, older))
	newer := &model.Playlist{Name: "Action", UserID: alice.ID}
	require.NoError(t, st.Playlists().Create(ctx, newer))
	assert.Empty(t, newer.VideoRefs)

	added, err := st.Playlists().AddVideo(ctx, older.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = st.Playlists().AddVideo(ctx, older.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = st.Playlists().AddVideo(ctx, older.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, added, "membership is a set")

	_, err = st.Playlists().AddVideo(ctx, h.MissingID, video.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := st.Playlists().FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{video.ID, other.ID}, got.VideoRefs, "insertion order")
	assert.Equal(t, alice.ID, got.UserID)

	list, err := st.Playlists().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	name := "Melodrama"
	updated, err := st.Playlists().Update(ctx, older.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Melodrama", updated.Name)
	assert.Equal(t, "tears", updated.Description)
	assert.Len(t, updated.VideoRefs, 2)
	_, err = st.Playlists().Update(ctx, h.MissingID, &name, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	removed, err := st.Playlists().RemoveVideo(ctx, older.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = st.Playlists().RemoveVideo(ctx, older.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, st.Playlists().PullVideo(ctx, other.ID))
	got, err = st.Playlists().FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Empty(t, got.VideoRefs)

	require.NoError(t, st.Playlists().Delete(ctx, older.ID))
	_, err = st.Playlists().FindByID(ctx, older.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, st.Playlists().Delete(ctx, older.ID), repository.ErrNotFound)

	// 删除歌单不影响视频
	_, err = st.Videos().FindOwned(ctx, alice.ID, "vid-1")
	assert.NoError(t, err)
}

func testConcurrentAddVideo(t *testing.T, h Harness) {
	ctx := context.Background()
	st := h.NewStore(t)
	alice := createUser(t, st, "alice")
	video := createVideo(t, st, alice.ID, "vid-1")
	playlist := &model.Playlist{Name: "Race", UserID: alice.ID}
	require.NoError(t, st.Playlists().Create(ctx, playlist))

	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := st.Playlists().AddVideo(ctx, playlist.ID, video.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, added)
	got, err := st.Playlists().FindByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{video.ID}, got.VideoRefs)
}

func testDeleteUserCascade(t *testing.T, h Harness) {
	ctx := context.Background()
	st := h.NewStore(t)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	aliceVideo := createVideo(t, st, alice.ID, "vid-1")
	bobVideo := createVideo(t, st, bob.ID, "vid-2")

	alicePlaylist := &model.Playlist{Name: "Mine", UserID: alice.ID}
	require.NoError(t, st.Playlists().Create(ctx, alicePlaylist))
	bobPlaylist := &model.Playlist{Name: "Shared", UserID: bob.ID}
	require.NoError(t, st.Playlists().Create(ctx, bobPlaylist))
	_, err := st.Playlists().AddVideo(ctx, bobPlaylist.ID, aliceVideo.ID)
	require.NoError(t, err)
	_, err = st.Playlists().AddVideo(ctx, bobPlaylist.ID, bobVideo.ID)
	require.NoError(t, err)

	require.NoError(t, st.DeleteUserCascade(ctx, alice.ID))

	_, err = st.Users().FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.Playlists().FindByID(ctx, alicePlaylist.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	videos, err := st.Videos().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, videos)

	got, err := st.Playlists().FindByID(ctx, bobPlaylist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bobVideo.ID}, got.VideoRefs)

	assert.ErrorIs(t, st.DeleteUserCascade(ctx, alice.ID), repository.ErrNotFound)
}

func testSearchHistory(t *testing.T, h Harness) {
	st := h.NewStore(t)
	entry := &model.SearchHistory{Query: "heist"}
	require.NoError(t, st.Searches().Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}
