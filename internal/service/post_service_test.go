package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func TestPostService_Create_RequiresFriends(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)
	_, err := env.posts.Create(user.ID, &dto.CreatePostRequest{Content: "hello"})
	assert.ErrorIs(t, err, ErrPublicSpaceLocked)
}

func TestPostService_Create_LimitedByFriendCount(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithUsername("poster"))
	testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)

	item, err := env.posts.Create(user.ID, &dto.CreatePostRequest{
		Content:   "first",
		MediaType: "image",
		MediaURL:  "https://cdn.example.com/a.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "first", item.Content)
	assert.Equal(t, "image", item.MediaType)
	require.NotNil(t, item.Author)
	assert.Equal(t, "poster", item.Author.Username)

	_, err = env.posts.Create(user.ID, &dto.CreatePostRequest{Content: "second"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestPostService_Feed(t *testing.T) {
	env := setupEnv(t)

	me := testutil.TestUser(t, env.db)
	friend := testutil.TestUser(t, env.db)
	stranger := testutil.TestUser(t, env.db)
	testutil.MakeFriends(t, env.db, me.ID, friend.ID)

	testutil.TestPost(t, env.db, me.ID)
	testutil.TestPost(t, env.db, friend.ID)
	testutil.TestPost(t, env.db, stranger.ID)

	items, total, err := env.posts.Feed(me.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, item := range items {
		assert.NotEqual(t, stranger.ID, item.Author.ID)
	}
}

func TestPostService_ToggleLike(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)
	post := testutil.TestPost(t, env.db, user.ID)

	resp, err := env.posts.ToggleLike(user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.LikeCount)

	resp, err = env.posts.ToggleLike(user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Equal(t, 0, resp.LikeCount)

	_, err = env.posts.ToggleLike(user.ID, 99999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Share_Idempotent(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)
	post := testutil.TestPost(t, env.db, user.ID)

	resp, err := env.posts.Share(user.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ShareCount)

	resp, err = env.posts.Share(user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, resp.Shared)
	assert.Equal(t, 1, resp.ShareCount)
}

func TestPostService_UploadMedia(t *testing.T) {
	env := setupEnv(t)

	resp, err := env.posts.UploadMedia(1, "clip.MP4", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "video", resp.MediaType)
	assert.Equal(t, env.uploader.url, resp.MediaURL)

	_, err = env.posts.UploadMedia(1, "script.exe", []byte("data"))
	assert.ErrorIs(t, err, ErrInvalidMediaType)

	_, err = env.posts.UploadMedia(1, "big.png", make([]byte, 2048))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Equal(t, 1, env.uploader.calls)

	env.uploader.err = errors.New("oss unavailable")
	_, err = env.posts.UploadMedia(1, "a.jpg", []byte("data"))
	assert.Error(t, err)
}

func TestMediaTypeOf(t *testing.T) {
	assert.Equal(t, "image", MediaTypeOf(".png"))
	assert.Equal(t, "video", MediaTypeOf(".webm"))
	assert.Equal(t, "video", MediaTypeOf(".MOV"))
}
