package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForumCatalogSeeded(t *testing.T) {
	env := newTestEnv(t, 50, 3)

	forums, err := env.community.Forums(context.Background())
	require.NoError(t, err)
	require.Len(t, forums, 5)
	assert.Equal(t, "General", forums[0].Name)
}

func TestCreateAndListPosts(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	first, err := env.community.CreatePost(ctx, "ana@x.com", "general", "Hola", "Primer post")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.Timestamp)

	_, err = env.community.CreatePost(ctx, "ana@x.com", "sueno", "Siestas", "Otro foro")
	require.NoError(t, err)

	posts, err := env.community.ForumPosts(ctx, "general")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, first.ID, posts[0].ID)
}

func TestTodayCommentCountIgnoresOtherDays(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	for i := 0; i < 3; i++ {
		_, err := env.community.CreateComment(ctx, "ana@x.com", "p1", "hoy")
		require.NoError(t, err)
	}
	// One comment from yesterday, written straight to the sheet.
	yesterday := time.Now().AddDate(0, 0, -1).Format(time.RFC3339)
	require.NoError(t, env.doc.AppendRange(ctx, "Comentarios!A:E", [][]interface{}{
		{"c-ayer", "p1", "ana@x.com", "ayer", yesterday},
	}))

	count, err := env.community.TodayCommentCount(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDailyCommentQuota(t *testing.T) {
	env := newTestEnv(t, 50, 2)
	ctx := context.Background()
	env.register(t, "free@x.com", "F")
	env.register(t, "paid@x.com", "P")
	require.NoError(t, env.users.UpgradeToPremium(ctx, "paid@x.com"))

	for i := 0; i < 2; i++ {
		_, err := env.community.CreateComment(ctx, "free@x.com", "p1", "texto")
		require.NoError(t, err)
	}
	_, err := env.community.CreateComment(ctx, "free@x.com", "p1", "uno más")
	assert.ErrorIs(t, err, ErrDailyCommentLimitReached)

	// Premium users are not limited.
	for i := 0; i < 5; i++ {
		_, err := env.community.CreateComment(ctx, "paid@x.com", "p1", "texto")
		require.NoError(t, err)
	}
}

func TestPostCommentsFiltered(t *testing.T) {
	env := newTestEnv(t, 50, 10)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	c1, err := env.community.CreateComment(ctx, "ana@x.com", "p1", "uno")
	require.NoError(t, err)
	_, err = env.community.CreateComment(ctx, "ana@x.com", "p2", "dos")
	require.NoError(t, err)

	comments, err := env.community.PostComments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, c1.ID, comments[0].ID)
}

func TestCommunityUserInfo(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")
	require.NoError(t, env.users.UpgradeToPremium(ctx, "ana@x.com"))

	info, err := env.community.UserInfo(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", info.Name)
	assert.True(t, info.IsPremium)

	_, err = env.community.UserInfo(ctx, "nadie@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
