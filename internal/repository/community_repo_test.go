package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/internal/model"
)

func TestGetForumsSeedsDefaults(t *testing.T) {
	doc := newDoc()
	repo := NewCommunityRepo(doc)

	forums, err := repo.GetForums(context.Background())
	require.NoError(t, err)
	require.Len(t, forums, 5)
	assert.Equal(t, "general", forums[0].ID)

	// Second read returns the persisted catalog without reseeding.
	again, err := repo.GetForums(context.Background())
	require.NoError(t, err)
	assert.Equal(t, forums, again)
	assert.Len(t, doc.Rows(forumSheet), 6)
}

func TestPostsFilteredByForum(t *testing.T) {
	doc := newDoc()
	repo := NewCommunityRepo(doc)
	ctx := context.Background()

	require.NoError(t, repo.CreatePost(ctx, &model.Post{ID: "p1", ForumID: "general", UserEmail: "a@x.com", Title: "Hola"}))
	require.NoError(t, repo.CreatePost(ctx, &model.Post{ID: "p2", ForumID: "sueno", UserEmail: "a@x.com", Title: "Siestas"}))

	posts, err := repo.GetPostsByForum(ctx, "general")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, 0, posts[0].Likes)
}

func TestCommentsByPostAndByUser(t *testing.T) {
	doc := newDoc()
	repo := NewCommunityRepo(doc)
	ctx := context.Background()

	require.NoError(t, repo.CreateComment(ctx, &model.Comment{ID: "c1", PostID: "p1", UserEmail: "a@x.com", Content: "1"}))
	require.NoError(t, repo.CreateComment(ctx, &model.Comment{ID: "c2", PostID: "p1", UserEmail: "b@x.com", Content: "2"}))
	require.NoError(t, repo.CreateComment(ctx, &model.Comment{ID: "c3", PostID: "p2", UserEmail: "a@x.com", Content: "3"}))

	byPost, err := repo.GetCommentsByPost(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, byPost, 2)

	byUser, err := repo.GetCommentsByUser(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}
