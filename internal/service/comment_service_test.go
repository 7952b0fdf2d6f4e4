package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"Potluck/internal/pkg/consts"
	"Potluck/internal/repository"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestGetThreadsBuildsNestedTree(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addUser(t, "bia", "Bia")
	f.addRecipe(t, "r1", "ana", "Bolo", 0)

	f.addComment(t, "A", "r1", "ana", nil, 1)
	f.addComment(t, "B", "r1", "bia", ptr("A"), 2)
	f.addComment(t, "C", "r1", "ana", ptr("B"), 3)
	f.addComment(t, "D", "r1", "bia", ptr("A"), 4)
	f.addComment(t, "E", "r1", "bia", nil, 5)

	list, err := f.commentService().GetThreads(ctx, "", "r1", 10, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.False(t, list.HasMore)

	// 根评论按时间倒序
	e, a := list.Items[0], list.Items[1]
	assert.Equal(t, "E", e.ID)
	assert.Equal(t, 0, e.RepliesCount)
	assert.Empty(t, e.Replies)

	assert.Equal(t, "A", a.ID)
	assert.Equal(t, 2, a.RepliesCount)
	require.Len(t, a.Replies, 2)
	// 回复按时间正序
	assert.Equal(t, "B", a.Replies[0].ID)
	assert.Equal(t, "D", a.Replies[1].ID)

	b := a.Replies[0]
	assert.Equal(t, 1, b.RepliesCount)
	require.Len(t, b.Replies, 1)
	assert.Equal(t, "C", b.Replies[0].ID)
	assert.Equal(t, 0, b.Replies[0].RepliesCount)
	require.NotNil(t, b.Author)
	assert.Equal(t, "Bia", b.Author.Name)
}

func TestGetThreadsPagesRootsOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addRecipe(t, "r1", "ana", "Bolo", 0)
	for i := 0; i < 5; i++ {
		root := fmt.Sprintf("root%d", i)
		f.addComment(t, root, "r1", "ana", nil, i+1)
		f.addComment(t, root+"-reply", "r1", "ana", ptr(root), i+10)
	}
	svc := f.commentService()

	first, err := svc.GetThreads(ctx, "", "r1", 2, "")
	require.NoError(t, err)
	require.True(t, first.HasMore)
	assert.Equal(t, "root4", first.Items[0].ID)
	assert.Equal(t, "root3", first.Items[1].ID)
	assert.Equal(t, 1, first.Items[0].RepliesCount)

	second, err := svc.GetThreads(ctx, "", "r1", 2, *first.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, "root2", second.Items[0].ID)
	assert.Equal(t, "root1", second.Items[1].ID)

	third, err := svc.GetThreads(ctx, "", "r1", 2, *second.NextCursor)
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Equal(t, "root0", third.Items[0].ID)
	assert.False(t, third.HasMore)
	assert.Nil(t, third.NextCursor)
}

func TestGetThreadsExpandsMoreParentsThanOneChunk(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addRecipe(t, "r1", "ana", "Bolo", 0)

	roots := repository.ReplyChunkSize + 7
	for i := 0; i < roots; i++ {
		root := fmt.Sprintf("root%02d", i)
		f.addComment(t, root, "r1", "ana", nil, i)
		f.addComment(t, root+"-a", "r1", "ana", ptr(root), 100+i)
		f.addComment(t, root+"-a-b", "r1", "ana", ptr(root+"-a"), 200+i)
	}

	list, err := f.commentService().GetThreads(ctx, "", "r1", 50, "")
	require.NoError(t, err)
	require.Len(t, list.Items, roots)
	for _, item := range list.Items {
		require.Len(t, item.Replies, 1, item.ID)
		require.Len(t, item.Replies[0].Replies, 1, item.ID)
		assert.Equal(t, item.ID+"-a-b", item.Replies[0].Replies[0].ID)
	}
}

func TestGetThreadsKeepsNodesOfDeletedAuthors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addUser(t, "gone", "Gone")
	f.deleteUser(t, "gone")
	f.addRecipe(t, "r1", "ana", "Bolo", 0)
	f.addComment(t, "A", "r1", "gone", nil, 1)
	f.addComment(t, "B", "r1", "ana", ptr("A"), 2)

	list, err := f.commentService().GetThreads(ctx, "", "r1", 10, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Nil(t, list.Items[0].Author)
	require.Len(t, list.Items[0].Replies, 1)
	assert.NotNil(t, list.Items[0].Replies[0].Author)
}

func TestGetThreadsHidesDraftRecipes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addRecipe(t, "draft", "ana", "Rascunho", 0, withStatus(model.RecipeStatusDraft))
	svc := f.commentService()

	_, err := svc.GetThreads(ctx, "bia", "draft", 10, "")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = svc.GetThreads(ctx, "", "missing", 10, "")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	list, err := svc.GetThreads(ctx, "ana", "draft", 10, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreateComment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addRecipe(t, "r1", "ana", "Bolo", 0)
	f.addRecipe(t, "r2", "ana", "Sopa", 1)
	svc := f.commentService()

	_, err := svc.CreateComment(ctx, "ana", "r1", &dto.CommentCreateDTO{Text: "   "})
	assert.ErrorIs(t, err, ErrParamInvalid)

	root, err := svc.CreateComment(ctx, "ana", "r1", &dto.CommentCreateDTO{Text: " Delicioso! "})
	require.NoError(t, err)
	assert.Equal(t, "Delicioso!", root.Text)
	assert.Nil(t, root.ParentID)
	require.NotNil(t, root.Author)

	reply, err := svc.CreateComment(ctx, "ana", "r1", &dto.CommentCreateDTO{Text: "Obrigada", ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	// 父评论属于另一份食谱
	_, err = svc.CreateComment(ctx, "ana", "r2", &dto.CommentCreateDTO{Text: "x", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)
	_, err = svc.CreateComment(ctx, "ana", "r1", &dto.CommentCreateDTO{Text: "x", ParentID: ptr("missing")})
	assert.ErrorIs(t, err, ErrInvalidParent)
	_, err = svc.CreateComment(ctx, "ana", "missing", &dto.CommentCreateDTO{Text: "x"})
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	list, err := svc.GetThreads(ctx, "", "r1", 10, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Items[0].RepliesCount)
	assert.Equal(t, []string{consts.ActivityCommentAdded, consts.ActivityCommentAdded}, f.publisher.types())
}
