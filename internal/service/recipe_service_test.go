package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipeIDs(items []*dto.RecipeDTO) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestRecipeFeedOrderAndVisibility(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addUser(t, "gone", "Gone")
	f.deleteUser(t, "gone")

	f.addRecipe(t, "r1", "ana", "Pudim", 1, withPopularity(1))
	f.addRecipe(t, "r2", "ana", "Feijoada", 2, withPopularity(5))
	f.addRecipe(t, "r3", "ana", "Brigadeiro", 3, withPopularity(1))
	f.addRecipe(t, "r4", "ana", "Rascunho", 4, withPopularity(9), withStatus(model.RecipeStatusDraft))
	f.addRecipe(t, "r5", "gone", "Orfã", 5, withPopularity(8))

	list, err := f.recipeService().GetFeed(ctx, "", 10, "")
	require.NoError(t, err)
	// 热度相同按发布时间倒序；草稿与已注销作者的食谱不出现
	assert.Equal(t, []string{"r2", "r3", "r1"}, recipeIDs(list.Items))
	assert.False(t, list.HasMore)
	assert.Nil(t, list.NextCursor)
	require.NotNil(t, list.Items[0].Author)
	assert.Equal(t, "Ana", list.Items[0].Author.Name)
}

func TestRecipeSearchCombinesCategoryAndTag(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")

	f.addRecipe(t, "r1", "ana", "Bolo vegano", 1, withCategories("dessert"), withTags("vegan"))
	f.addRecipe(t, "r2", "ana", "Bolo comum", 2, withCategories("dessert"))
	f.addRecipe(t, "r3", "ana", "Sopa vegana", 3, withCategories("soup"), withTags("vegan"))
	f.addRecipe(t, "r4", "ana", "Bolo rascunho", 4, withCategories("dessert"), withTags("vegan"), withStatus(model.RecipeStatusDraft))
	f.addRecipe(t, "r5", "ana", "Torta vegana", 5, withCategories("dessert", "main"), withTags("quick", "vegan"))

	svc := f.recipeService()
	list, err := svc.Search(ctx, "", Filters{CategoryIDs: []string{"dessert"}, TagIDs: []string{"vegan"}}, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"r5", "r1"}, recipeIDs(list.Items))

	list, err = svc.Search(ctx, "", Filters{Query: "BOLO", CategoryIDs: []string{"dessert"}, TagIDs: []string{"vegan"}}, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, recipeIDs(list.Items))

	// 作者本人也看不到自己的草稿出现在搜索结果中
	list, err = svc.Search(ctx, "ana", Filters{TagIDs: []string{"vegan"}}, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"r5", "r3", "r1"}, recipeIDs(list.Items))
}

func TestRecipeSearchWithoutFiltersIsEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.addUser(t, "ana", "Ana")
	f.addRecipe(t, "r1", "ana", "Pudim", 1)

	list, err := f.recipeService().Search(context.Background(), "", Filters{}, 10, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.False(t, list.HasMore)
}

func TestRecipeSearchPagesWithoutGapsOrRepeats(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")

	for i := 0; i < 11; i++ {
		id := fmt.Sprintf("r%02d", i)
		// 同一分钟内多条，只能靠 _id 区分先后
		f.addRecipe(t, id, "ana", "Bolo "+id, i/3, withCategories("dessert"))
	}
	f.addRecipe(t, "other", "ana", "Sopa", 99, withCategories("soup"))

	all, err := f.recipeService().Search(ctx, "", Filters{CategoryIDs: []string{"dessert"}}, 50, "")
	require.NoError(t, err)
	want := recipeIDs(all.Items)
	require.Len(t, want, 11)

	svc := f.recipeService()
	got := make([]string, 0)
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		list, err := svc.Search(ctx, "", Filters{CategoryIDs: []string{"dessert"}}, 4, cursor)
		require.NoError(t, err)
		got = append(got, recipeIDs(list.Items)...)
		if !list.HasMore {
			assert.Nil(t, list.NextCursor)
			break
		}
		require.NotNil(t, list.NextCursor)
		cursor = *list.NextCursor
	}
	assert.Equal(t, want, got)
}

func TestRecipeSearchRecentWindow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")

	// 最旧的一条落在窗口之外
	f.addRecipe(t, "old", "ana", "Sopa perdida", 0)
	for i := 1; i <= RecentWindowSize; i++ {
		f.addRecipe(t, fmt.Sprintf("p%03d", i), "ana", fmt.Sprintf("Massa %d", i), i)
	}
	svc := f.recipeService()

	list, err := svc.Search(ctx, "", Filters{Query: "perdida"}, 10, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	list, err = svc.Search(ctx, "", Filters{Query: "massa"}, 3, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"p500", "p499", "p498"}, recipeIDs(list.Items))
	require.True(t, list.HasMore)

	list, err = svc.Search(ctx, "", Filters{Query: "massa"}, 3, *list.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"p497", "p496", "p495"}, recipeIDs(list.Items))

	// 窗口内找不到的游标从头开始
	list, err = svc.Search(ctx, "", Filters{Query: "massa"}, 2, "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"p500", "p499"}, recipeIDs(list.Items))
}

func TestRecipeCreateAndVariation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addUser(t, "bia", "Bia")
	svc := f.recipeService()

	_, err := svc.Create(ctx, "ana", &dto.RecipeCreateDTO{Title: "Bolo", Categories: []string{"unknown"}})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = svc.Create(ctx, "ana", &dto.RecipeCreateDTO{Title: "Bolo", Tags: []string{"unknown"}})
	assert.ErrorIs(t, err, ErrInvalidTag)

	ingredients, steps := "farinha", "misture"
	created, err := svc.Create(ctx, "ana", &dto.RecipeCreateDTO{
		Title:            "Bolo",
		Ingredients:      &ingredients,
		PreparationSteps: &steps,
		Categories:       []string{"dessert"},
	})
	require.NoError(t, err)
	assert.Equal(t, "farinha\n\nmisture", created.Description)
	assert.Equal(t, model.RecipeStatusPublished, created.Status)
	assert.Equal(t, []string{}, created.Tags)
	require.NotNil(t, created.Author)
	assert.Equal(t, "ana", created.Author.ID)

	draft, err := svc.Create(ctx, "ana", &dto.RecipeCreateDTO{Title: "Rascunho", Status: model.RecipeStatusDraft})
	require.NoError(t, err)

	variation, err := svc.CreateVariation(ctx, "bia", created.ID, &dto.RecipeCreateDTO{Title: "Bolo da Bia"})
	require.NoError(t, err)
	assert.True(t, variation.IsVariation)
	require.NotNil(t, variation.ParentRecipeID)
	assert.Equal(t, created.ID, *variation.ParentRecipeID)
	assert.Equal(t, model.RecipeStatusPublished, variation.Status)

	_, err = svc.CreateVariation(ctx, "bia", draft.ID, &dto.RecipeCreateDTO{Title: "x"})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = svc.CreateVariation(ctx, "ana", draft.ID, &dto.RecipeCreateDTO{Title: "x"})
	assert.ErrorIs(t, err, ErrVariationOfDraft)
	_, err = svc.CreateVariation(ctx, "ana", "missing", &dto.RecipeCreateDTO{Title: "x"})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeOwnershipAndDrafts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addUser(t, "bia", "Bia")
	f.addRecipe(t, "pub", "ana", "Bolo", 1)
	f.addRecipe(t, "draft", "ana", "Rascunho", 2, withStatus(model.RecipeStatusDraft))
	svc := f.recipeService()

	_, err := svc.GetByID(ctx, "bia", "draft")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = svc.GetByID(ctx, "", "draft")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	got, err := svc.GetByID(ctx, "ana", "draft")
	require.NoError(t, err)
	assert.Equal(t, model.RecipeStatusDraft, got.Status)

	title := "Bolo de fubá"
	_, err = svc.Update(ctx, "bia", "pub", &dto.RecipeUpdateDTO{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	updated, err := svc.Update(ctx, "ana", "pub", &dto.RecipeUpdateDTO{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	list, err := svc.Search(ctx, "", Filters{Query: "fubá"}, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pub"}, recipeIDs(list.Items))

	drafts, err := svc.GetByAuthor(ctx, "bia", "ana", model.RecipeStatusDraft, 10, "")
	require.NoError(t, err)
	assert.Empty(t, drafts.Items)
	drafts, err = svc.GetByAuthor(ctx, "ana", "ana", model.RecipeStatusDraft, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, recipeIDs(drafts.Items))
	published, err := svc.GetByAuthor(ctx, "", "ana", "", 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pub"}, recipeIDs(published.Items))

	assert.ErrorIs(t, svc.Delete(ctx, "bia", "pub"), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "ana", "pub"))
	_, err = svc.GetByID(ctx, "ana", "pub")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeGetByIDsKeepsOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	f.addRecipe(t, "a", "ana", "Bolo", 1, withCategories("dessert"))
	f.addRecipe(t, "b", "ana", "Sopa", 2, withCategories("soup"))
	f.addRecipe(t, "c", "ana", "Bolo de milho", 3, withCategories("dessert"))
	f.addRecipe(t, "d", "ana", "Rascunho", 4, withStatus(model.RecipeStatusDraft))
	svc := f.recipeService()

	items, err := svc.GetByIDs(ctx, "bia", []string{"c", "missing", "d", "a", "b", "a"}, Filters{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, recipeIDs(items))

	items, err = svc.GetByIDs(ctx, "bia", []string{"c", "a", "b"}, Filters{Query: "bolo", CategoryIDs: []string{"dessert"}}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, recipeIDs(items))
}
