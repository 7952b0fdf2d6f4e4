package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"Potluck/internal/pkg/util"
	"Potluck/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

var isoConverter = copier.TypeConverter{
	SrcType: time.Time{},
	DstType: copier.String,
	Fn: func(src interface{}) (interface{}, error) {
		t, ok := src.(time.Time)
		if !ok {
			return nil, fmt.Errorf("unexpected time type %T", src)
		}
		return util.ISOTime(t), nil
	},
}

var copyOption = copier.Option{Converters: []copier.TypeConverter{isoConverter}}

// Assembler 为结果集补齐作者资料与当前用户评分，并统一时间格式
type Assembler struct {
	userRepo   repository.UserRepo
	ratingRepo repository.RatingRepo
	media      MediaResolver
}

func NewAssembler(userRepo repository.UserRepo, ratingRepo repository.RatingRepo, media MediaResolver) *Assembler {
	if media == nil {
		media = PassthroughResolver()
	}
	return &Assembler{userRepo: userRepo, ratingRepo: ratingRepo, media: media}
}

// Recipes 列表结果，作者不存在或已注销的条目被丢弃
func (a *Assembler) Recipes(ctx context.Context, recipes []*model.Recipe, viewerID string) ([]*dto.RecipeDTO, error) {
	out := make([]*dto.RecipeDTO, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	authorIDs := make([]string, 0, len(recipes))
	recipeIDs := make([]string, 0, len(recipes))
	for _, r := range recipes {
		authorIDs = append(authorIDs, r.AuthorID)
		recipeIDs = append(recipeIDs, r.ID)
	}

	var authors map[string]*dto.UserDTO
	var myRatings map[string]int
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = a.Authors(gCtx, authorIDs)
		return err
	})
	if viewerID != "" {
		g.Go(func() error {
			var err error
			myRatings, err = a.MyRatings(gCtx, viewerID, recipeIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range recipes {
		author, ok := authors[r.AuthorID]
		if !ok {
			continue
		}
		item, err := a.recipe(r)
		if err != nil {
			return nil, err
		}
		item.Author = author
		if stars, ok := myRatings[r.ID]; ok {
			item.MyRating = util.PtrInt(stars)
		}
		out = append(out, item)
	}
	return out, nil
}

// Recipe 单条结果，作者缺失时照常返回，不附带 author
func (a *Assembler) Recipe(ctx context.Context, r *model.Recipe, viewerID string) (*dto.RecipeDTO, error) {
	item, err := a.recipe(r)
	if err != nil {
		return nil, err
	}
	authors, err := a.Authors(ctx, []string{r.AuthorID})
	if err != nil {
		return nil, err
	}
	item.Author = authors[r.AuthorID]
	if viewerID != "" {
		myRatings, err := a.MyRatings(ctx, viewerID, []string{r.ID})
		if err != nil {
			return nil, err
		}
		if stars, ok := myRatings[r.ID]; ok {
			item.MyRating = util.PtrInt(stars)
		}
	}
	return item, nil
}

// Authors 按去重后的作者 ID 批量点查，已注销用户不出现在结果中
func (a *Assembler) Authors(ctx context.Context, ids []string) (map[string]*dto.UserDTO, error) {
	users, err := a.userRepo.GetUsersByIDs(ctx, util.UniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	out := make(map[string]*dto.UserDTO, len(users))
	for _, u := range users {
		if u.IsDeleted() {
			continue
		}
		out[u.ID] = a.User(u)
	}
	return out, nil
}

// MyRatings 一次批量查询当前用户对多份食谱的评分
func (a *Assembler) MyRatings(ctx context.Context, userID string, recipeIDs []string) (map[string]int, error) {
	ratings, err := a.ratingRepo.GetRatings(ctx, userID, util.UniqueStrings(recipeIDs))
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	out := make(map[string]int, len(ratings))
	for _, r := range ratings {
		out[r.RecipeID] = r.Stars
	}
	return out, nil
}

func (a *Assembler) User(u *model.User) *dto.UserDTO {
	item := &dto.UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		FollowersCount:  max(u.FollowersCount, 0),
		FollowingCount:  max(u.FollowingCount, 0),
		PopularityScore: u.PopularityScore,
		CreatedAt:       util.ISOTime(u.CreatedAt),
		IsAdsFree:       u.IsAdsFree,
	}
	if u.PhotoURL != nil && *u.PhotoURL != "" {
		item.PhotoURL = util.PtrString(a.media.PublicURL(*u.PhotoURL))
	}
	return item
}

func (a *Assembler) Comment(c *model.Comment, author *dto.UserDTO) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		ParentID:  c.ParentID,
		CreatedAt: util.ISOTime(c.CreatedAt),
		Author:    author,
		Replies:   make([]*dto.CommentDTO, 0),
	}
}

func (a *Assembler) recipe(r *model.Recipe) (*dto.RecipeDTO, error) {
	item := &dto.RecipeDTO{}
	if err := copier.CopyWithOption(item, r, copyOption); err != nil {
		return nil, fmt.Errorf("copy recipe %s: %w", r.ID, err)
	}
	if item.Status == "" {
		item.Status = model.RecipeStatusPublished
	}
	item.MediaURLs = make([]string, 0, len(r.MediaURLs))
	for _, ref := range r.MediaURLs {
		item.MediaURLs = append(item.MediaURLs, a.media.PublicURL(ref))
	}
	if r.VideoURL != nil && *r.VideoURL != "" {
		item.VideoURL = util.PtrString(a.media.PublicURL(*r.VideoURL))
	}
	if item.Categories == nil {
		item.Categories = []string{}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}
