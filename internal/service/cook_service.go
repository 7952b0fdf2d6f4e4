package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/pagination"
	"Potluck/internal/pkg/util"
	"Potluck/internal/repository"
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	// RecommendedCooksScanLimit 统计作者发布数时最多扫描的已发布食谱数
	RecommendedCooksScanLimit = 2000
	// ProfileLookupChunk 按名字匹配作者时每批点查的用户数
	ProfileLookupChunk = 10
)

type CookService interface {
	Recommend(ctx context.Context, viewerID, query string, limit int) (*dto.ItemsDTO[*dto.CookDTO], error)
}

type cookServiceImpl struct {
	recipeRepo repository.RecipeRepo
	userRepo   repository.UserRepo
	followRepo repository.FollowRepo
	assembler  *Assembler
}

func NewCookService(
	recipeRepo repository.RecipeRepo,
	userRepo repository.UserRepo,
	followRepo repository.FollowRepo,
	assembler *Assembler,
) CookService {
	return &cookServiceImpl{
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		assembler:  assembler,
	}
}

type cookCandidate struct {
	authorID string
	count    int
}

// Recommend 按已发布食谱数排序推荐作者，query 同时匹配食谱标题与作者名
func (s *cookServiceImpl) Recommend(ctx context.Context, viewerID, query string, limit int) (*dto.ItemsDTO[*dto.CookDTO], error) {
	limit = pagination.ClampLimit(limit)
	query = util.NormalizeQuery(query)

	recipes, err := s.recipeRepo.FindRecipes(ctx, docstore.Query{
		Where: []docstore.Filter{publishedOnly},
		Limit: RecommendedCooksScanLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("scan recipes: %w", err)
	}

	counts := make(map[string]int)
	authorOrder := make([]string, 0)
	titleMatched := make(map[string]struct{})
	for _, r := range recipes {
		if r.AuthorID == "" {
			continue
		}
		if _, ok := counts[r.AuthorID]; !ok {
			authorOrder = append(authorOrder, r.AuthorID)
		}
		counts[r.AuthorID]++
		if query != "" && titleMatches(r, query) {
			titleMatched[r.AuthorID] = struct{}{}
		}
	}

	candidates := authorOrder
	if query != "" {
		nameMatched, err := s.matchNames(ctx, authorOrder, query)
		if err != nil {
			return nil, err
		}
		candidates = make([]string, 0, len(titleMatched)+len(nameMatched))
		for _, id := range authorOrder {
			_, byTitle := titleMatched[id]
			_, byName := nameMatched[id]
			if byTitle || byName {
				candidates = append(candidates, id)
			}
		}
	}

	ranked := make([]cookCandidate, 0, len(candidates))
	for _, id := range candidates {
		ranked = append(ranked, cookCandidate{authorID: id, count: counts[id]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].authorID < ranked[j].authorID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.authorID)
	}
	profiles, err := s.assembler.Authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	var following map[string]struct{}
	if viewerID != "" {
		followingIDs, err := s.followRepo.GetFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("load follows: %w", err)
		}
		following = make(map[string]struct{}, len(followingIDs))
		for _, id := range followingIDs {
			following[id] = struct{}{}
		}
	}

	items := make([]*dto.CookDTO, 0, len(ranked))
	for _, c := range ranked {
		profile, ok := profiles[c.authorID]
		if !ok {
			continue
		}
		item := &dto.CookDTO{Profile: profile, RecipesCount: c.count}
		if following != nil {
			_, isFollowing := following[c.authorID]
			item.IsFollowing = util.PtrBool(isFollowing)
		}
		items = append(items, item)
	}
	return &dto.ItemsDTO[*dto.CookDTO]{Items: items}, nil
}

// matchNames 分批点查作者资料，返回名字包含 query 且未注销的作者
func (s *cookServiceImpl) matchNames(ctx context.Context, authorIDs []string, query string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, chunk := range util.Chunk(authorIDs, ProfileLookupChunk) {
		users, err := s.userRepo.GetUsersByIDs(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		for _, u := range users {
			if u.IsDeleted() {
				continue
			}
			if strings.Contains(strings.ToLower(u.Name), query) {
				out[u.ID] = struct{}{}
			}
		}
	}
	return out, nil
}
