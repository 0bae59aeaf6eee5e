package services

import (
	"context"
	"sort"

	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/utils"
)

const maxMatchCount = 20

// MatchService ranks other users by tag similarity. It is read-only and
// stateless.
type MatchService struct {
	users UserStore
}

func NewMatchService(users UserStore) *MatchService {
	return &MatchService{users: users}
}

// MinDistance is the Levenshtein distance over whole tags: the minimum
// number of single-tag insertions, deletions and substitutions turning one
// tag sequence into the other.
func MinDistance(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min(prev[j-1], min(prev[j], curr[j-1])) + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type scoredUser struct {
	user     *models.User
	distance int
}

// MatchUsers returns up to k users ranked by ascending tag distance to the
// acting user. Ties keep the candidate pool order; the acting user is never
// part of the result.
func (s *MatchService) MatchUsers(ctx context.Context, actingUser *models.User, k int) ([]*models.UserView, error) {
	if k < 1 || k > maxMatchCount {
		return nil, utils.Invalid("match count must be between 1 and 20")
	}

	myTags, err := actingUser.TagList()
	if err != nil {
		return nil, utils.Invalid("acting user has malformed tags")
	}

	pool, err := s.users.ListWithTags(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]scoredUser, 0, len(pool))
	for i := range pool {
		candidate := &pool[i]
		if candidate.Id == actingUser.Id {
			continue
		}

		tags, err := candidate.TagList()
		if err != nil || len(tags) == 0 {
			continue
		}

		ranked = append(ranked, scoredUser{
			user:     candidate,
			distance: MinDistance(myTags, tags),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}

	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.user.Id
	}

	// The batched lookup returns records in arbitrary order; reorder them
	// back into ranked order.
	records, err := s.users.ListByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byId := make(map[int64]*models.User, len(records))
	for i := range records {
		byId[records[i].Id] = &records[i]
	}

	views := make([]*models.UserView, 0, len(ids))
	for _, id := range ids {
		if record, ok := byId[id]; ok {
			views = append(views, models.NewUserView(record))
		}
	}

	return views, nil
}

// SearchUsersByTags returns the users whose tag set contains every requested
// tag.
func (s *MatchService) SearchUsersByTags(ctx context.Context, tagNames []string) ([]*models.UserView, error) {
	if len(tagNames) == 0 {
		return nil, utils.Invalid("at least one tag is required")
	}

	pool, err := s.users.ListWithTags(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0)
	for i := range pool {
		candidate := &pool[i]

		tags, err := candidate.TagList()
		if err != nil || len(tags) == 0 {
			continue
		}

		tagSet := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			tagSet[tag] = struct{}{}
		}

		matched := true
		for _, wanted := range tagNames {
			if _, ok := tagSet[wanted]; !ok {
				matched = false
				break
			}
		}
		if matched {
			ids = append(ids, candidate.Id)
		}
	}

	records, err := s.users.ListByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byId := make(map[int64]*models.User, len(records))
	for i := range records {
		byId[records[i].Id] = &records[i]
	}

	views := make([]*models.UserView, 0, len(ids))
	for _, id := range ids {
		if record, ok := byId[id]; ok {
			views = append(views, models.NewUserView(record))
		}
	}

	return views, nil
}
