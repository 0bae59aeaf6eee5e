package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/teamup/teamup-server/models"
)

type fakeLease struct {
	held       bool
	released   *int
	releaseErr error
}

func (l *fakeLease) Held() bool {
	return l.held
}

func (l *fakeLease) Release(ctx context.Context) error {
	if l.held {
		l.held = false
		if l.released != nil {
			*l.released++
		}
		return l.releaseErr
	}
	return nil
}

type fakeLocker struct {
	acquired   []string
	released   int
	fail       bool
	releaseErr error
	// onAcquire runs after the lease is granted, before the caller
	// proceeds. Tests use it to sneak a competing operation into the
	// window where a real contender would hold the lock first.
	onAcquire func(name string)
}

func (l *fakeLocker) Acquire(ctx context.Context, name string) (Lease, error) {
	if l.fail {
		return nil, errors.New("lock unavailable")
	}
	l.acquired = append(l.acquired, name)
	if l.onAcquire != nil {
		l.onAcquire(name)
	}
	return &fakeLease{held: true, released: &l.released, releaseErr: l.releaseErr}, nil
}

// fakeStore backs all three store interfaces with maps, mirroring the three
// logical tables.
type fakeStore struct {
	teamSeq   int64
	memberSeq int64
	teams     map[int64]*models.Team
	members   []*models.TeamUser
	users     map[int64]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams: make(map[int64]*models.Team),
		users: make(map[int64]*models.User),
	}
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, nil
	}
	copied := *team
	return &copied, nil
}

func (f *fakeStore) CountByOwner(ctx context.Context, userId int64) (int, error) {
	count := 0
	for _, team := range f.teams {
		if team.UserId == userId {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateWithCaptain(ctx context.Context, team *models.Team) (int64, error) {
	f.teamSeq++
	team.Id = f.teamSeq

	copied := *team
	f.teams[team.Id] = &copied

	f.memberSeq++
	f.members = append(f.members, &models.TeamUser{
		Id:       f.memberSeq,
		TeamId:   team.Id,
		UserId:   team.UserId,
		JoinTime: team.CreateTime,
	})

	return team.Id, nil
}

func (f *fakeStore) Update(ctx context.Context, team *models.Team) error {
	if _, ok := f.teams[team.Id]; !ok {
		return errors.New("team not found")
	}
	copied := *team
	f.teams[team.Id] = &copied
	return nil
}

func (f *fakeStore) SetCaptainAndRemoveMember(ctx context.Context, teamId, newCaptainId, quitterId int64) error {
	team, ok := f.teams[teamId]
	if !ok {
		return errors.New("team not found")
	}
	team.UserId = newCaptainId
	return f.Remove(ctx, teamId, quitterId)
}

func (f *fakeStore) DeleteWithMembers(ctx context.Context, teamId int64) error {
	delete(f.teams, teamId)

	kept := f.members[:0]
	for _, m := range f.members {
		if m.TeamId != teamId {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeStore) Find(ctx context.Context, query models.TeamQuery, now time.Time) ([]models.Team, error) {
	idSet := map[int64]struct{}{}
	for _, id := range query.IdList {
		idSet[id] = struct{}{}
	}

	result := make([]models.Team, 0)
	for _, team := range f.teams {
		if team.Expired(now) {
			continue
		}
		if query.Id > 0 && team.Id != query.Id {
			continue
		}
		if len(idSet) > 0 {
			if _, ok := idSet[team.Id]; !ok {
				continue
			}
		}
		if query.Name != "" && !strings.Contains(team.Name, query.Name) {
			continue
		}
		if query.Description != "" && !strings.Contains(team.Description, query.Description) {
			continue
		}
		if query.SearchText != "" && !strings.Contains(team.Name, query.SearchText) && !strings.Contains(team.Description, query.SearchText) {
			continue
		}
		if query.MaxNum > 0 && team.MaxNum != query.MaxNum {
			continue
		}
		if query.UserId > 0 && team.UserId != query.UserId {
			continue
		}
		if query.Status != nil && int(team.Status) != *query.Status {
			continue
		}
		result = append(result, *team)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (f *fakeStore) CountByUser(ctx context.Context, userId int64) (int, error) {
	count := 0
	for _, m := range f.members {
		if m.UserId == userId {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CountByTeam(ctx context.Context, teamId int64) (int, error) {
	count := 0
	for _, m := range f.members {
		if m.TeamId == teamId {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) Exists(ctx context.Context, teamId, userId int64) (bool, error) {
	for _, m := range f.members {
		if m.TeamId == teamId && m.UserId == userId {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Add(ctx context.Context, member *models.TeamUser) error {
	f.memberSeq++
	copied := *member
	copied.Id = f.memberSeq
	f.members = append(f.members, &copied)
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, teamId, userId int64) error {
	kept := f.members[:0]
	for _, m := range f.members {
		if m.TeamId == teamId && m.UserId == userId {
			continue
		}
		kept = append(kept, m)
	}
	f.members = kept
	return nil
}

func (f *fakeStore) EarliestTwo(ctx context.Context, teamId int64) ([]models.TeamUser, error) {
	rows := make([]models.TeamUser, 0)
	for _, m := range f.members {
		if m.TeamId == teamId {
			rows = append(rows, *m)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].JoinTime.Equal(rows[j].JoinTime) {
			return rows[i].Id < rows[j].Id
		}
		return rows[i].JoinTime.Before(rows[j].JoinTime)
	})

	if len(rows) > 2 {
		rows = rows[:2]
	}
	return rows, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userId int64) ([]models.TeamUser, error) {
	rows := make([]models.TeamUser, 0)
	for _, m := range f.members {
		if m.UserId == userId {
			rows = append(rows, *m)
		}
	}
	return rows, nil
}

func (f *fakeStore) ListByUserAndTeams(ctx context.Context, userId int64, teamIds []int64) ([]models.TeamUser, error) {
	idSet := map[int64]struct{}{}
	for _, id := range teamIds {
		idSet[id] = struct{}{}
	}

	rows := make([]models.TeamUser, 0)
	for _, m := range f.members {
		if m.UserId != userId {
			continue
		}
		if _, ok := idSet[m.TeamId]; ok {
			rows = append(rows, *m)
		}
	}
	return rows, nil
}

func (f *fakeStore) ListByTeams(ctx context.Context, teamIds []int64) ([]models.TeamUser, error) {
	idSet := map[int64]struct{}{}
	for _, id := range teamIds {
		idSet[id] = struct{}{}
	}

	rows := make([]models.TeamUser, 0)
	for _, m := range f.members {
		if _, ok := idSet[m.TeamId]; ok {
			rows = append(rows, *m)
		}
	}
	return rows, nil
}

// fakeUsers narrows fakeStore to the UserStore interface; Get on the
// underlying type already means "get team".
type fakeUsers struct {
	*fakeStore
}

func (f fakeUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	copied.Password = ""
	return &copied, nil
}

func (f *fakeStore) ListWithTags(ctx context.Context) ([]models.User, error) {
	rows := make([]models.User, 0)
	for _, u := range f.users {
		if u.Tags != "" {
			rows = append(rows, models.User{Id: u.Id, Tags: u.Tags})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Id < rows[j].Id })
	return rows, nil
}

func (f *fakeStore) ListByIds(ctx context.Context, ids []int64) ([]models.User, error) {
	rows := make([]models.User, 0, len(ids))
	// deliberately reversed: callers must not depend on batch lookup order
	for i := len(ids) - 1; i >= 0; i-- {
		if u, ok := f.users[ids[i]]; ok {
			copied := *u
			copied.Password = ""
			rows = append(rows, copied)
		}
	}
	return rows, nil
}
