package services

import (
	"context"
	"time"

	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/utils"
)

// The services own the coordination rules and talk to storage through these
// narrow interfaces; repos provide the bun-backed implementations and tests
// provide in-memory fakes.

type TeamStore interface {
	Get(ctx context.Context, id int64) (*models.Team, error)
	CountByOwner(ctx context.Context, userId int64) (int, error)
	CreateWithCaptain(ctx context.Context, team *models.Team) (int64, error)
	Update(ctx context.Context, team *models.Team) error
	SetCaptainAndRemoveMember(ctx context.Context, teamId, newCaptainId, quitterId int64) error
	DeleteWithMembers(ctx context.Context, teamId int64) error
	Find(ctx context.Context, query models.TeamQuery, now time.Time) ([]models.Team, error)
}

type MemberStore interface {
	CountByUser(ctx context.Context, userId int64) (int, error)
	CountByTeam(ctx context.Context, teamId int64) (int, error)
	Exists(ctx context.Context, teamId, userId int64) (bool, error)
	Add(ctx context.Context, member *models.TeamUser) error
	Remove(ctx context.Context, teamId, userId int64) error
	EarliestTwo(ctx context.Context, teamId int64) ([]models.TeamUser, error)
	ListByUser(ctx context.Context, userId int64) ([]models.TeamUser, error)
	ListByUserAndTeams(ctx context.Context, userId int64, teamIds []int64) ([]models.TeamUser, error)
	ListByTeams(ctx context.Context, teamIds []int64) ([]models.TeamUser, error)
}

type UserStore interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	ListWithTags(ctx context.Context) ([]models.User, error)
	ListByIds(ctx context.Context, ids []int64) ([]models.User, error)
}

// Lease is a held lock. Release only gives the lock back when the caller
// still holds it, so deferred releases are safe on every error path.
type Lease interface {
	Held() bool
	Release(ctx context.Context) error
}

type Locker interface {
	Acquire(ctx context.Context, name string) (Lease, error)
}

type redisLocker struct {
	lock *utils.RedisLock
}

func NewRedisLocker(lock *utils.RedisLock) Locker {
	return redisLocker{lock: lock}
}

func (l redisLocker) Acquire(ctx context.Context, name string) (Lease, error) {
	lease, err := l.lock.Acquire(ctx, name)
	if err != nil {
		return nil, err
	}
	return lease, nil
}
