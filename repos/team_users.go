package repos

import (
	"context"

	"github.com/teamup/teamup-server/models"
	"github.com/uptrace/bun"
)

type TeamUserRepo struct {
	db *bun.DB
}

func NewTeamUserRepo(db *bun.DB) *TeamUserRepo {
	return &TeamUserRepo{db: db}
}

func (c *TeamUserRepo) CountByUser(ctx context.Context, userId int64) (int, error) {
	return c.db.NewSelect().Model((*models.TeamUser)(nil)).Where("user_id = ?", userId).Count(ctx)
}

func (c *TeamUserRepo) CountByTeam(ctx context.Context, teamId int64) (int, error) {
	return c.db.NewSelect().Model((*models.TeamUser)(nil)).Where("team_id = ?", teamId).Count(ctx)
}

func (c *TeamUserRepo) Exists(ctx context.Context, teamId, userId int64) (bool, error) {
	count, err := c.db.NewSelect().Model((*models.TeamUser)(nil)).
		Where("team_id = ? AND user_id = ?", teamId, userId).Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *TeamUserRepo) Add(ctx context.Context, member *models.TeamUser) error {
	_, err := c.db.NewInsert().Model(member).Exec(ctx)
	return err
}

func (c *TeamUserRepo) Remove(ctx context.Context, teamId, userId int64) error {
	_, err := c.db.NewDelete().Model((*models.TeamUser)(nil)).
		Where("team_id = ? AND user_id = ?", teamId, userId).Exec(ctx)
	return err
}

// EarliestTwo is the captain-succession query: the first row is the sitting
// captain's membership, the second is the heir.
func (c *TeamUserRepo) EarliestTwo(ctx context.Context, teamId int64) ([]models.TeamUser, error) {
	members := make([]models.TeamUser, 0, 2)

	err := c.db.NewSelect().Model(&members).
		Where("team_id = ?", teamId).
		Order("join_time ASC", "id ASC").
		Limit(2).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (c *TeamUserRepo) ListByUser(ctx context.Context, userId int64) ([]models.TeamUser, error) {
	members := make([]models.TeamUser, 0)

	err := c.db.NewSelect().Model(&members).Where("user_id = ?", userId).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (c *TeamUserRepo) ListByUserAndTeams(ctx context.Context, userId int64, teamIds []int64) ([]models.TeamUser, error) {
	members := make([]models.TeamUser, 0)

	err := c.db.NewSelect().Model(&members).
		Where("user_id = ?", userId).
		Where("team_id IN (?)", bun.In(teamIds)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (c *TeamUserRepo) ListByTeams(ctx context.Context, teamIds []int64) ([]models.TeamUser, error) {
	members := make([]models.TeamUser, 0)

	err := c.db.NewSelect().Model(&members).
		Where("team_id IN (?)", bun.In(teamIds)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return members, nil
}
