package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/teamup/teamup-server/models"
	"github.com/uptrace/bun"
)

type TeamRepo struct {
	db *bun.DB
}

func NewTeamRepo(db *bun.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// Get returns nil without error when the team does not exist; the service
// layer decides what "absent" means for each operation.
func (c *TeamRepo) Get(ctx context.Context, id int64) (*models.Team, error) {
	team := new(models.Team)

	err := c.db.NewSelect().Model(team).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return team, nil
}

func (c *TeamRepo) CountByOwner(ctx context.Context, userId int64) (int, error) {
	return c.db.NewSelect().Model((*models.Team)(nil)).Where("user_id = ?", userId).Count(ctx)
}

// CreateWithCaptain inserts the team row and its first membership in one
// transaction. Either both land or neither does.
func (c *TeamRepo) CreateWithCaptain(ctx context.Context, team *models.Team) (int64, error) {
	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(team).Returning("id").Exec(ctx); err != nil {
			return err
		}

		member := &models.TeamUser{
			TeamId:   team.Id,
			UserId:   team.UserId,
			JoinTime: team.CreateTime,
		}
		_, err := tx.NewInsert().Model(member).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	return team.Id, nil
}

func (c *TeamRepo) Update(ctx context.Context, team *models.Team) error {
	_, err := c.db.NewUpdate().Model(team).
		Column("name", "description", "max_num", "expire_time", "status", "password", "update_time").
		WherePK().Exec(ctx)
	return err
}

func (c *TeamRepo) SetCaptainAndRemoveMember(ctx context.Context, teamId, newCaptainId, quitterId int64) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().Model((*models.Team)(nil)).
			Set("user_id = ?", newCaptainId).
			Set("update_time = ?", time.Now()).
			Where("id = ?", teamId).Exec(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewDelete().Model((*models.TeamUser)(nil)).
			Where("team_id = ? AND user_id = ?", teamId, quitterId).Exec(ctx)
		return err
	})
}

// DeleteWithMembers removes every membership row before the team row, so a
// failed delete never leaves orphans.
func (c *TeamRepo) DeleteWithMembers(ctx context.Context, teamId int64) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.TeamUser)(nil)).Where("team_id = ?", teamId).Exec(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewDelete().Model((*models.Team)(nil)).Where("id = ?", teamId).Exec(ctx)
		return err
	})
}

// Find applies the listing filters. Expired teams are always excluded.
func (c *TeamRepo) Find(ctx context.Context, query models.TeamQuery, now time.Time) ([]models.Team, error) {
	teams := make([]models.Team, 0)

	q := c.db.NewSelect().Model(&teams)

	if query.Id > 0 {
		q = q.Where("id = ?", query.Id)
	}
	if len(query.IdList) > 0 {
		q = q.Where("id IN (?)", bun.In(query.IdList))
	}
	if query.Name != "" {
		q = q.Where("name LIKE ?", "%"+query.Name+"%")
	}
	if query.Description != "" {
		q = q.Where("description LIKE ?", "%"+query.Description+"%")
	}
	if query.SearchText != "" {
		search := "%" + query.SearchText + "%"
		q = q.WhereGroup(" AND ", func(qInner *bun.SelectQuery) *bun.SelectQuery {
			return qInner.WhereOr("name LIKE ?", search).WhereOr("description LIKE ?", search)
		})
	}
	if query.MaxNum > 0 {
		q = q.Where("max_num = ?", query.MaxNum)
	}
	if query.UserId > 0 {
		q = q.Where("user_id = ?", query.UserId)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}

	q = q.WhereGroup(" AND ", func(qInner *bun.SelectQuery) *bun.SelectQuery {
		return qInner.WhereOr("expire_time IS NULL").WhereOr("expire_time > ?", now)
	})

	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	return teams, nil
}
