package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/teamup/teamup-server/models"
	"github.com/uptrace/bun"
)

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (c *UserRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).ExcludeColumn("password").Where(`"user"."id" = ?`, id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// ListWithTags fetches the match candidate pool. Only id and tags come back;
// the full records are resolved after ranking.
func (c *UserRepo) ListWithTags(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)

	err := c.db.NewSelect().Model(&users).Column("id", "tags").
		Where("tags IS NOT NULL").Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (c *UserRepo) ListByIds(ctx context.Context, ids []int64) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	err := c.db.NewSelect().Model(&users).ExcludeColumn("password").
		Where("id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}
