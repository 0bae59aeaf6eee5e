package models

import "time"

type Team struct {
	Id          int64 `bun:",pk,autoincrement"`
	Name        string
	Description string
	MaxNum      int
	ExpireTime  *time.Time
	UserId      int64
	Password    string
	Status      TeamStatus
	CreateTime  time.Time
	UpdateTime  time.Time
	Users       []User `bun:"rel:m2m:team_users,join:Team=User"`
}

// Expired teams stay in the table but are invisible to discovery, joins and
// member counting.
func (t *Team) Expired(now time.Time) bool {
	return t.ExpireTime != nil && t.ExpireTime.Before(now)
}
