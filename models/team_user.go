package models

import "time"

// TeamUser links one user to one team. A (TeamId, UserId) pair is unique;
// rows are created only by create/join and destroyed only by quit/dissolve.
type TeamUser struct {
	Id       int64 `bun:",pk,autoincrement"`
	UserId   int64
	TeamId   int64
	JoinTime time.Time
	Team     *Team `bun:"rel:belongs-to,join:team_id=id"`
	User     *User `bun:"rel:belongs-to,join:user_id=id"`
}
