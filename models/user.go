package models

import (
	"encoding/json"
	"strings"
	"time"
)

const RoleAdmin = 1

type User struct {
	Id         int64 `bun:",pk,autoincrement"`
	Username   string
	AvatarUrl  string
	Gender     int
	Phone      string
	Email      string
	Password   string
	Tags       string
	Role       int
	CreateTime time.Time
	Teams      []Team `bun:"rel:m2m:team_users,join:User=Team"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TagList decodes the stored JSON tag collection. Storage order carries no
// meaning; callers that need set semantics deduplicate themselves.
func (u *User) TagList() ([]string, error) {
	if strings.TrimSpace(u.Tags) == "" {
		return nil, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(u.Tags), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
