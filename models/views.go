package models

import "time"

// UserView is the privacy-redacted projection of a user handed to clients.
type UserView struct {
	Id         int64     `json:"id"`
	Username   string    `json:"username"`
	AvatarUrl  string    `json:"avatarUrl"`
	Gender     int       `json:"gender"`
	Tags       string    `json:"tags"`
	CreateTime time.Time `json:"createTime"`
}

func NewUserView(u *User) *UserView {
	return &UserView{
		Id:         u.Id,
		Username:   u.Username,
		AvatarUrl:  u.AvatarUrl,
		Gender:     u.Gender,
		Tags:       u.Tags,
		CreateTime: u.CreateTime,
	}
}

// TeamUserView joins a team with its creator's redacted record plus
// viewer-specific enrichment.
type TeamUserView struct {
	Id          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	MaxNum      int        `json:"maxNum"`
	ExpireTime  *time.Time `json:"expireTime"`
	UserId      int64      `json:"userId"`
	Status      TeamStatus `json:"status"`
	CreateTime  time.Time  `json:"createTime"`
	UpdateTime  time.Time  `json:"updateTime"`
	CreatedUser *UserView  `json:"createdUser"`
	HasJoin     bool       `json:"hasJoin"`
	HasJoinNum  int        `json:"hasJoinNum"`
}

func NewTeamUserView(t *Team) *TeamUserView {
	return &TeamUserView{
		Id:          t.Id,
		Name:        t.Name,
		Description: t.Description,
		MaxNum:      t.MaxNum,
		ExpireTime:  t.ExpireTime,
		UserId:      t.UserId,
		Status:      t.Status,
		CreateTime:  t.CreateTime,
		UpdateTime:  t.UpdateTime,
	}
}
