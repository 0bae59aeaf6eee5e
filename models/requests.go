package models

import "time"

type TeamAddRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	MaxNum      int        `json:"maxNum"`
	ExpireTime  *time.Time `json:"expireTime"`
	Status      int        `json:"status"`
	Password    string     `json:"password"`
}

type TeamUpdateRequest struct {
	Id          int64      `json:"id" validate:"required"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	MaxNum      int        `json:"maxNum"`
	ExpireTime  *time.Time `json:"expireTime"`
	Status      int        `json:"status"`
	Password    string     `json:"password"`
}

type DeleteRequest struct {
	Id int64 `json:"id" validate:"required"`
}

type TeamJoinRequest struct {
	TeamId   int64  `json:"teamId" validate:"required"`
	Password string `json:"password"`
}

type TeamQuitRequest struct {
	TeamId int64 `json:"teamId" validate:"required"`
}

// TeamQuery narrows a listing. Zero values mean "no filter".
type TeamQuery struct {
	Id          int64   `query:"id"`
	IdList      []int64 `query:"idList"`
	Name        string  `query:"name"`
	Description string  `query:"description"`
	SearchText  string  `query:"searchText"`
	MaxNum      int     `query:"maxNum"`
	UserId      int64   `query:"userId"`
	Status      *int    `query:"status"`
}
