package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/utils"
)

const (
	maxTeamNameLen        = 20
	maxTeamDescriptionLen = 512
	maxTeamPasswordLen    = 32
	maxTeamMembers        = 20
)

// validateTeamFields applies the shared field rules for both the create and
// update paths and returns the decoded status on success.
func validateTeamFields(name, description string, maxNum, statusValue int, password string, expireTime *time.Time, now time.Time) (models.TeamStatus, error) {
	if maxNum < 1 || maxNum > maxTeamMembers {
		return 0, utils.Invalid("team size must be between 1 and 20")
	}

	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > maxTeamNameLen {
		return 0, utils.Invalid("team name must be 1 to 20 characters")
	}

	if description != "" && utf8.RuneCountInString(description) > maxTeamDescriptionLen {
		return 0, utils.Invalid("team description is too long")
	}

	status, ok := models.ParseTeamStatus(statusValue)
	if !ok {
		return 0, utils.Invalid("unknown team status")
	}

	if status == models.TeamStatusSecret {
		if strings.TrimSpace(password) == "" || utf8.RuneCountInString(password) > maxTeamPasswordLen {
			return 0, utils.Invalid("secret teams need a password of 1 to 32 characters")
		}
	}

	if expireTime != nil && !expireTime.After(now) {
		return 0, utils.Invalid("expire time must be in the future")
	}

	return status, nil
}
