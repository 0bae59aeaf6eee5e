package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamup/teamup-server/models"
)

func TestValidateTeamFields(t *testing.T) {
	now := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	type input struct {
		name        string
		description string
		maxNum      int
		status      int
		password    string
		expire      *time.Time
	}

	valid := input{name: "team", maxNum: 5, status: 0}

	cases := []struct {
		name string
		in   input
		ok   bool
	}{
		{"minimal public team", valid, true},
		{"max bounds", input{name: strings.Repeat("n", 20), description: strings.Repeat("d", 512), maxNum: 20, status: 0}, true},
		{"future expiry", input{name: "team", maxNum: 5, status: 0, expire: &future}, true},
		{"secret with password", input{name: "team", maxNum: 5, status: 2, password: strings.Repeat("p", 32)}, true},
		{"password ignored when public", input{name: "team", maxNum: 5, status: 0, password: strings.Repeat("p", 64)}, true},

		{"zero members", input{name: "team", maxNum: 0, status: 0}, false},
		{"too many members", input{name: "team", maxNum: 21, status: 0}, false},
		{"blank name", input{name: "  ", maxNum: 5, status: 0}, false},
		{"name too long", input{name: strings.Repeat("n", 21), maxNum: 5, status: 0}, false},
		{"description too long", input{name: "team", description: strings.Repeat("d", 513), maxNum: 5, status: 0}, false},
		{"unknown status", input{name: "team", maxNum: 5, status: 7}, false},
		{"negative status", input{name: "team", maxNum: 5, status: -1}, false},
		{"secret missing password", input{name: "team", maxNum: 5, status: 2}, false},
		{"secret password too long", input{name: "team", maxNum: 5, status: 2, password: strings.Repeat("p", 33)}, false},
		{"expiry in the past", input{name: "team", maxNum: 5, status: 0, expire: &past}, false},
		{"expiry equal to now", input{name: "team", maxNum: 5, status: 0, expire: &now}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, err := validateTeamFields(tc.in.name, tc.in.description, tc.in.maxNum, tc.in.status, tc.in.password, tc.in.expire, now)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, models.TeamStatus(tc.in.status), status)
			} else {
				require.Error(t, err)
			}
		})
	}
}
