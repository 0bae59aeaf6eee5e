package models

// TeamStatus controls who can discover and join a team.
type TeamStatus int

const (
	TeamStatusPublic TeamStatus = iota
	TeamStatusPrivate
	TeamStatusSecret
)

func (s TeamStatus) String() string {
	switch s {
	case TeamStatusPublic:
		return "public"
	case TeamStatusPrivate:
		return "private"
	case TeamStatusSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// ParseTeamStatus rejects anything outside the three known wire values.
func ParseTeamStatus(value int) (TeamStatus, bool) {
	switch TeamStatus(value) {
	case TeamStatusPublic, TeamStatusPrivate, TeamStatusSecret:
		return TeamStatus(value), true
	default:
		return 0, false
	}
}
