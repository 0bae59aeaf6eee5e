package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/utils"
)

const (
	maxTeamsPerUser = 5

	// One name for every join across every team; join throughput is traded
	// for simple, correct counting checks.
	joinLockName = "teamup:team:join"
)

func userLockName(userId int64) string {
	return fmt.Sprintf("teamup:team:user:%d", userId)
}

func teamLockName(teamId int64) string {
	return fmt.Sprintf("teamup:team:op:%d", teamId)
}

// TeamService enforces the team lifecycle invariants: creation quotas, join
// eligibility, quit succession and dissolution.
type TeamService struct {
	teams   TeamStore
	members MemberStore
	users   UserStore
	locks   Locker
	now     func() time.Time
}

func NewTeamService(teams TeamStore, members MemberStore, users UserStore, locks Locker) *TeamService {
	return &TeamService{
		teams:   teams,
		members: members,
		users:   users,
		locks:   locks,
		now:     time.Now,
	}
}

// release drops a held lock lease. A failed release is not fatal, the key
// expires by TTL, but it stretches the critical section so it gets logged.
func (s *TeamService) release(ctx context.Context, lease Lease) {
	if err := lease.Release(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to release lock lease")
	}
}

// CreateTeam validates the proposed team, checks the per-user creation quota
// and inserts the team together with its captain membership atomically. The
// quota check runs under the per-user lock so two concurrent creations cannot
// both pass it.
func (s *TeamService) CreateTeam(ctx context.Context, req models.TeamAddRequest, actingUserId int64) (int64, error) {
	now := s.now()

	status, err := validateTeamFields(req.Name, req.Description, req.MaxNum, req.Status, req.Password, req.ExpireTime, now)
	if err != nil {
		return 0, err
	}

	lease, err := s.locks.Acquire(ctx, userLockName(actingUserId))
	if err != nil {
		return 0, err
	}
	defer s.release(ctx, lease)

	owned, err := s.teams.CountByOwner(ctx, actingUserId)
	if err != nil {
		return 0, err
	}
	if owned >= maxTeamsPerUser {
		return 0, utils.Conflict("user already created 5 teams")
	}

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		MaxNum:      req.MaxNum,
		ExpireTime:  req.ExpireTime,
		UserId:      actingUserId,
		Password:    req.Password,
		Status:      status,
		CreateTime:  now,
		UpdateTime:  now,
	}

	id, err := s.teams.CreateWithCaptain(ctx, team)
	if err != nil {
		return 0, err
	}

	log.Info().Int64("team", id).Int64("user", actingUserId).Msg("Team created")
	return id, nil
}

// UpdateTeam rewrites a team's fields. Only the captain or an admin may
// update; the field rules are the same as for creation.
func (s *TeamService) UpdateTeam(ctx context.Context, req models.TeamUpdateRequest, actingUser *models.User) error {
	if req.Id <= 0 {
		return utils.Invalid("invalid team id")
	}

	team, err := s.teams.Get(ctx, req.Id)
	if err != nil {
		return err
	}
	if team == nil {
		return utils.NotFound("team not found")
	}

	if team.UserId != actingUser.Id && !actingUser.IsAdmin() {
		return utils.PermissionDenied("no permission to update this team")
	}

	now := s.now()
	status, err := validateTeamFields(req.Name, req.Description, req.MaxNum, req.Status, req.Password, req.ExpireTime, now)
	if err != nil {
		return err
	}

	team.Name = req.Name
	team.Description = req.Description
	team.MaxNum = req.MaxNum
	team.ExpireTime = req.ExpireTime
	team.Password = req.Password
	team.Status = status
	team.UpdateTime = now

	return s.teams.Update(ctx, team)
}

// JoinTeam adds the acting user to a team. Eligibility of the team itself
// (existence, expiry, visibility, password) is checked first; the counting
// checks run under the global join lock.
func (s *TeamService) JoinTeam(ctx context.Context, req models.TeamJoinRequest, actingUserId int64) error {
	if req.TeamId <= 0 {
		return utils.Invalid("invalid team id")
	}

	team, err := s.teams.Get(ctx, req.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		return utils.NotFound("team not found")
	}

	now := s.now()
	if team.Expired(now) {
		return utils.Conflict("team has expired")
	}

	switch team.Status {
	case models.TeamStatusPrivate:
		return utils.Conflict("private teams cannot be joined")
	case models.TeamStatusSecret:
		if req.Password == "" || req.Password != team.Password {
			return utils.Conflict("wrong team password")
		}
	case models.TeamStatusPublic:
	}

	lease, err := s.locks.Acquire(ctx, joinLockName)
	if err != nil {
		return err
	}
	defer s.release(ctx, lease)

	joined, err := s.members.CountByUser(ctx, actingUserId)
	if err != nil {
		return err
	}
	if joined >= maxTeamsPerUser {
		return utils.Conflict("user already joined 5 teams")
	}

	exists, err := s.members.Exists(ctx, req.TeamId, actingUserId)
	if err != nil {
		return err
	}
	if exists {
		return utils.Conflict("user already joined this team")
	}

	size, err := s.members.CountByTeam(ctx, req.TeamId)
	if err != nil {
		return err
	}
	if size >= team.MaxNum {
		return utils.Conflict("team is full")
	}

	return s.members.Add(ctx, &models.TeamUser{
		TeamId:   req.TeamId,
		UserId:   actingUserId,
		JoinTime: now,
	})
}

// QuitTeam removes the acting user's membership. The last member takes the
// team down with them; a quitting captain hands the team to the earliest
// joined remaining member. Serialized per team so two concurrent quits
// cannot both race into the succession branch.
func (s *TeamService) QuitTeam(ctx context.Context, req models.TeamQuitRequest, actingUserId int64) error {
	if req.TeamId <= 0 {
		return utils.Invalid("invalid team id")
	}

	lease, err := s.locks.Acquire(ctx, teamLockName(req.TeamId))
	if err != nil {
		return err
	}
	defer s.release(ctx, lease)

	// Read the team only under the lock: the captain id drives the
	// succession branch and must not be a stale snapshot.
	team, err := s.teams.Get(ctx, req.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		return utils.NotFound("team not found")
	}

	exists, err := s.members.Exists(ctx, req.TeamId, actingUserId)
	if err != nil {
		return err
	}
	if !exists {
		return utils.Conflict("user is not a member of this team")
	}

	size, err := s.members.CountByTeam(ctx, req.TeamId)
	if err != nil {
		return err
	}

	if size == 1 {
		return s.teams.DeleteWithMembers(ctx, req.TeamId)
	}

	if team.UserId == actingUserId {
		earliest, err := s.members.EarliestTwo(ctx, req.TeamId)
		if err != nil {
			return err
		}
		if len(earliest) <= 1 {
			return utils.System("no successor found for captain handover")
		}

		heir := earliest[1]
		log.Info().Int64("team", req.TeamId).Int64("captain", heir.UserId).Msg("Captain handover")
		return s.teams.SetCaptainAndRemoveMember(ctx, req.TeamId, heir.UserId, actingUserId)
	}

	return s.members.Remove(ctx, req.TeamId, actingUserId)
}

// DissolveTeam removes the team and every membership row, captain only.
func (s *TeamService) DissolveTeam(ctx context.Context, teamId, actingUserId int64) error {
	if teamId <= 0 {
		return utils.Invalid("invalid team id")
	}

	lease, err := s.locks.Acquire(ctx, teamLockName(teamId))
	if err != nil {
		return err
	}
	defer s.release(ctx, lease)

	// Captaincy can change hands while we wait on the lock, so the
	// permission check reads the row under it.
	team, err := s.teams.Get(ctx, teamId)
	if err != nil {
		return err
	}
	if team == nil {
		return utils.NotFound("team not found")
	}

	if team.UserId != actingUserId {
		return utils.PermissionDenied("only the captain can dissolve the team")
	}

	return s.teams.DeleteWithMembers(ctx, teamId)
}

// GetTeam fetches one team by id.
func (s *TeamService) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	if id <= 0 {
		return nil, utils.Invalid("invalid team id")
	}

	team, err := s.teams.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, utils.NotFound("team not found")
	}

	return team, nil
}

// ListTeams filters the live (non-expired) teams and joins each with its
// creator's redacted record. Viewer enrichment (HasJoin, HasJoinNum) is best
// effort and never fails the listing.
func (s *TeamService) ListTeams(ctx context.Context, query models.TeamQuery, actingUserId int64, isAdmin bool) ([]*models.TeamUserView, error) {
	if err := validateTeamQuery(&query, isAdmin); err != nil {
		return nil, err
	}

	teams, err := s.teams.Find(ctx, query, s.now())
	if err != nil {
		return nil, err
	}

	views := make([]*models.TeamUserView, 0, len(teams))
	for i := range teams {
		team := &teams[i]

		view := models.NewTeamUserView(team)
		creator, err := s.users.Get(ctx, team.UserId)
		if err != nil {
			return nil, err
		}
		if creator != nil {
			view.CreatedUser = models.NewUserView(creator)
		}

		views = append(views, view)
	}

	s.flagJoinedTeams(ctx, views, actingUserId)
	return views, nil
}

// ListMyCreatedTeams lists the teams captained by the acting user,
// regardless of visibility.
func (s *TeamService) ListMyCreatedTeams(ctx context.Context, query models.TeamQuery, actingUserId int64) ([]*models.TeamUserView, error) {
	query.UserId = actingUserId
	return s.ListTeams(ctx, query, actingUserId, true)
}

// ListMyJoinedTeams lists the teams the acting user holds a membership in.
func (s *TeamService) ListMyJoinedTeams(ctx context.Context, query models.TeamQuery, actingUserId int64) ([]*models.TeamUserView, error) {
	memberships, err := s.members.ListByUser(ctx, actingUserId)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []*models.TeamUserView{}, nil
	}

	seen := make(map[int64]struct{}, len(memberships))
	ids := make([]int64, 0, len(memberships))
	for _, m := range memberships {
		if _, ok := seen[m.TeamId]; ok {
			continue
		}
		seen[m.TeamId] = struct{}{}
		ids = append(ids, m.TeamId)
	}

	query.IdList = ids
	return s.ListTeams(ctx, query, actingUserId, true)
}

func validateTeamQuery(query *models.TeamQuery, isAdmin bool) error {
	if query.Id < 0 {
		return utils.Invalid("invalid team id filter")
	}
	if query.Name != "" && utf8.RuneCountInString(query.Name) > maxTeamNameLen {
		return utils.Invalid("team name filter is too long")
	}
	if query.Description != "" && utf8.RuneCountInString(query.Description) > maxTeamDescriptionLen {
		return utils.Invalid("team description filter is too long")
	}
	if query.SearchText != "" && utf8.RuneCountInString(query.SearchText) > maxTeamNameLen {
		return utils.Invalid("search text is too long")
	}
	if query.MaxNum != 0 && (query.MaxNum < 1 || query.MaxNum > maxTeamMembers) {
		return utils.Invalid("invalid team size filter")
	}
	if query.UserId < 0 {
		return utils.Invalid("invalid captain id filter")
	}

	if query.Status != nil {
		status, ok := models.ParseTeamStatus(*query.Status)
		if !ok {
			// Unknown status filters fall back to "no filter".
			query.Status = nil
			return nil
		}
		if !isAdmin && status == models.TeamStatusPrivate {
			return utils.PermissionDenied("no permission to list private teams")
		}
	}

	return nil
}

// flagJoinedTeams marks which listed teams the viewer belongs to and fills
// in member counts. Any store failure here degrades to unflagged results.
func (s *TeamService) flagJoinedTeams(ctx context.Context, views []*models.TeamUserView, actingUserId int64) {
	if len(views) == 0 {
		return
	}

	teamIds := make([]int64, len(views))
	for i, view := range views {
		teamIds[i] = view.Id
	}

	if actingUserId > 0 {
		joined, err := s.members.ListByUserAndTeams(ctx, actingUserId, teamIds)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping joined-team flags")
		} else {
			joinedSet := make(map[int64]struct{}, len(joined))
			for _, m := range joined {
				joinedSet[m.TeamId] = struct{}{}
			}
			for _, view := range views {
				_, view.HasJoin = joinedSet[view.Id]
			}
		}
	}

	all, err := s.members.ListByTeams(ctx, teamIds)
	if err != nil {
		log.Debug().Err(err).Msg("Skipping team member counts")
		return
	}

	counts := make(map[int64]int, len(views))
	for _, m := range all {
		counts[m.TeamId]++
	}
	for _, view := range views {
		view.HasJoinNum = counts[view.Id]
	}
}
