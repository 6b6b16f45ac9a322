package workspace

import (
	"context"
	"errors"
	"strings"
)

// refreshComments loads the comment thread for a dashboard. Comments are
// auxiliary data: failures degrade to an empty list.
func (s *Service) refreshComments(ctx context.Context, dashboardID int64) {
	gw, err := s.gateway()
	if err != nil {
		return
	}
	comments, err := gw.ListComments(ctx, dashboardID, s.opts.UserID)
	if err != nil {
		comments = nil
		s.record(ctx, "workspace.comments.error", map[string]any{
			"dashboard_id": dashboardID,
			"error":        err.Error(),
		})
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Comments = comments
	})
}

// AddComment appends a comment to the active dashboard, preserving the
// order of prior comments. Blank text after trimming is rejected locally.
func (s *Service) AddComment(ctx context.Context, text string) (DashboardComment, error) {
	gw, err := s.gateway()
	if err != nil {
		return DashboardComment{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dashboard == nil || snap.Dashboard.ID == 0 {
		return DashboardComment{}, errNoDashboard
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return DashboardComment{}, errBlankComment
	}
	comment, err := gw.AddComment(ctx, snap.Dashboard.ID, s.opts.UserID, text)
	if err != nil {
		return DashboardComment{}, err
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Comments = append(snap.Comments, comment)
	})
	s.record(ctx, "workspace.comment.add", map[string]any{
		"dashboard_id": comment.DashboardID,
	})
	return comment, nil
}

// CreateTeam creates a team owned by the active user and prepends it to the
// team list.
func (s *Service) CreateTeam(ctx context.Context, name string) (Team, error) {
	gw, err := s.gateway()
	if err != nil {
		return Team{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Team{}, errors.New("workspace: team name is blank")
	}
	team, err := gw.CreateTeam(ctx, s.opts.UserID, name)
	if err != nil {
		return Team{}, err
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Teams = append([]Team{team}, snap.Teams...)
	})
	s.record(ctx, "workspace.team.create", map[string]any{"team_id": team.ID})
	return team, nil
}

// InviteMember adds a member to a team. The default role for invitations is
// viewer.
func (s *Service) InviteMember(ctx context.Context, teamID, memberID int64, role Role) (TeamMember, error) {
	gw, err := s.gateway()
	if err != nil {
		return TeamMember{}, err
	}
	if teamID == 0 || memberID == 0 {
		return TeamMember{}, errors.New("workspace: team and member ids are required")
	}
	if role == "" {
		role = RoleViewer
	}
	member, err := gw.AddTeamMember(ctx, teamID, s.opts.UserID, memberID, role)
	if err != nil {
		return TeamMember{}, err
	}
	s.record(ctx, "workspace.team.invite", map[string]any{
		"team_id": teamID,
		"role":    string(role),
	})
	return member, nil
}

// ListMembers returns the membership rows for a team, degrading to an empty
// list on failure.
func (s *Service) ListMembers(ctx context.Context, teamID int64) []TeamMember {
	gw, err := s.gateway()
	if err != nil {
		return nil
	}
	members, err := gw.ListTeamMembers(ctx, teamID, s.opts.UserID)
	if err != nil {
		s.record(ctx, "workspace.team.members.error", map[string]any{
			"team_id": teamID,
			"error":   err.Error(),
		})
		return nil
	}
	return members
}
