package workspace

import (
	"context"
	"strings"
)

// SaveDashboard persists the working copy under the given title and applies
// the server's authoritative response: assigned id, timestamps, refreshed
// dashboard list. Preconditions (selected dataset, at least one widget,
// non-blank title) are local validation failures; nothing reaches the
// network when they fail.
func (s *Service) SaveDashboard(ctx context.Context, title string) (Dashboard, error) {
	gw, err := s.gateway()
	if err != nil {
		return Dashboard{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dataset == nil {
		return Dashboard{}, errNoDataset
	}
	if len(snap.Widgets) == 0 {
		return Dashboard{}, errNoWidgets
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Dashboard{}, errBlankTitle
	}
	config := DashboardConfig{Widgets: snap.Widgets}
	if err := s.opts.Validator.ValidateConfig(config); err != nil {
		return Dashboard{}, err
	}
	req := SaveDashboardRequest{
		UserID:    s.opts.UserID,
		DatasetID: snap.Dataset.ID,
		Title:     title,
		Config:    config,
	}
	if snap.Dashboard != nil {
		req.DashboardID = snap.Dashboard.ID
	}
	saved, err := gw.SaveDashboard(ctx, req)
	if err != nil {
		return Dashboard{}, err
	}
	dashboards, err := gw.ListDashboards(ctx, s.opts.UserID, snap.Dataset.ID)
	if err != nil {
		return Dashboard{}, err
	}
	s.store.Update(func(snap *Snapshot) {
		dash := saved
		snap.Dashboard = &dash
		snap.Title = saved.Title
		snap.Dashboards = dashboards
	})
	s.savePreferences(ctx, snap.Dataset.ID, saved.ID)
	s.record(ctx, "workspace.dashboard.save", map[string]any{
		"dashboard_id": saved.ID,
		"widgets":      len(config.Widgets),
	})
	return saved, nil
}

// ShareDashboard requests a public share token for the active dashboard and
// replaces both the active copy and its list entry with the shared copy.
// Sharing an unsaved draft is rejected locally.
func (s *Service) ShareDashboard(ctx context.Context) (Dashboard, error) {
	gw, err := s.gateway()
	if err != nil {
		return Dashboard{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dashboard == nil {
		return Dashboard{}, errNoDashboard
	}
	if snap.Dashboard.ID == 0 {
		return Dashboard{}, errUnsavedDraft
	}
	shared, err := gw.ShareDashboard(ctx, snap.Dashboard.ID, s.opts.UserID)
	if err != nil {
		return Dashboard{}, err
	}
	s.store.Update(func(snap *Snapshot) {
		dash := shared
		snap.Dashboard = &dash
		for i := range snap.Dashboards {
			if snap.Dashboards[i].ID == shared.ID {
				snap.Dashboards[i] = shared
			}
		}
	})
	s.record(ctx, "workspace.dashboard.share", map[string]any{"dashboard_id": shared.ID})
	return shared, nil
}

// ShareToTeam grants a team a named permission on the active dashboard.
// Repeated calls with the same team and permission are accepted; the remote
// side deduplicates.
func (s *Service) ShareToTeam(ctx context.Context, teamID int64, permission Role) (TeamShare, error) {
	gw, err := s.gateway()
	if err != nil {
		return TeamShare{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dashboard == nil {
		return TeamShare{}, errNoDashboard
	}
	if snap.Dashboard.ID == 0 {
		return TeamShare{}, errUnsavedDraft
	}
	share, err := gw.ShareToTeam(ctx, snap.Dashboard.ID, s.opts.UserID, teamID, permission)
	if err != nil {
		return TeamShare{}, err
	}
	s.record(ctx, "workspace.dashboard.team_share", map[string]any{
		"dashboard_id": share.DashboardID,
		"team_id":      share.TeamID,
		"permission":   string(share.Permission),
	})
	return share, nil
}
