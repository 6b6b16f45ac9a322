package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

func TestMockClientSaveShareRoundTrip(t *testing.T) {
	client := NewMockClient(MockData{
		Datasets: []workspace.Dataset{{ID: 1, Name: "sales"}},
	})

	saved, err := client.SaveDashboard(context.Background(), workspace.SaveDashboardRequest{
		UserID:    10,
		DatasetID: 1,
		Title:     "Quarterly",
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	dashboards, err := client.ListDashboards(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, dashboards, 1)

	shared, err := client.ShareDashboard(context.Background(), saved.ID, 10)
	require.NoError(t, err)
	assert.True(t, shared.IsPublic)
	assert.NotEmpty(t, shared.ShareToken)

	public, err := client.PublicDashboard(context.Background(), shared.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, public.ID)
}

func TestMockClientOverwriteKeepsIdentity(t *testing.T) {
	client := NewMockClient(MockData{
		Datasets:   []workspace.Dataset{{ID: 1, Name: "sales"}},
		Dashboards: []workspace.Dashboard{{ID: 11, Title: "old", DatasetID: 1}},
	})

	saved, err := client.SaveDashboard(context.Background(), workspace.SaveDashboardRequest{
		UserID:      10,
		DatasetID:   1,
		Title:       "renamed",
		DashboardID: 11,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
	assert.Equal(t, "renamed", saved.Title)

	dashboards, err := client.ListDashboards(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, dashboards, 1)
	assert.Equal(t, "renamed", dashboards[0].Title)
}

func TestMockClientCommentsAppendInOrder(t *testing.T) {
	client := NewMockClient(MockData{})
	_, err := client.AddComment(context.Background(), 11, 10, "first")
	require.NoError(t, err)
	_, err = client.AddComment(context.Background(), 11, 10, "second")
	require.NoError(t, err)

	comments, err := client.ListComments(context.Background(), 11, 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}
