package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/models"
)

func analysisServer(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request

	mux := http.NewServeMux()
	mux.HandleFunc("GET /analysis/api/creator-console/heatmap", func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Write([]byte(`{"scope":"china","period":"30d","accessible":true,
			"summary":{"totalDownloads":120,"distinctLocations":3},
			"points":[{"id":"cn-gd","label":"Guangdong","downloads":80}]}`))
	})
	mux.HandleFunc("GET /analysis/api/creator-console/overview", func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Write([]byte(`{"period":"7d","summary":{"resources":2,"views":40,"downloads":15,"averageRating":4.5}}`))
	})
	mux.HandleFunc("GET /dashboard/api/creator-console/home", func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Write([]byte(`{"overview":{"todayDownloads":5,"weekDownloads":30},
			"topDownloads":{"topResource":{"name":"Orbit Face","downloads":30}}}`))
	})
	return httptest.NewServer(mux), &captured
}

func TestHeatmapSendsScopeAndToken(t *testing.T) {
	server, captured := analysisServer(t)
	defer server.Close()

	client := NewClient(models.ServerConfig{BaseURL: server.URL}, "ab-token")
	heatmap, err := client.Heatmap(context.Background(), models.AnalysisScopeChina, "")
	require.NoError(t, err)

	assert.Equal(t, "ab-token", captured.Header.Get("X-ASTROBOX-TOKEN"))
	assert.Equal(t, "china", captured.URL.Query().Get("scope"))
	assert.Equal(t, "30d", captured.URL.Query().Get("period"))
	assert.Equal(t, int64(120), heatmap.Summary.TotalDownloads)
	require.Len(t, heatmap.Points, 1)
	assert.Equal(t, "Guangdong", heatmap.Points[0].Label)
}

func TestOverviewPeriodPassthrough(t *testing.T) {
	server, captured := analysisServer(t)
	defer server.Close()

	client := NewClient(models.ServerConfig{BaseURL: server.URL}, "ab-token")
	overview, err := client.Overview(context.Background(), models.AnalysisPeriod7d)
	require.NoError(t, err)

	assert.Equal(t, "7d", captured.URL.Query().Get("period"))
	assert.Equal(t, int64(15), overview.Summary.Downloads)
}

func TestDashboard(t *testing.T) {
	server, _ := analysisServer(t)
	defer server.Close()

	client := NewClient(models.ServerConfig{BaseURL: server.URL}, "ab-token")
	dashboard, err := client.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(30), dashboard.Overview.WeekDownloads)
	require.NotNil(t, dashboard.TopDownloads.TopResource)
	assert.Equal(t, "Orbit Face", dashboard.TopDownloads.TopResource.Name)
}

func TestRequiresToken(t *testing.T) {
	client := NewClient(models.ServerConfig{BaseURL: "http://unused.invalid"}, "")
	_, err := client.Dashboard(context.Background())
	require.Error(t, err)
	assert.True(t, aberrors.IsType(err, aberrors.ErrorTypePrecondition))
}

func TestSurfacesBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(models.ServerConfig{BaseURL: server.URL}, "ab-token")
	_, err := client.Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
