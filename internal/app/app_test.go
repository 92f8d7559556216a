package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_ServesSeriesAndExportsReports(t *testing.T) {
	t.Parallel()

	application, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.exportConsumer.Start(ctx)
	defer application.exportConsumer.Stop()

	server := httptest.NewServer(application.server.Handler)
	defer server.Close()

	// series for one database
	resp, err := http.Post(server.URL+"/series", "application/json", strings.NewReader(`{"databases":["oracle"],"operations":["connect","select"]}`))
	require.NoError(t, err)
	var bundle models.SeriesBundle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bundle))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, bundle.RecordCount)

	// asynchronous export
	resp, err = http.Post(server.URL+"/reports", "application/json", strings.NewReader(`{"databases":["mysql"],"operations":["insert"]}`))
	require.NoError(t, err)
	var state models.ReportState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		resp, err := http.Get(server.URL + "/reports/" + state.ReportID)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var current models.ReportState
		if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
			return false
		}
		return current.Status == models.ReportStatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	resp, err = http.Get(server.URL + "/reports/" + state.ReportID + "/artifacts/" + reports.ArtifactManifest)
	require.NoError(t, err)
	var manifest models.ReportManifest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&manifest))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, 1, manifest.RecordCount)
	assert.Equal(t, []string{"mysql"}, manifest.Filter.Databases)
}
