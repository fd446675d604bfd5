package tracker

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact/tracker/internal/dashboard"
)

func TestDashboardReporter(t *testing.T) {
	mt := httpmock.NewMockTransport()
	client, err := dashboard.New("http://dash.test", dashboard.WithHTTPClient(&http.Client{Transport: mt}))
	require.NoError(t, err)

	mt.RegisterResponder(http.MethodPost, "http://dash.test/api/auth/login",
		httpmock.NewStringResponder(200, `{"access_token":"t1"}`))
	var auth string
	mt.RegisterResponder(http.MethodPost, "http://dash.test/api/metrics",
		func(req *http.Request) (*http.Response, error) {
			auth = req.Header.Get("Authorization")
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	rep := &DashboardReporter{
		Client:      client,
		Credentials: dashboard.Credentials{Username: "admin", Password: "admin123"},
	}
	require.NoError(t, rep.Report(context.Background(), dashboard.RunMetricRecord{Project: "p"}))
	assert.Equal(t, "Bearer t1", auth)

	rep.Credentials = dashboard.Credentials{}
	err = rep.Report(context.Background(), dashboard.RunMetricRecord{})
	assert.ErrorIs(t, err, dashboard.ErrNoCredentials)
}
