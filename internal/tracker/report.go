package tracker

import (
	"context"

	"github.com/aiimpact/tracker/internal/dashboard"
)

// Reporter delivers a finished run's record.
type Reporter interface {
	Report(ctx context.Context, rec dashboard.RunMetricRecord) error
}

// DashboardReporter posts records to a dashboard backend.
type DashboardReporter struct {
	Client      *dashboard.Client
	Credentials dashboard.Credentials
}

// Report authenticates and posts rec. It makes one attempt; the record is
// dropped on failure.
func (r *DashboardReporter) Report(ctx context.Context, rec dashboard.RunMetricRecord) error {
	token, err := r.Client.Token(ctx, r.Credentials)
	if err != nil {
		return err
	}
	return r.Client.PostMetric(ctx, token, rec)
}
