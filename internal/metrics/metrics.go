// Package metrics defines the service's OpenTelemetry instruments.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Requests         metric.Int64Counter
	ArticlesCreated  metric.Int64Counter
	ArticlesUpdated  metric.Int64Counter
	ArticlesDeleted  metric.Int64Counter
	RoleUpgrades     metric.Int64Counter
	PermissionDenied metric.Int64Counter
}

func New(meter metric.Meter) *Metrics {
	must := metric.Must(meter)

	return &Metrics{
		Requests: must.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method and response status"),
		),
		ArticlesCreated: must.NewInt64Counter(
			"news/articles/created_count",
			metric.WithDescription("Count of published articles"),
		),
		ArticlesUpdated: must.NewInt64Counter(
			"news/articles/updated_count",
			metric.WithDescription("Count of article updates"),
		),
		ArticlesDeleted: must.NewInt64Counter(
			"news/articles/deleted_count",
			metric.WithDescription("Count of deleted articles"),
		),
		RoleUpgrades: must.NewInt64Counter(
			"news/roles/upgrade_count",
			metric.WithDescription("Count of upgrade requests into the author role"),
		),
		PermissionDenied: must.NewInt64Counter(
			"news/authz/denied_count",
			metric.WithDescription("Count of write attempts rejected for a missing permission, by permission"),
		),
	}
}

// CountRequests counts every finished request by method and status.
func (m *Metrics) CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.Add(r.Context(), 1,
			attribute.String("method", r.Method),
			attribute.String("status", strconv.Itoa(status)),
		)
	})
}
