package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfmail/internal/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.Artifacts.WithLabelValues("sent").Inc()
	m.Artifacts.WithLabelValues("send_failure").Add(2)
	m.Disposals.WithLabelValues("deleted").Inc()
	m.Swept.Add(3)

	require.InDelta(t, 1, testutil.ToFloat64(m.Artifacts.WithLabelValues("sent")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.Artifacts.WithLabelValues("send_failure")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Disposals.WithLabelValues("deleted")), 0)
	require.InDelta(t, 3, testutil.ToFloat64(m.Swept), 0)
}

func TestMetrics_Instances(t *testing.T) {
	t.Parallel()

	// Each instance owns its registry, so two of them never collide.
	a, b := metrics.New(), metrics.New()
	a.Swept.Inc()
	require.InDelta(t, 0, testutil.ToFloat64(b.Swept), 0)
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.MailSent.WithLabelValues("smtp.example.com").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `pdfmail_mail_send_success_total{host="smtp.example.com"} 1`)
	require.Contains(t, body, "pdfmail_swept_files_total 0")
	require.Contains(t, body, "go_goroutines")
}
