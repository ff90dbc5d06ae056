package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CountsAndServes(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncFetches("users")
	s.IncFetches("users")
	s.IncExports("users", "csv")
	s.IncMutations("clubs", "toggle")

	assert.Equal(t, float64(2), testutil.ToFloat64(s.Fetches.WithLabelValues("users")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.Exports.WithLabelValues("users", "csv")))

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `paddio_admin_mutations_total{op="toggle",resource="clubs"} 1`)
}
