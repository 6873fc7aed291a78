package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusClass(t *testing.T) {
	tests := map[int]string{100: "1xx", 200: "2xx", 302: "3xx", 404: "4xx", 502: "5xx"}
	for code, want := range tests {
		if got := StatusClass(code); got != want {
			t.Errorf("StatusClass(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestInitPrometheusIsIdempotent(t *testing.T) {
	InitPrometheus()
	InitPrometheus()

	RelayOutcomes.WithLabelValues(http.MethodPost, "invalid_roll").Inc()
	if got := testutil.ToFloat64(RelayOutcomes.WithLabelValues(http.MethodPost, "invalid_roll")); got < 1 {
		t.Errorf("Expected counter to be incremented, got %v", got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "score_relay_outcomes_total") {
		t.Error("Expected relay outcomes to be exported")
	}
}
