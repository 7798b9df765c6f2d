package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	today := "2026-08-29"

	cases := []struct {
		in   string
		want string
	}{
		{"2026-09-05", "2026-09-05"},
		{"2026/09/05", "2026-09-05"},
		{"2026-9-5", "2026-09-05"},
		{"", today},
		{"next friday", today},
		{"2026-09", today},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDate(tc.in, now), "input %q", tc.in)
	}
}

func TestMCPProviderSendsToolEnvelope(t *testing.T) {
	var got mcpToolRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"context": "  sunny all week  "})
	}))
	defer srv.Close()

	p := NewMCPProvider(srv.URL, "secret-token", 5, nil)
	text, err := p.Forecast(context.Background(), "Lisbon", "2026/09/05", 3)
	require.NoError(t, err)
	assert.Equal(t, "sunny all week", text)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "weather", got.Tool)
	assert.Equal(t, "Lisbon", got.Input.Destination)
	assert.Equal(t, "2026-09-05", got.Input.StartDate)
	assert.Equal(t, 3, got.Input.Days)
}

func TestMCPProviderFallsBackToResultField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "mild and dry"})
	}))
	defer srv.Close()

	p := NewMCPProvider(srv.URL, "", 5, nil)
	text, err := p.Forecast(context.Background(), "Porto", "", 2)
	require.NoError(t, err)
	assert.Equal(t, "mild and dry", text)
}

func TestMCPProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewMCPProvider(srv.URL, "", 5, nil)
	_, err := p.Forecast(context.Background(), "Porto", "", 2)
	assert.Error(t, err)
}

func newMeteoServers(t *testing.T, forecast http.HandlerFunc) (*OpenMeteoProvider, func()) {
	t.Helper()
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lisbon", r.URL.Query().Get("name"))
		fmt.Fprint(w, `{"results":[{"name":"Lisbon","latitude":38.72,"longitude":-9.14}]}`)
	}))
	fc := httptest.NewServer(forecast)
	p := NewOpenMeteoProviderWithEndpoints(geo.URL, fc.URL, nil)
	return p, func() { geo.Close(); fc.Close() }
}

func TestOpenMeteoForecastSummary(t *testing.T) {
	p, done := newMeteoServers(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-09-05", r.URL.Query().Get("start_date"))
		fmt.Fprint(w, `{"daily":{"temperature_2m_max":[28.5],"temperature_2m_min":[19],"precipitation_probability_max":[10]}}`)
	})
	defer done()

	text, err := p.Forecast(context.Background(), "Lisbon", "2026-09-05", 3)
	require.NoError(t, err)
	assert.Contains(t, text, "Lisbon weather reference")
	assert.Contains(t, text, "high 28.5°C")
	assert.Contains(t, text, "low 19°C")
	assert.Contains(t, text, "precipitation probability 10%")
}

func TestOpenMeteoRetriesOutOfRangeDates(t *testing.T) {
	calls := 0
	p, done := newMeteoServers(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("forecast_days") == "" {
			// A start date beyond the forecast horizon.
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"daily":{"temperature_2m_max":[20],"temperature_2m_min":[12],"precipitation_probability_max":[55]}}`)
	})
	defer done()

	text, err := p.Forecast(context.Background(), "Lisbon", "2027-01-01", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, text, "precipitation probability 55%")
}

func TestOpenMeteoUnknownDestination(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer geo.Close()

	p := NewOpenMeteoProviderWithEndpoints(geo.URL, "http://unreachable.invalid", nil)
	text, err := p.Forecast(context.Background(), "Atlantis", "", 3)
	require.NoError(t, err)
	assert.Empty(t, text)
}

type stubProvider struct {
	text string
	err  error
}

func (s stubProvider) Forecast(context.Context, string, string, int) (string, error) {
	return s.text, s.err
}

func TestChainPrefersPrimary(t *testing.T) {
	c := NewChain(stubProvider{text: "from mcp"}, stubProvider{text: "from fallback"}, nil)
	text, err := c.Forecast(context.Background(), "Lisbon", "", 3)
	require.NoError(t, err)
	assert.Equal(t, "from mcp", text)
}

func TestChainFallsBackOnPrimaryFailure(t *testing.T) {
	c := NewChain(stubProvider{err: fmt.Errorf("down")}, stubProvider{text: "from fallback"}, nil)
	text, err := c.Forecast(context.Background(), "Lisbon", "", 3)
	require.NoError(t, err)
	assert.Equal(t, "from fallback", text)
}

func TestChainDegradesToEmpty(t *testing.T) {
	c := NewChain(stubProvider{err: fmt.Errorf("down")}, stubProvider{err: fmt.Errorf("also down")}, nil)
	text, err := c.Forecast(context.Background(), "Lisbon", "", 3)
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = c.Forecast(context.Background(), "   ", "", 3)
	require.NoError(t, err)
	assert.Empty(t, text, "blank destination short-circuits")
}

func TestCachedProviderWithoutRedisPassesThrough(t *testing.T) {
	c := NewCachedProvider(stubProvider{text: "upstream"}, nil, time.Minute, nil)
	text, err := c.Forecast(context.Background(), "Lisbon", "2026-09-05", 3)
	require.NoError(t, err)
	assert.Equal(t, "upstream", text)
}
