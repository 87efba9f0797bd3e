package ipinfo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestProbeTakesFirstSuccess(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer dead.Close()
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("203.0.113.9\n"))
	}))
	defer alive.Close()
	unreached := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("later endpoints must not be probed after a success")
	}))
	defer unreached.Close()

	p := NewProber(Options{
		Endpoints: []string{dead.URL, alive.URL, unreached.URL},
		Logger:    zerolog.New(io.Discard),
	})
	info := p.Probe(context.Background())
	if info == nil || info.IP != "203.0.113.9" {
		t.Fatalf("Probe = %+v, want 203.0.113.9", info)
	}
}

func TestProbeAllFailuresReturnsNil(t *testing.T) {
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an ip</html>"))
	}))
	defer garbage.Close()

	p := NewProber(Options{
		Endpoints: []string{garbage.URL},
		Logger:    zerolog.New(io.Discard),
	})
	if info := p.Probe(context.Background()); info != nil {
		t.Fatalf("Probe = %+v, want nil", info)
	}
}

func TestNewProberToleratesMissingGeoIPDB(t *testing.T) {
	p := NewProber(Options{
		GeoIPDBPath: "/nonexistent/geoip.mmdb",
		Logger:      zerolog.New(io.Discard),
	})
	if p == nil {
		t.Fatal("prober should still construct")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}
