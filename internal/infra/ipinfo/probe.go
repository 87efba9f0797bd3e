package ipinfo

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog"
)

// defaultEndpoints are public IP-echo services tried in order. The probe is
// entirely advisory, so the list is short and failures are swallowed.
var defaultEndpoints = []string{
	"https://api.ipify.org",
	"https://checkip.amazonaws.com",
	"https://icanhazip.com",
}

// Info is the advisory result of one probe.
type Info struct {
	IP      string `json:"ip"`
	Country string `json:"country,omitempty"`
}

// Prober discovers the caller's public IP via sequential best-effort GETs and
// optionally resolves a country code from a local GeoIP2 database.
type Prober struct {
	endpoints []string
	client    *http.Client
	reader    *geoip2.Reader
	logger    zerolog.Logger
}

// Options configures the prober. An empty GeoIPDBPath disables country
// resolution; a missing database file is logged and likewise disables it.
type Options struct {
	Endpoints   []string
	HTTPClient  *http.Client
	GeoIPDBPath string
	Logger      zerolog.Logger
}

// NewProber builds a prober. It never fails: a broken GeoIP database only
// costs the country field.
func NewProber(opts Options) *Prober {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	endpoints := opts.Endpoints
	if len(endpoints) == 0 {
		endpoints = defaultEndpoints
	}
	var reader *geoip2.Reader
	if strings.TrimSpace(opts.GeoIPDBPath) != "" {
		r, err := geoip2.Open(opts.GeoIPDBPath)
		if err != nil {
			opts.Logger.Warn().Err(err).Msg("ipinfo: geoip database unavailable")
		} else {
			reader = r
		}
	}
	return &Prober{endpoints: endpoints, client: client, reader: reader, logger: opts.Logger}
}

// Probe returns the first successfully echoed public IP, or nil when every
// endpoint failed. No endpoint is retried.
func (p *Prober) Probe(ctx context.Context) *Info {
	for _, endpoint := range p.endpoints {
		ip, err := p.fetchIP(ctx, endpoint)
		if err != nil {
			p.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("ipinfo: echo endpoint failed")
			continue
		}
		info := &Info{IP: ip}
		if country, err := p.country(ip); err == nil {
			info.Country = country
		}
		return info
	}
	return nil
}

// Close releases the GeoIP reader, if any.
func (p *Prober) Close() error {
	if p == nil || p.reader == nil {
		return nil
	}
	return p.reader.Close()
}

func (p *Prober) fetchIP(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &net.AddrError{Err: "unexpected status", Addr: endpoint}
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(string(raw))
	if net.ParseIP(ip) == nil {
		return "", &net.AddrError{Err: "not an ip address", Addr: ip}
	}
	return ip, nil
}

func (p *Prober) country(ip string) (string, error) {
	if p.reader == nil {
		return "", nil
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", nil
	}
	record, err := p.reader.Country(parsed)
	if err != nil || record == nil {
		return "", err
	}
	return record.Country.IsoCode, nil
}
