package ipcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ddns_update_client/internal/domain/ddns"

	"github.com/sirupsen/logrus"
)

// requestTimeout bounds each individual detection request so one hung
// service cannot stall the whole cycle.
const requestTimeout = 30 * time.Second

// maxResponseBytes caps how much of a detection response is read. The
// expected bodies are a few dozen bytes.
const maxResponseBytes = 64 << 10

// Service is one public-IP detection endpoint together with the pattern
// that extracts the address from its response body. The pattern's first
// capture group must be the address.
type Service struct {
	URL     string
	Pattern *regexp.Regexp
}

// DefaultServices are tried strictly in order; later entries are fallbacks
// for earlier ones, never consulted when an earlier one answers.
var DefaultServices = []Service{
	{URL: "http://ddns.oray.com/checkip", Pattern: regexp.MustCompile(`Current IP Address: (\d+\.\d+\.\d+\.\d+)`)},
	{URL: "https://myip.ipip.net", Pattern: regexp.MustCompile(`当前 IP：(\d+\.\d+\.\d+\.\d+)`)},
	{URL: "http://ip.3322.net", Pattern: regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)$`)},
}

var ErrAllServicesFailed = fmt.Errorf("all IP detection services failed")

// WebResolver discovers the host's public address by asking external
// services one by one and returning the first answer that validates.
type WebResolver struct {
	Services []Service
	Client   *http.Client
	Timeout  time.Duration

	log *logrus.Entry
}

// NewWebResolver builds a resolver over the given services; passing none
// selects DefaultServices.
func NewWebResolver(services []Service, log *logrus.Entry) *WebResolver {
	if len(services) == 0 {
		services = DefaultServices
	}
	return &WebResolver{
		Services: services,
		Client:   http.DefaultClient,
		Timeout:  requestTimeout,
		log:      log,
	}
}

// Resolve implements ddns.Resolver.
func (r *WebResolver) Resolve(ctx context.Context) (string, error) {
	for _, svc := range r.Services {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ip, err := r.lookup(ctx, svc)
		if err != nil {
			r.log.WithField("service", svc.URL).Warnf("IP detection failed: %v", err)
			continue
		}
		r.log.WithField("service", svc.URL).Infof("current public IP: %s", ip)
		return ip, nil
	}
	return "", ErrAllServicesFailed
}

func (r *WebResolver) lookup(ctx context.Context, svc Service) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.URL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http request returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	match := svc.Pattern.FindStringSubmatch(strings.TrimSpace(string(body)))
	if len(match) < 2 {
		return "", fmt.Errorf("response did not match the extraction pattern")
	}
	ip := match[1]
	if !ddns.IsValidIPv4(ip) {
		return "", fmt.Errorf("extracted address %q is not a valid IPv4 address", ip)
	}
	return ip, nil
}
