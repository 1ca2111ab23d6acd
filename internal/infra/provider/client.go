package provider

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ddns_update_client/internal/domain/ddns"

	"github.com/sirupsen/logrus"
)

// requestTimeout bounds one update request; the provider either answers
// quickly or not at all.
const requestTimeout = 30 * time.Second

// maxResponseBytes caps the provider response read. Protocol answers are a
// single short line.
const maxResponseBytes = 4 << 10

// Client pushes address updates to a dyndns-protocol endpoint. One request
// updates every domain of the account; the provider derives the domain set
// from the credentials, so no hostname parameter is ever sent.
type Client struct {
	updateURL string
	http      *http.Client
	log       *logrus.Entry
}

func NewClient(updateURL string, log *logrus.Entry) *Client {
	return &Client{
		updateURL: updateURL,
		http:      &http.Client{},
		log:       log,
	}
}

// Update implements ddns.Updater.
func (c *Client) Update(ctx context.Context, account ddns.Account, ip string) error {
	// The wire protocol mandates an MD5 hex digest of the password; this is
	// protocol framing, not a security measure.
	digest := md5Hex(account.Password)

	params := url.Values{}
	params.Set("username", account.Username)
	params.Set("password", digest)
	params.Set("myip", ip)
	requestURL := c.updateURL + "?" + params.Encode()

	log := c.log.WithField("username", account.Username)
	log.Infof("update request: %s", strings.Replace(requestURL, digest, "******", 1))

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &ddns.UpdateError{Code: ddns.FailureTransport, Reason: fmt.Sprintf("building request: %v", err)}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ddns.UpdateError{Code: ddns.FailureTransport, Reason: "request timed out"}
		}
		return &ddns.UpdateError{Code: ddns.FailureTransport, Reason: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ddns.UpdateError{Code: ddns.FailureTransport, Reason: fmt.Sprintf("unexpected HTTP status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ddns.UpdateError{Code: ddns.FailureTransport, Reason: fmt.Sprintf("reading response: %v", err)}
	}
	answer := strings.TrimSpace(string(body))

	log.Infof("provider response: %s", answer)
	return classify(answer)
}

// classify maps a protocol answer line onto the failure taxonomy. Matching
// is on answer prefixes: providers append echo text such as the new address
// after "good".
func classify(answer string) error {
	switch {
	case strings.HasPrefix(answer, "good"):
		return nil
	case strings.HasPrefix(answer, "nochg"):
		return nil
	case strings.HasPrefix(answer, "badauth"):
		return &ddns.UpdateError{Code: ddns.FailureAuth, Reason: "authentication failed, check username and password"}
	case strings.HasPrefix(answer, "911"):
		return &ddns.UpdateError{Code: ddns.FailureMaintenance, Reason: "provider maintenance, retry later"}
	case strings.HasPrefix(answer, "notfqdn"):
		return &ddns.UpdateError{Code: ddns.FailureNotFQDN, Reason: "provider rejected a hostname as malformed"}
	case strings.HasPrefix(answer, "nohost"):
		return &ddns.UpdateError{Code: ddns.FailureNoHost, Reason: "hostname not found under this account"}
	case strings.HasPrefix(answer, "dnserr"):
		return &ddns.UpdateError{Code: ddns.FailureDNS, Reason: "provider-side DNS error"}
	default:
		return &ddns.UpdateError{Code: ddns.FailureUnknown, Reason: fmt.Sprintf("unexpected provider response: %s", answer)}
	}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
