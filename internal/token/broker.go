package token

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"icbridge/internal/account/models"
)

var authenticateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "icbridge_authenticate_duration_seconds",
	Help:    "Latency of identity provider authentication calls in seconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
})

// DefaultTimeout bounds the authentication handshake.
const DefaultTimeout = 10 * time.Second

// RoleTypeHeader is required by SERPRO when authenticating on behalf of a
// third party ("TERCEIROS").
const roleTypeHeader = "TERCEIROS"

// Broker authenticates against the identity provider. Implementations must
// not retry; retry policy belongs to the caller.
type Broker interface {
	Authenticate(ctx context.Context, creds models.Credentials) (*Credential, error)
}

// SerproBroker performs the mutual-TLS Basic-auth handshake with SERPRO's
// authentication endpoint. The certificate pair is loaded per call and
// released after the handshake; there is no long-lived certificate cache.
type SerproBroker struct {
	authURL  string
	certFile string
	keyFile  string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// BrokerOption configures a SerproBroker.
type BrokerOption func(*SerproBroker)

// WithTimeout overrides the 10s handshake timeout.
func WithTimeout(d time.Duration) BrokerOption {
	return func(b *SerproBroker) { b.timeout = d }
}

// WithHTTPClient replaces the per-call mutual-TLS client. Tests use this to
// point the broker at an httptest server without certificate files.
func WithHTTPClient(c *http.Client) BrokerOption {
	return func(b *SerproBroker) { b.client = c }
}

// NewSerproBroker constructs a broker for the given endpoint and client
// certificate pair.
func NewSerproBroker(authURL, certFile, keyFile string, logger *slog.Logger, opts ...BrokerOption) *SerproBroker {
	b := &SerproBroker{
		authURL:  authURL,
		certFile: certFile,
		keyFile:  keyFile,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Authenticate exchanges the client id/secret for a bearer token plus
// companion JWT using the OAuth2 client-credentials grant.
func (b *SerproBroker) Authenticate(ctx context.Context, creds models.Credentials) (*Credential, error) {
	start := time.Now()
	defer func() {
		authenticateDuration.Observe(time.Since(start).Seconds())
	}()

	client := b.client
	if client == nil {
		cert, err := tls.LoadX509KeyPair(b.certFile, b.keyFile)
		if err != nil {
			return nil, &AuthError{Reason: ReasonTransport, Err: err}
		}
		client = &http.Client{
			Timeout: b.timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{cert},
					MinVersion:   tls.VersionTLS12,
				},
			},
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{Reason: ReasonTransport, Err: err}
	}
	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("Role-Type", roleTypeHeader)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &AuthError{Reason: ReasonTimeout, Err: err}
		}
		return nil, &AuthError{Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.logger.WarnContext(ctx, "identity provider rejected authentication",
			"status", resp.StatusCode,
			"client_id", creds.ClientID,
		)
		return nil, &AuthError{Reason: ReasonRejected, StatusCode: resp.StatusCode}
	}

	var cred Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, &AuthError{Reason: ReasonMalformedResponse, Err: err}
	}
	if cred.AccessToken == "" || cred.JWTToken == "" {
		return nil, &AuthError{Reason: ReasonMalformedResponse}
	}
	return &cred, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
