package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrKeyNotFound = errors.New("jwks: key not found")

// KeySet resolves the RSA public key for a token's kid header.
type KeySet interface {
	Get(kid string) (*rsa.PublicKey, error)
}

type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksJSON struct {
	Keys []jwkKey `json:"keys"`
}

// JWKS caches the identity provider's signing keys and refreshes them periodically.
type JWKS struct {
	url    string
	client *resty.Client
	logger *zap.Logger

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey

	ticker *time.Ticker
	quit   chan struct{}
}

// NewJWKS loads the key set once and starts refreshing it every refreshInterval
// (15m when zero).
func NewJWKS(ctx context.Context, url string, refreshInterval time.Duration, logger *zap.Logger) (*JWKS, error) {
	if url == "" {
		return nil, errors.New("jwks: url is required")
	}
	if refreshInterval <= 0 {
		refreshInterval = 15 * time.Minute
	}
	j := &JWKS{
		url: url,
		client: resty.New().
			SetTimeout(10*time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(500*time.Millisecond).
			SetRetryMaxWaitTime(3*time.Second).
			SetHeader("Accept", "application/json"),
		logger: logger,
		keys:   map[string]*rsa.PublicKey{},
		ticker: time.NewTicker(refreshInterval),
		quit:   make(chan struct{}),
	}
	if err := j.refresh(ctx); err != nil {
		j.ticker.Stop()
		return nil, err
	}
	go j.loop()
	return j, nil
}

func (j *JWKS) loop() {
	for {
		select {
		case <-j.ticker.C:
			if err := j.refresh(context.Background()); err != nil {
				j.logger.Warn("jwks refresh failed", zap.String("url", j.url), zap.Error(err))
			}
		case <-j.quit:
			return
		}
	}
}

// Close stops background refresh.
func (j *JWKS) Close() {
	close(j.quit)
	j.ticker.Stop()
}

func (j *JWKS) refresh(ctx context.Context) error {
	var raw jwksJSON
	resp, err := j.client.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(j.url)
	if err != nil {
		return fmt.Errorf("jwks: fetch %s: %w", j.url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("jwks: fetch %s: status %d", j.url, resp.StatusCode())
	}

	keys, err := parseKeys(raw)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.keys = keys
	j.mu.Unlock()
	j.logger.Debug("jwks refreshed", zap.Int("keys", len(keys)))
	return nil
}

func parseKeys(raw jwksJSON) (map[string]*rsa.PublicKey, error) {
	keys := make(map[string]*rsa.PublicKey, len(raw.Keys))
	for _, k := range raw.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("jwks: key %s modulus: %w", k.Kid, err)
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("jwks: key %s exponent: %w", k.Kid, err)
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	}
	return keys, nil
}

// Get returns the key for kid, refreshing once when it is unknown (key rotation).
func (j *JWKS) Get(kid string) (*rsa.PublicKey, error) {
	j.mu.RLock()
	p := j.keys[kid]
	j.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	if err := j.refresh(context.Background()); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if p = j.keys[kid]; p == nil {
		return nil, ErrKeyNotFound
	}
	return p, nil
}

// StaticKeys is a fixed KeySet, used in tests and local tooling.
type StaticKeys map[string]*rsa.PublicKey

func (s StaticKeys) Get(kid string) (*rsa.PublicKey, error) {
	if p, ok := s[kid]; ok {
		return p, nil
	}
	return nil, ErrKeyNotFound
}
