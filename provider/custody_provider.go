package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/energeticlee/heist-clone/config"
)

// HTTPCustodyProvider implements CustodyProvider against the ledger gateway.
type HTTPCustodyProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPCustodyProvider creates a new custody provider
func NewHTTPCustodyProvider(cfg *config.Config, logger zerolog.Logger) *HTTPCustodyProvider {
	timeout := cfg.ExternalServices.CustodyService.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPCustodyProvider{
		baseURL: cfg.ExternalServices.CustodyService.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				MaxConnsPerHost:     100,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
		logger: logger.With().Str("component", "custody_provider").Logger(),
	}
}

func (p *HTTPCustodyProvider) post(ctx context.Context, path string, payload map[string]interface{}) error {
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("custody call %s failed: %w", path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("custody call %s returned status %d", path, resp.StatusCode)
	}

	return nil
}

// Delegate grants the stake authority custody over the player's NFT
func (p *HTTPCustodyProvider) Delegate(ctx context.Context, owner, mint, delegate string) error {
	return p.post(ctx, "/custody/delegate", map[string]interface{}{
		"owner":    owner,
		"mint":     mint,
		"delegate": delegate,
		"amount":   1,
	})
}

// Revoke returns custody control to the owner
func (p *HTTPCustodyProvider) Revoke(ctx context.Context, owner, mint string) error {
	return p.post(ctx, "/custody/revoke", map[string]interface{}{
		"owner": owner,
		"mint":  mint,
	})
}

// Transfer moves reward tokens between accounts
func (p *HTTPCustodyProvider) Transfer(ctx context.Context, asset, source, destination string, amount decimal.Decimal) error {
	return p.post(ctx, "/custody/transfer", map[string]interface{}{
		"asset":       asset,
		"source":      source,
		"destination": destination,
		"amount":      amount,
	})
}
