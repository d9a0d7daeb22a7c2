package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/energeticlee/heist-clone/config"
)

// HTTPMetadataProvider implements MetadataProvider against the metadata
// registry service.
type HTTPMetadataProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPMetadataProvider creates a new metadata provider
func NewHTTPMetadataProvider(cfg *config.Config, logger zerolog.Logger) *HTTPMetadataProvider {
	timeout := cfg.ExternalServices.MetadataService.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPMetadataProvider{
		baseURL: cfg.ExternalServices.MetadataService.BaseURL,
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
		logger: logger.With().Str("component", "metadata_provider").Logger(),
	}
}

// Lookup retrieves verified metadata for a mint from the registry
func (p *HTTPMetadataProvider) Lookup(ctx context.Context, mint string) (*NFTMetadata, error) {
	reqURL := fmt.Sprintf("%s/metadata/%s", p.baseURL, url.PathEscape(mint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to look up metadata: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata service returned status %d", resp.StatusCode)
	}

	var result struct {
		Data NFTMetadata `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.Data, nil
}
