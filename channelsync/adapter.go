package channelsync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

// SyncOutcome normalizes one adapter call. Adapters never let transport
// errors or non-2xx statuses escape as Go errors: everything becomes a
// reportable outcome.
type SyncOutcome struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Response string `json:"response,omitempty"`
}

// PlatformAdapter translates a generic "set price" intent into one
// platform's authenticated HTTP call.
type PlatformAdapter interface {
	Sync(ctx context.Context, integration *models.Integration, mapping *models.ChannelMapping, newPrice decimal.Decimal) SyncOutcome
}

// AdapterConfig is the explicit configuration passed into adapters at
// construction time. The fallback token replaces what used to be an ambient
// env lookup inside the call path.
type AdapterConfig struct {
	Timeout             time.Duration
	EbayBaseURL         string
	FallbackAccessToken string
}

func AdapterConfigFromEnv() AdapterConfig {
	cfg := AdapterConfig{
		Timeout:     20 * time.Second,
		EbayBaseURL: "https://api.ebay.com",
	}
	if v := strings.TrimSpace(os.Getenv("CHANNEL_SYNC_TIMEOUT_SECONDS")); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("EBAY_API_BASE_URL")); v != "" {
		cfg.EbayBaseURL = strings.TrimRight(v, "/")
	}
	cfg.FallbackAccessToken = strings.TrimSpace(os.Getenv("CHANNEL_FALLBACK_ACCESS_TOKEN"))
	return cfg
}

// Registry holds one adapter per supported platform, selected by the
// mapping's platform tag (case-insensitive). New platforms are added here,
// not by branching inside the coordinator.
type Registry struct {
	adapters map[string]PlatformAdapter
}

func NewRegistry(cfg AdapterConfig) *Registry {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	client := &http.Client{Timeout: cfg.Timeout}

	return &Registry{adapters: map[string]PlatformAdapter{
		models.PlatformShopify:     &shopifyAdapter{http: client, fallbackToken: cfg.FallbackAccessToken},
		models.PlatformWooCommerce: &wooCommerceAdapter{http: client},
		models.PlatformPrestaShop:  &prestaShopAdapter{http: client},
		models.PlatformAmazon:      &amazonAdapter{},
		models.PlatformEbay:        &ebayAdapter{http: client, baseURL: cfg.EbayBaseURL, fallbackToken: cfg.FallbackAccessToken},
	}}
}

func (r *Registry) Get(platform string) PlatformAdapter {
	return r.adapters[strings.ToLower(strings.TrimSpace(platform))]
}

// doJSON issues one authenticated JSON call and folds transport errors and
// non-2xx responses into a SyncOutcome.
func doJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, payload interface{}) SyncOutcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return SyncOutcome{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return SyncOutcome{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return SyncOutcome{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SyncOutcome{
			Success:  false,
			Error:    resp.Status,
			Response: strings.TrimSpace(string(raw)),
		}
	}
	return SyncOutcome{Success: true, Response: strings.TrimSpace(string(raw))}
}

// storeBaseURL normalizes a stored store_url into a request base: adds the
// https scheme when absent, strips the trailing slash.
func storeBaseURL(storeUrl string) string {
	u := strings.TrimRight(strings.TrimSpace(storeUrl), "/")
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}
