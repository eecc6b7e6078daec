package channelsync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopopti/pricing_backend/models"
)

// NOTE: These tests are DB-free. Each adapter is pointed at an httptest
// server through the integration's store_url (eBay through the registry's
// base URL) so the exact wire shape can be asserted.

type capturedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]interface{}
}

func captureServer(t *testing.T, status int, respBody string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		captured.header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		captured.body = map[string]interface{}{}
		_ = json.Unmarshal(raw, &captured.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func integrationFor(t *testing.T, platform, storeUrl string, creds models.IntegrationCredentials) *models.Integration {
	t.Helper()
	raw, err := json.Marshal(creds)
	if err != nil {
		t.Fatalf("marshal credentials: %v", err)
	}
	enabled := true
	return &models.Integration{
		ID:              7,
		UserId:          "user-1",
		Platform:        platform,
		StoreUrl:        storeUrl,
		Enabled:         &enabled,
		CredentialsJSON: raw,
	}
}

func TestShopifyAdapter_VariantUpdate(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{"variant":{"id":222}}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformShopify, srv.URL, models.IntegrationCredentials{AccessToken: "shpat_test"})
	mapping := &models.ChannelMapping{
		Platform:          models.PlatformShopify,
		ExternalProductId: "111",
		ExternalVariantId: "222",
	}

	out := reg.Get(models.PlatformShopify).Sync(context.Background(), integ, mapping, decimal.RequireFromString("19.99"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if captured.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", captured.method)
	}
	if want := "/admin/api/2024-01/variants/222.json"; captured.path != want {
		t.Errorf("path = %s, want %s", captured.path, want)
	}
	if got := captured.header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
		t.Errorf("access token header = %q", got)
	}
	variant, _ := captured.body["variant"].(map[string]interface{})
	if variant == nil || variant["price"] != "19.99" {
		t.Errorf("payload = %v, want variant.price 19.99", captured.body)
	}
}

func TestShopifyAdapter_ProductFallback(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformShopify, srv.URL, models.IntegrationCredentials{AccessToken: "shpat_test"})
	mapping := &models.ChannelMapping{
		Platform:          models.PlatformShopify,
		ExternalProductId: "111",
	}

	out := reg.Get(models.PlatformShopify).Sync(context.Background(), integ, mapping, decimal.RequireFromString("12.5"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if want := "/admin/api/2024-01/products/111.json"; captured.path != want {
		t.Errorf("path = %s, want %s", captured.path, want)
	}
	product, _ := captured.body["product"].(map[string]interface{})
	variants, _ := product["variants"].([]interface{})
	if len(variants) != 1 {
		t.Fatalf("payload = %v, want one variant", captured.body)
	}
	if v, _ := variants[0].(map[string]interface{}); v["price"] != "12.50" {
		t.Errorf("variant price = %v, want 12.50", variants[0])
	}
}

func TestShopifyAdapter_MissingCredentials(t *testing.T) {
	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformShopify, "shop.example.com", models.IntegrationCredentials{})
	mapping := &models.ChannelMapping{ExternalProductId: "111"}

	out := reg.Get(models.PlatformShopify).Sync(context.Background(), integ, mapping, decimal.RequireFromString("10"))
	if out.Success {
		t.Fatal("expected failure without an access token")
	}
	if !strings.Contains(out.Error, "credentials") {
		t.Errorf("error = %q, want a credentials message", out.Error)
	}
}

func TestShopifyAdapter_FallbackToken(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second, FallbackAccessToken: "shared-token"})
	integ := integrationFor(t, models.PlatformShopify, srv.URL, models.IntegrationCredentials{})
	mapping := &models.ChannelMapping{ExternalProductId: "111"}

	out := reg.Get(models.PlatformShopify).Sync(context.Background(), integ, mapping, decimal.RequireFromString("10"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if got := captured.header.Get("X-Shopify-Access-Token"); got != "shared-token" {
		t.Errorf("access token header = %q, want the fallback token", got)
	}
}

func TestWooCommerceAdapter(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{"id":42}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformWooCommerce, srv.URL, models.IntegrationCredentials{
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	})
	mapping := &models.ChannelMapping{ExternalProductId: "42"}

	out := reg.Get(models.PlatformWooCommerce).Sync(context.Background(), integ, mapping, decimal.RequireFromString("7.25"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if want := "/wp-json/wc/v3/products/42"; captured.path != want {
		t.Errorf("path = %s, want %s", captured.path, want)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("ck_test:cs_test"))
	if got := captured.header.Get("Authorization"); got != wantAuth {
		t.Errorf("authorization = %q, want %q", got, wantAuth)
	}
	if captured.body["regular_price"] != "7.25" {
		t.Errorf("payload = %v, want regular_price 7.25", captured.body)
	}
}

func TestWooCommerceAdapter_VariationEndpoint(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformWooCommerce, srv.URL, models.IntegrationCredentials{
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	})
	mapping := &models.ChannelMapping{ExternalProductId: "42", ExternalVariantId: "43"}

	out := reg.Get(models.PlatformWooCommerce).Sync(context.Background(), integ, mapping, decimal.RequireFromString("7.25"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if want := "/wp-json/wc/v3/products/42/variations/43"; captured.path != want {
		t.Errorf("path = %s, want %s", captured.path, want)
	}
}

func TestPrestaShopAdapter(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformPrestaShop, srv.URL, models.IntegrationCredentials{ApiKey: "PSKEY"})
	mapping := &models.ChannelMapping{ExternalProductId: "9"}

	out := reg.Get(models.PlatformPrestaShop).Sync(context.Background(), integ, mapping, decimal.RequireFromString("30"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if want := "/api/products/9"; captured.path != want {
		t.Errorf("path = %s, want %s", captured.path, want)
	}
	if captured.query != "output_format=JSON" {
		t.Errorf("query = %q, want output_format=JSON", captured.query)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("PSKEY:"))
	if got := captured.header.Get("Authorization"); got != wantAuth {
		t.Errorf("authorization = %q, want %q", got, wantAuth)
	}
	product, _ := captured.body["product"].(map[string]interface{})
	if product == nil || product["price"] != "30.00" {
		t.Errorf("payload = %v, want product.price 30.00", captured.body)
	}
}

func TestEbayAdapter(t *testing.T) {
	srv, captured := captureServer(t, http.StatusNoContent, "")

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second, EbayBaseURL: srv.URL})
	integ := integrationFor(t, models.PlatformEbay, "", models.IntegrationCredentials{AccessToken: "ebay-token"})
	mapping := &models.ChannelMapping{ExternalProductId: "offer-1"}

	out := reg.Get(models.PlatformEbay).Sync(context.Background(), integ, mapping, decimal.RequireFromString("15.5"))
	if !out.Success {
		t.Fatalf("sync failed: %s", out.Error)
	}
	if captured.method != http.MethodPost {
		t.Errorf("method = %s, want POST", captured.method)
	}
	if want := "/sell/inventory/v1/offers/offer-1/update_price_quantity"; captured.path != want {
		t.Errorf("path = %s, want %s", captured.path, want)
	}
	if got := captured.header.Get("Authorization"); got != "Bearer ebay-token" {
		t.Errorf("authorization = %q", got)
	}
	summary, _ := captured.body["pricingSummary"].(map[string]interface{})
	price, _ := summary["price"].(map[string]interface{})
	if price == nil || price["value"] != "15.50" || price["currency"] != "USD" {
		t.Errorf("payload = %v, want pricingSummary.price 15.50 USD", captured.body)
	}
}

func TestAmazonAdapter_AlwaysFails(t *testing.T) {
	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformAmazon, "", models.IntegrationCredentials{AccessToken: "x"})
	mapping := &models.ChannelMapping{ExternalProductId: "ASIN1"}

	out := reg.Get(models.PlatformAmazon).Sync(context.Background(), integ, mapping, decimal.RequireFromString("10"))
	if out.Success {
		t.Fatal("Amazon adapter should fail until SP-API is wired")
	}
	if !strings.Contains(out.Error, "SP-API") {
		t.Errorf("error = %q, want an SP-API message", out.Error)
	}
}

func TestAdapter_NonSuccessStatusBecomesOutcome(t *testing.T) {
	srv, _ := captureServer(t, http.StatusUnprocessableEntity, `{"errors":"price invalid"}`)

	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})
	integ := integrationFor(t, models.PlatformShopify, srv.URL, models.IntegrationCredentials{AccessToken: "shpat_test"})
	mapping := &models.ChannelMapping{ExternalProductId: "111"}

	out := reg.Get(models.PlatformShopify).Sync(context.Background(), integ, mapping, decimal.RequireFromString("10"))
	if out.Success {
		t.Fatal("expected failure on 422")
	}
	if !strings.Contains(out.Error, "422") {
		t.Errorf("error = %q, want the HTTP status", out.Error)
	}
	if !strings.Contains(out.Response, "price invalid") {
		t.Errorf("response = %q, want the API body", out.Response)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry(AdapterConfig{Timeout: 5 * time.Second})

	if reg.Get("Shopify") == nil {
		t.Error("platform lookup should be case-insensitive")
	}
	if reg.Get(" woocommerce ") == nil {
		t.Error("platform lookup should trim whitespace")
	}
	if reg.Get("magento") != nil {
		t.Error("unknown platform should return nil")
	}
}

func TestStoreBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"shop.example.com", "https://shop.example.com"},
		{"https://shop.example.com/", "https://shop.example.com"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := storeBaseURL(tc.in); got != tc.want {
			t.Errorf("storeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
