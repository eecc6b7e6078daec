package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarginPercent(t *testing.T) {
	cost := decimal.RequireFromString("10")

	got := MarginPercent(decimal.RequireFromString("25"), &cost)
	if !got.Equal(decimal.RequireFromString("60")) {
		t.Errorf("MarginPercent(25, 10) = %s, want 60", got)
	}

	if got := MarginPercent(decimal.RequireFromString("25"), nil); !got.IsZero() {
		t.Errorf("MarginPercent with nil cost = %s, want 0", got)
	}
	if got := MarginPercent(decimal.Zero, &cost); !got.IsZero() {
		t.Errorf("MarginPercent with zero price = %s, want 0", got)
	}

	// Selling below cost gives a negative margin.
	got = MarginPercent(decimal.RequireFromString("8"), &cost)
	if !got.Equal(decimal.RequireFromString("-25")) {
		t.Errorf("MarginPercent(8, 10) = %s, want -25", got)
	}
}

func TestPriceChangePercent(t *testing.T) {
	got := PriceChangePercent(decimal.RequireFromString("20"), decimal.RequireFromString("25"))
	if !got.Equal(decimal.RequireFromString("25")) {
		t.Errorf("PriceChangePercent(20, 25) = %s, want 25", got)
	}
	if got := PriceChangePercent(decimal.Zero, decimal.RequireFromString("25")); !got.IsZero() {
		t.Errorf("PriceChangePercent from zero = %s, want 0", got)
	}
}

func TestProductIdsRoundTrip(t *testing.T) {
	ids := []uint{3, 1, 2}
	got := DecodeProductIds(EncodeProductIds(ids))
	if len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Errorf("round trip = %v, want %v", got, ids)
	}

	if got := DecodeProductIds(nil); got != nil {
		t.Errorf("DecodeProductIds(nil) = %v, want nil", got)
	}
	if got := DecodeProductIds([]byte("not json")); got != nil {
		t.Errorf("DecodeProductIds(garbage) = %v, want nil", got)
	}
}

func TestIntegrationCredentials(t *testing.T) {
	i := &Integration{CredentialsJSON: []byte(`{"access_token":"tok","consumer_key":"ck"}`)}
	creds := i.Credentials()
	if creds.AccessToken != "tok" || creds.ConsumerKey != "ck" {
		t.Errorf("credentials = %+v", creds)
	}

	if creds := (&Integration{}).Credentials(); creds != (IntegrationCredentials{}) {
		t.Errorf("empty credentials = %+v, want zero value", creds)
	}
	if creds := (&Integration{CredentialsJSON: []byte("{")}).Credentials(); creds != (IntegrationCredentials{}) {
		t.Errorf("malformed credentials = %+v, want zero value", creds)
	}

	enabled := true
	if !(&Integration{Enabled: &enabled}).IsEnabled() {
		t.Error("enabled integration reported disabled")
	}
	if (&Integration{}).IsEnabled() {
		t.Error("nil enabled flag should mean disabled")
	}

	if got := (&Integration{Platform: " Shopify "}).PlatformKey(); got != "shopify" {
		t.Errorf("PlatformKey = %q, want shopify", got)
	}
}
