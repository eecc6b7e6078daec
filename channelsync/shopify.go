package channelsync

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

const shopifyApiVersion = "2024-01"

type shopifyAdapter struct {
	http          *http.Client
	fallbackToken string
}

func (a *shopifyAdapter) Sync(ctx context.Context, integration *models.Integration, mapping *models.ChannelMapping, newPrice decimal.Decimal) SyncOutcome {
	creds := integration.Credentials()
	token := creds.AccessToken
	if token == "" {
		token = a.fallbackToken
	}
	base := storeBaseURL(integration.StoreUrl)
	if token == "" || base == "" {
		return SyncOutcome{Success: false, Error: "missing Shopify credentials"}
	}

	headers := map[string]string{"X-Shopify-Access-Token": token}
	price := newPrice.StringFixed(2)

	// Variant-level endpoint when the mapping knows its variant, otherwise
	// the product-level endpoint.
	if mapping.ExternalVariantId != "" {
		url := fmt.Sprintf("%s/admin/api/%s/variants/%s.json", base, shopifyApiVersion, mapping.ExternalVariantId)
		payload := map[string]interface{}{
			"variant": map[string]interface{}{
				"id":    mapping.ExternalVariantId,
				"price": price,
			},
		}
		return doJSON(ctx, a.http, http.MethodPut, url, headers, payload)
	}

	url := fmt.Sprintf("%s/admin/api/%s/products/%s.json", base, shopifyApiVersion, mapping.ExternalProductId)
	payload := map[string]interface{}{
		"product": map[string]interface{}{
			"id": mapping.ExternalProductId,
			"variants": []map[string]interface{}{
				{"price": price},
			},
		},
	}
	return doJSON(ctx, a.http, http.MethodPut, url, headers, payload)
}
