package channelsync

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

type ebayAdapter struct {
	http          *http.Client
	baseURL       string
	fallbackToken string
}

func (a *ebayAdapter) Sync(ctx context.Context, integration *models.Integration, mapping *models.ChannelMapping, newPrice decimal.Decimal) SyncOutcome {
	creds := integration.Credentials()
	token := creds.AccessToken
	if token == "" {
		token = a.fallbackToken
	}
	if token == "" {
		return SyncOutcome{Success: false, Error: "missing eBay credentials"}
	}

	base := strings.TrimRight(a.baseURL, "/")
	if base == "" {
		base = "https://api.ebay.com"
	}

	headers := map[string]string{"Authorization": "Bearer " + token}

	// The mapping's external product id is the eBay offer id; a variant id
	// addresses one SKU inside a multi-variation listing.
	offerId := mapping.ExternalProductId
	if mapping.ExternalVariantId != "" {
		offerId = mapping.ExternalVariantId
	}

	url := fmt.Sprintf("%s/sell/inventory/v1/offers/%s/update_price_quantity", base, offerId)
	payload := map[string]interface{}{
		"pricingSummary": map[string]interface{}{
			"price": map[string]interface{}{
				"value":    newPrice.StringFixed(2),
				"currency": "USD",
			},
		},
	}
	return doJSON(ctx, a.http, http.MethodPost, url, headers, payload)
}
