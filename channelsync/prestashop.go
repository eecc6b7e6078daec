package channelsync

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

type prestaShopAdapter struct {
	http *http.Client
}

func (a *prestaShopAdapter) Sync(ctx context.Context, integration *models.Integration, mapping *models.ChannelMapping, newPrice decimal.Decimal) SyncOutcome {
	creds := integration.Credentials()
	base := storeBaseURL(integration.StoreUrl)
	if creds.ApiKey == "" || base == "" {
		return SyncOutcome{Success: false, Error: "missing PrestaShop credentials"}
	}

	// PrestaShop webservice auth: API key as basic-auth username, blank
	// password.
	auth := base64.StdEncoding.EncodeToString([]byte(creds.ApiKey + ":"))
	headers := map[string]string{"Authorization": "Basic " + auth}

	url := fmt.Sprintf("%s/api/products/%s?output_format=JSON", base, mapping.ExternalProductId)
	payload := map[string]interface{}{
		"product": map[string]interface{}{
			"price": newPrice.StringFixed(2),
		},
	}
	return doJSON(ctx, a.http, http.MethodPut, url, headers, payload)
}
