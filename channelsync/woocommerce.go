package channelsync

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

type wooCommerceAdapter struct {
	http *http.Client
}

func (a *wooCommerceAdapter) Sync(ctx context.Context, integration *models.Integration, mapping *models.ChannelMapping, newPrice decimal.Decimal) SyncOutcome {
	creds := integration.Credentials()
	base := storeBaseURL(integration.StoreUrl)
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" || base == "" {
		return SyncOutcome{Success: false, Error: "missing WooCommerce credentials"}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(creds.ConsumerKey + ":" + creds.ConsumerSecret))
	headers := map[string]string{"Authorization": "Basic " + auth}

	url := fmt.Sprintf("%s/wp-json/wc/v3/products/%s", base, mapping.ExternalProductId)
	if mapping.ExternalVariantId != "" {
		url = fmt.Sprintf("%s/wp-json/wc/v3/products/%s/variations/%s", base, mapping.ExternalProductId, mapping.ExternalVariantId)
	}

	payload := map[string]interface{}{
		"regular_price": newPrice.StringFixed(2),
	}
	return doJSON(ctx, a.http, http.MethodPut, url, headers, payload)
}
