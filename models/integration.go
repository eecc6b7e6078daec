package models

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	PlatformShopify     = "shopify"
	PlatformWooCommerce = "woocommerce"
	PlatformPrestaShop  = "prestashop"
	PlatformAmazon      = "amazon"
	PlatformEbay        = "ebay"
)

// Integration links an owner to one connected external store. Credentials
// are stored as a JSON blob whose shape depends on the platform. Read-only
// from the pricing subsystem's perspective.
type Integration struct {
	ID       uint   `gorm:"primary_key" json:"id"`
	UserId   string `gorm:"index;size:36;not null" json:"user_id"`
	Platform string `gorm:"index;size:30;not null" json:"platform"`
	StoreUrl string `gorm:"size:255" json:"store_url"`
	Enabled  *bool  `gorm:"not null;default:true" json:"enabled"`

	CredentialsJSON []byte `gorm:"type:json" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IntegrationCredentials is the platform-specific auth material: a single
// access token (Shopify, eBay), or a key/secret pair (WooCommerce), or a
// lone API key (PrestaShop).
type IntegrationCredentials struct {
	AccessToken    string `json:"access_token"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	ApiKey         string `json:"api_key"`
}

func (i *Integration) Credentials() IntegrationCredentials {
	var creds IntegrationCredentials
	if len(i.CredentialsJSON) == 0 {
		return creds
	}
	if err := json.Unmarshal(i.CredentialsJSON, &creds); err != nil {
		return IntegrationCredentials{}
	}
	return creds
}

func (i *Integration) IsEnabled() bool {
	return i.Enabled != nil && *i.Enabled
}

func (i *Integration) PlatformKey() string {
	return strings.ToLower(strings.TrimSpace(i.Platform))
}

// GetIntegrationsByIds batch-loads the distinct integrations referenced by a
// set of channel mappings, keyed by id.
func GetIntegrationsByIds(ctx context.Context, db *gorm.DB, userId string, ids []uint) (map[uint]*Integration, error) {
	result := make(map[uint]*Integration, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []Integration
	if err := db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userId).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for idx := range rows {
		result[rows[idx].ID] = &rows[idx]
	}
	return result, nil
}
