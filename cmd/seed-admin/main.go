// Command seed-admin bootstraps a local database with an admin user and a
// small demo catalog (products, pricing rules, channel integrations and
// mappings) so the repricing and sync endpoints can be exercised end to end.
//
// Usage:
//
//	seed-admin -username admin -password <pw> [-demo]
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
	"github.com/shopopti/pricing_backend/utils"
)

func main() {
	username := flag.String("username", "admin", "username for the seeded admin account")
	password := flag.String("password", "", "password for the seeded admin account (required)")
	demo := flag.Bool("demo", false, "also seed demo products, pricing rules and channel mappings")
	flag.Parse()

	logger := config.GetLogger()

	if *password == "" {
		logger.Error("missing required flag: -password")
		os.Exit(2)
	}

	config.ConnectDatabaseWithRetry()
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedisWithRetry()
	}
	db := config.GetDB()
	models.MigrateTable()

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		config.LogError(logger, "seed-admin", "main", "hash password", nil, err)
		os.Exit(1)
	}

	user := models.User{
		Username: *username,
		Name:     "Administrator",
		Password: string(hashed),
		Role:     models.UserRoleAdmin,
	}
	created := db.Where("username = ?", *username).FirstOrCreate(&user)
	if created.Error != nil {
		config.LogError(logger, "seed-admin", "main", "create admin user", map[string]interface{}{"username": *username}, created.Error)
		os.Exit(1)
	}
	if created.RowsAffected == 0 {
		// Existing account: reset the password and drop the cached copy.
		if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
			config.LogError(logger, "seed-admin", "main", "reset admin password", map[string]interface{}{"username": *username}, err)
			os.Exit(1)
		}
		if err := config.RemoveRedisKey("User:" + user.Username); err != nil {
			config.LogError(logger, "seed-admin", "main", "invalidate user cache", map[string]interface{}{"username": *username}, err)
		}
	}
	logger.WithFields(logrus.Fields{
		"username": user.Username,
		"user_id":  user.ID.String(),
	}).Info("admin user ready")

	if !*demo {
		return
	}

	if err := seedDemoCatalog(user.ID.String()); err != nil {
		config.LogError(logger, "seed-admin", "main", "seed demo catalog", nil, err)
		os.Exit(1)
	}
	logger.Info("demo catalog seeded")
}

func seedDemoCatalog(userId string) error {
	db := config.GetDB()

	cost := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}

	products := []models.Product{
		{UserId: userId, Name: "Wireless Earbuds", Sku: "WB-100", Category: "electronics", SupplierId: "sup-alpha", Price: decimal.RequireFromString("29.99"), CostPrice: cost("12.00"), StockQuantity: 140, Status: "active"},
		{UserId: userId, Name: "Phone Stand", Sku: "PS-200", Category: "accessories", SupplierId: "sup-alpha", Price: decimal.RequireFromString("9.99"), CostPrice: cost("3.50"), StockQuantity: 8, Status: "active"},
		{UserId: userId, Name: "USB-C Hub", Sku: "UH-300", Category: "electronics", SupplierId: "sup-beta", Price: decimal.RequireFromString("44.50"), CostPrice: cost("21.00"), StockQuantity: 55, Status: "active"},
	}
	for i := range products {
		if err := db.Where("user_id = ? AND sku = ?", userId, products[i].Sku).
			FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}

	margin := decimal.RequireFromString("35")
	floor := decimal.RequireFromString("15")
	active := true
	rules := []models.PricingRule{
		{
			UserId:             userId,
			Name:               "Electronics fixed margin",
			Strategy:           models.StrategyFixedMargin,
			AppliesTo:          models.AppliesToCategory,
			CategoryFilter:     "electronics",
			FixedMarginPercent: &margin,
			MinMarginPercent:   &floor,
			RoundTo:            ".99",
			Priority:           10,
			IsActive:           &active,
		},
		{
			UserId:           userId,
			Name:             "Catalog dynamic",
			Strategy:         models.StrategyDynamic,
			AppliesTo:        models.AppliesToAll,
			MinMarginPercent: &floor,
			Priority:         50,
			IsActive:         &active,
		},
	}
	for i := range rules {
		if err := db.Where("user_id = ? AND name = ?", userId, rules[i].Name).
			FirstOrCreate(&rules[i]).Error; err != nil {
			return err
		}
	}

	creds, err := json.Marshal(models.IntegrationCredentials{AccessToken: "demo-token"})
	if err != nil {
		return err
	}
	enabled := true
	integration := models.Integration{
		UserId:          userId,
		Platform:        models.PlatformShopify,
		StoreUrl:        "demo-store.myshopify.com",
		CredentialsJSON: creds,
		Enabled:         &enabled,
	}
	if err := db.Where("user_id = ? AND platform = ? AND store_url = ?",
		userId, integration.Platform, integration.StoreUrl).
		FirstOrCreate(&integration).Error; err != nil {
		return err
	}

	mapping := models.ChannelMapping{
		UserId:            userId,
		ProductId:         products[0].ID,
		ChannelId:         integration.ID,
		Platform:          models.PlatformShopify,
		ExternalProductId: "1000001",
		ExternalVariantId: "2000001",
		SyncStatus:        models.SyncStatusPending,
	}
	return db.Where("user_id = ? AND product_id = ? AND channel_id = ?",
		userId, mapping.ProductId, mapping.ChannelId).
		FirstOrCreate(&mapping).Error
}
