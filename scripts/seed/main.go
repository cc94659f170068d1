package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"adscribe/internal/config"
	"adscribe/internal/crypto"
	"adscribe/internal/middleware"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const demoShopDomain = "demo-shop.myshopify.com"

func main() {
	_ = godotenv.Load()

	clearFlag := flag.Bool("clear", false, "Remove previously seeded demo data before seeding")
	draftsFlag := flag.Int("drafts", 3, "Number of sample ad drafts to create")
	flag.Parse()

	printInfo("=== Adscribe Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	if *clearFlag {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	tenantID, apiKey, err := seedTenant(db)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed tenant: %v", err))
		os.Exit(1)
	}

	if err := seedIntegration(db, cfg, tenantID); err != nil {
		printError(fmt.Sprintf("Failed to seed integration: %v", err))
		os.Exit(1)
	}

	if err := seedDrafts(db, tenantID, *draftsFlag); err != nil {
		printError(fmt.Sprintf("Failed to seed drafts: %v", err))
		os.Exit(1)
	}

	printSuccess("\n✓ Seeding completed")
	printInfo(fmt.Sprintf("\nDemo tenant: %s", demoShopDomain))
	printInfo(fmt.Sprintf("Tenant ID:   %s", tenantID))
	if apiKey != "" {
		printWarning(fmt.Sprintf("API key:     %s (shown once, store it now)", apiKey))
	}
}

// clearSeedData removes all data belonging to the demo tenant
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing demo data...")

	var tenantID string
	err := db.QueryRow("SELECT id FROM tenants WHERE shop_domain = $1", demoShopDomain).Scan(&tenantID)
	if err == sql.ErrNoRows {
		printInfo("  No demo tenant found, nothing to clear")
		return nil
	}
	if err != nil {
		return err
	}

	for _, q := range []string{
		"DELETE FROM ad_drafts WHERE tenant_id = $1",
		"DELETE FROM integrations WHERE tenant_id = $1",
		"DELETE FROM tenants WHERE id = $1",
	} {
		if _, err := db.Exec(q, tenantID); err != nil {
			return err
		}
	}

	printSuccess("  ✓ Demo data cleared")
	return nil
}

// seedTenant creates the demo tenant and returns its id and plaintext API key.
// If the tenant already exists the API key is not regenerated.
func seedTenant(db *sql.DB) (string, string, error) {
	var existingID string
	err := db.QueryRow("SELECT id FROM tenants WHERE shop_domain = $1", demoShopDomain).Scan(&existingID)
	if err == nil {
		printInfo("Demo tenant already exists, skipping")
		return existingID, "", nil
	}
	if err != sql.ErrNoRows {
		return "", "", err
	}

	printInfo("Seeding demo tenant...")

	id := uuid.NewString()
	apiKey := "ask_" + uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO tenants (id, shop_domain, name, api_key_hash, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		id, demoShopDomain, "Demo Shop", middleware.HashAPIKey(apiKey), "free",
	)
	if err != nil {
		return "", "", err
	}

	printSuccess("  ✓ Tenant created")
	return id, apiKey, nil
}

// seedIntegration stores a placeholder Facebook connection with an encrypted
// sandbox token so the publish pipeline can be exercised end to end.
func seedIntegration(db *sql.DB, cfg *config.Config, tenantID string) error {
	printInfo("Seeding Facebook integration...")

	cipher, err := crypto.NewTokenCipher(cfg.Auth.EncryptionKey)
	if err != nil {
		return err
	}

	tokenEnc, err := cipher.Encrypt("sandbox-access-token")
	if err != nil {
		return err
	}

	pageID := "100000000000001"
	_, err = db.Exec(`
		INSERT INTO integrations (id, tenant_id, platform, access_token_enc, ad_account_id, page_id, active, created_at, updated_at)
		VALUES ($1, $2, 'facebook', $3, $4, $5, TRUE, NOW(), NOW())
		ON CONFLICT (tenant_id, platform) DO UPDATE SET
			access_token_enc = EXCLUDED.access_token_enc,
			active = TRUE,
			updated_at = NOW()`,
		uuid.NewString(), tenantID, tokenEnc, "act_123456789", pageID,
	)
	if err != nil {
		return err
	}

	printSuccess("  ✓ Integration created")
	return nil
}

// seedDrafts creates n sample ad drafts in the draft state
func seedDrafts(db *sql.DB, tenantID string, n int) error {
	printInfo(fmt.Sprintf("Seeding %d sample drafts...", n))

	titles := []string{
		"Summer Sale - 20% Off Everything",
		"New Arrivals Just Dropped",
		"Free Shipping This Weekend",
		"Back In Stock: Bestsellers",
		"Limited Edition Collection",
	}
	copies := []string{
		"Shop our biggest sale of the season before it ends.",
		"Fresh styles, same quality. See what's new today.",
		"No minimum order. Treat yourself this weekend.",
		"Your favorites are back. Grab them before they sell out again.",
		"Once they're gone, they're gone. Shop the drop now.",
	}
	handles := []string{"summer-sale-tee", "new-arrival-hoodie", "classic-sneaker", "bestseller-bag", "limited-jacket"}

	for i := 0; i < n; i++ {
		title := titles[i%len(titles)]
		body := copies[i%len(copies)]
		handle := handles[i%len(handles)]
		imageURL := fmt.Sprintf("https://cdn.example.com/products/%s.jpg", handle)

		_, err := db.Exec(`
			INSERT INTO ad_drafts (id, tenant_id, ad_title, ad_copy, image_urls, campaign_id, product_handle, status, retry_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'draft', 0, NOW(), NOW())`,
			uuid.NewString(), tenantID, title, body, pq.Array([]string{imageURL}), "120000000000001", handle,
		)
		if err != nil {
			return err
		}
	}

	printSuccess(fmt.Sprintf("  ✓ Created %d drafts", n))
	return nil
}

func printInfo(msg string)    { fmt.Println(colorCyan + msg + colorReset) }
func printSuccess(msg string) { fmt.Println(colorGreen + msg + colorReset) }
func printWarning(msg string) { fmt.Println(colorYellow + msg + colorReset) }
func printError(msg string)   { fmt.Println(colorRed + msg + colorReset) }
