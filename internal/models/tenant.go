package models

import (
	"fmt"
	"strings"
	"time"
)

// Tenant represents a single store account, the unit of data isolation
type Tenant struct {
	ID         string    `json:"id" db:"id"`
	ShopDomain string    `json:"shop_domain" db:"shop_domain"`
	Name       string    `json:"name" db:"name"`
	APIKeyHash string    `json:"-" db:"api_key_hash"`
	Plan       string    `json:"plan" db:"plan"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks if the tenant fields are valid
func (t *Tenant) Validate() error {
	if t.ShopDomain == "" {
		return fmt.Errorf("shop domain is required")
	}
	if strings.Contains(t.ShopDomain, "/") {
		return fmt.Errorf("shop domain must be a bare hostname")
	}
	if t.Name == "" {
		return fmt.Errorf("tenant name is required")
	}
	return nil
}

// StoreURL returns the public storefront URL for the tenant.
func (t *Tenant) StoreURL() string {
	return "https://" + t.ShopDomain
}

// ProductURL returns the destination link for a product handle,
// falling back to the bare storefront when no handle is available.
func (t *Tenant) ProductURL(handle *string) string {
	if handle != nil && *handle != "" {
		return t.StoreURL() + "/products/" + *handle
	}
	return t.StoreURL()
}
