package redisx

import (
	"fmt"
	"time"
)

const (
	// Public catalog listing (available products only): catalog:public
	KeyCatalogPublic = "catalog:public"

	// Full catalog listing for admins: catalog:admin
	KeyCatalogAdmin = "catalog:admin"

	// Per-user order history: orders:{user_id}
	KeyUserOrders = "orders:%d"

	// Unscoped order listing for admins: orders:admin
	KeyAdminOrders = "orders:admin"
)

// Catalog entries live long because products change rarely. Order entries
// are short-lived: they are explicitly invalidated on every write, so the
// TTL is only a staleness bound in case an invalidation is ever missed.
var (
	TTLCatalog = time.Hour
	TTLOrders  = 5 * time.Minute
)

func UserOrdersKey(userID int64) string {
	return fmt.Sprintf(KeyUserOrders, userID)
}
