package coupon

import "sync"

// Catalog is the set of registered coupons, keyed by unique code and ordered
// by registration. Coupons are immutable after registration, so readers only
// need a consistent view of the slice and index; an RWMutex provides that
// while letting concurrent selections proceed in parallel.
type Catalog struct {
	mu    sync.RWMutex
	order []*Coupon
	index map[string]*Coupon
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]*Coupon)}
}

// Register appends the coupon to the catalog. It returns ErrDuplicateCode
// when a coupon with the same code is already registered; the original entry
// is retained.
func (c *Catalog) Register(cp *Coupon) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[cp.Code]; exists {
		return ErrDuplicateCode
	}
	c.index[cp.Code] = cp
	c.order = append(c.order, cp)
	return nil
}

// List returns a snapshot of all registered coupons in registration order.
// The returned slice is owned by the caller; the coupons it points at are
// shared but never mutated.
func (c *Catalog) List() []*Coupon {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]*Coupon, len(c.order))
	copy(snapshot, c.order)
	return snapshot
}

// Len returns the number of registered coupons.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
