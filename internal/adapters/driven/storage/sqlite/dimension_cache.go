package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
	"github.com/custodia-labs/dbgm/internal/logger"
)

// dimensionCache implements driven.DimensionCache.
type dimensionCache struct {
	store *Store
}

var _ driven.DimensionCache = (*dimensionCache)(nil)

var log = logger.New("sqlite")

// Get returns the cached size for a fingerprint. Lookup failures are
// treated as misses.
func (c *dimensionCache) Get(fingerprint string) (domain.Size, bool) {
	var w, h int64
	err := c.store.db.QueryRowContext(context.Background(),
		"SELECT width, height FROM dimensions WHERE fingerprint = ?",
		fingerprint,
	).Scan(&w, &h)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn("Dimension cache lookup failed: %v", err)
		}
		return domain.Size{}, false
	}
	return domain.Size{W: uint32(w), H: uint32(h)}, true
}

// Put stores or replaces the size for a fingerprint.
func (c *dimensionCache) Put(fingerprint string, size domain.Size) error {
	if size.W == 0 || size.H == 0 {
		return fmt.Errorf("%w: empty size %s", domain.ErrInvalidInput, size)
	}
	_, err := c.store.db.ExecContext(context.Background(), `
		INSERT INTO dimensions (fingerprint, width, height, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(fingerprint) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			updated_at = excluded.updated_at
	`, fingerprint, int64(size.W), int64(size.H))
	if err != nil {
		return fmt.Errorf("storing dimensions: %w", err)
	}
	return nil
}

// Forget removes a fingerprint.
func (c *dimensionCache) Forget(fingerprint string) error {
	_, err := c.store.db.ExecContext(context.Background(),
		"DELETE FROM dimensions WHERE fingerprint = ?",
		fingerprint,
	)
	if err != nil {
		return fmt.Errorf("deleting dimensions: %w", err)
	}
	return nil
}
