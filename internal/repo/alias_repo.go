// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file resolves location aliases to canonical names.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ResolveAlias maps a normalized phrase to its canonical place name via the
// location_aliases table. A missing alias is not an error: it returns ("",
// nil) so callers can fall back to the phrase itself. Storage failures
// propagate.
func ResolveAlias(ctx context.Context, db *gorm.DB, alias string) (string, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return "", nil
	}
	var rec domain.LocationAlias
	err := db.WithContext(ctx).
		Where("alias = ?", alias).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.CanonicalName, nil
}
