package sync

import (
	"strings"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// MatchProduct resolves a free-text marketplace item name to a product in the
// active catalog snapshot. Precedence, first success wins:
//
//  1. case-insensitive exact equality
//  2. case-insensitive substring containment in either direction
//
// Marketplace item names are operator-typed free text, so containment is the
// best we can promise. When nothing matches the result is nil: the order is
// stored without a product reference and surfaced in the needs-mapping queue
// instead of being silently attached to an arbitrary catalog entry.
func MatchProduct(itemName string, catalogSnapshot []catalog.Product) *uuid.UUID {
	needle := strings.ToLower(strings.TrimSpace(itemName))
	if needle == "" || len(catalogSnapshot) == 0 {
		return nil
	}

	for i := range catalogSnapshot {
		if strings.ToLower(catalogSnapshot[i].Name) == needle {
			id := catalogSnapshot[i].ID
			return &id
		}
	}

	for i := range catalogSnapshot {
		name := strings.ToLower(catalogSnapshot[i].Name)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			id := catalogSnapshot[i].ID
			return &id
		}
	}

	return nil
}
