package sync

import (
	"strings"

	"github.com/digiprime/backend/internal/domain/trade"
)

// MapExternalStatus maps a marketplace status token to the internal order
// status. The mapping is total: unknown, empty, or garbled tokens fall back
// to PENDING so a single bad scrape row can never abort a batch.
//
// TO_SHIP, READY_TO_SHIP and PROCESSED all mean the seller still has work to
// do, so they land on PROCESSING. SHIPPED means the marketplace considers the
// order in transit but nothing has been fulfilled on our side yet, hence
// PENDING.
func MapExternalStatus(rawStatus string) trade.OrderStatus {
	switch strings.ToUpper(strings.TrimSpace(rawStatus)) {
	case "COMPLETED":
		return trade.OrderStatusCompleted
	case "CANCELLED":
		return trade.OrderStatusCancelled
	case "TO_SHIP", "READY_TO_SHIP", "PROCESSED":
		return trade.OrderStatusProcessing
	case "SHIPPED":
		return trade.OrderStatusPending
	default:
		return trade.OrderStatusPending
	}
}
