package sync

// ExternalOrder is the wire shape produced by the marketplace scraper
// (browser extension, userscript, or pasted JSON). Every field except the
// order number and buyer name is best-effort: the scraper reads rendered
// HTML, so any of them can be missing or garbled.
type ExternalOrder struct {
	OrderSN     string  `json:"order_sn"`
	BuyerName   string  `json:"buyer_name"`
	ItemName    string  `json:"item_name,omitempty"`
	OrderStatus string  `json:"order_status,omitempty"`
	TotalAmount float64 `json:"total_amount,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	CreateTime  int64   `json:"create_time,omitempty"` // Unix epoch seconds
}

// Outcome classifies what the reconciler did with one external record
type Outcome string

const (
	// OutcomeSynced means the record was inserted or its status refreshed
	OutcomeSynced Outcome = "synced"
	// OutcomeSkipped means the record was malformed and ignored; this is an
	// expected condition for scraped data, not an error
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means a store fault occurred for this record only
	OutcomeFailed Outcome = "failed"
)

// RecordResult is the per-record reconciliation outcome
type RecordResult struct {
	Outcome Outcome
	Error   string
}

// BatchStats aggregates per-record outcomes across one sync batch
type BatchStats struct {
	Synced  int      `json:"synced"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// Add folds one record result into the batch counters
func (s *BatchStats) Add(r RecordResult) {
	switch r.Outcome {
	case OutcomeSynced:
		s.Synced++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
		if r.Error != "" {
			s.Errors = append(s.Errors, r.Error)
		}
	}
}
