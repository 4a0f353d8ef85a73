package trade

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/digiprime/backend/internal/domain/shared"
)

// BuyerMetaKind tags the buyer metadata variant
type BuyerMetaKind string

const (
	// BuyerMetaStandard carries no extra metadata
	BuyerMetaStandard BuyerMetaKind = "standard"
	// BuyerMetaWarranty records a warranty replacement issued for the order
	BuyerMetaWarranty BuyerMetaKind = "warranty"
	// BuyerMetaFulfillment carries free-form fulfillment instructions
	BuyerMetaFulfillment BuyerMetaKind = "fulfillment"
)

// BuyerMeta is structured per-order metadata that used to be string-encoded
// into the buyer name with [WARRANTY] / (Info: ...) markers. It is stored as
// a jsonb column; only the fields of the active variant are populated.
type BuyerMeta struct {
	Kind                BuyerMetaKind `json:"kind"`
	ReplacementEmail    string        `json:"replacement_email,omitempty"`
	ReplacementPassword string        `json:"replacement_password,omitempty"`
	Note                string        `json:"note,omitempty"`
	Info                string        `json:"info,omitempty"`
}

// StandardBuyerMeta returns the empty standard variant
func StandardBuyerMeta() BuyerMeta {
	return BuyerMeta{Kind: BuyerMetaStandard}
}

// WarrantyBuyerMeta returns a warranty variant
func WarrantyBuyerMeta(replacementEmail, replacementPassword, note string) BuyerMeta {
	return BuyerMeta{
		Kind:                BuyerMetaWarranty,
		ReplacementEmail:    replacementEmail,
		ReplacementPassword: replacementPassword,
		Note:                note,
	}
}

// FulfillmentBuyerMeta returns a fulfillment variant
func FulfillmentBuyerMeta(info string) BuyerMeta {
	return BuyerMeta{
		Kind: BuyerMetaFulfillment,
		Info: info,
	}
}

// Validate checks variant consistency
func (m BuyerMeta) Validate() error {
	switch m.Kind {
	case BuyerMetaStandard:
		return nil
	case BuyerMetaWarranty:
		if m.ReplacementEmail == "" && m.ReplacementPassword == "" && m.Note == "" {
			return shared.NewDomainError("INVALID_BUYER_META", "Warranty metadata must carry at least one field")
		}
		return nil
	case BuyerMetaFulfillment:
		if m.Info == "" {
			return shared.NewDomainError("INVALID_BUYER_META", "Fulfillment metadata requires info")
		}
		return nil
	default:
		return shared.NewDomainError("INVALID_BUYER_META", "Unknown buyer metadata kind: "+string(m.Kind))
	}
}

// Value implements driver.Valuer for jsonb storage
func (m BuyerMeta) Value() (driver.Value, error) {
	if m.Kind == "" {
		m.Kind = BuyerMetaStandard
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage
func (m *BuyerMeta) Scan(value interface{}) error {
	if value == nil {
		*m = StandardBuyerMeta()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BuyerMeta", value)
	}

	if len(data) == 0 {
		*m = StandardBuyerMeta()
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return errors.New("malformed buyer metadata: " + err.Error())
	}
	if m.Kind == "" {
		m.Kind = BuyerMetaStandard
	}
	return nil
}
