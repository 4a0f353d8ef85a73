package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyerMeta_Validate(t *testing.T) {
	t.Run("standard is always valid", func(t *testing.T) {
		assert.NoError(t, StandardBuyerMeta().Validate())
	})

	t.Run("warranty requires at least one field", func(t *testing.T) {
		assert.Error(t, BuyerMeta{Kind: BuyerMetaWarranty}.Validate())
		assert.NoError(t, WarrantyBuyerMeta("r@mail.com", "", "").Validate())
		assert.NoError(t, WarrantyBuyerMeta("", "", "resent code").Validate())
	})

	t.Run("fulfillment requires info", func(t *testing.T) {
		assert.Error(t, BuyerMeta{Kind: BuyerMetaFulfillment}.Validate())
		assert.NoError(t, FulfillmentBuyerMeta("deliver to alt email").Validate())
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		assert.Error(t, BuyerMeta{Kind: "vip"}.Validate())
	})
}

func TestBuyerMeta_ValueScan(t *testing.T) {
	t.Run("round trips through jsonb", func(t *testing.T) {
		original := WarrantyBuyerMeta("r@mail.com", "pw123", "second replacement")

		value, err := original.Value()
		require.NoError(t, err)

		var scanned BuyerMeta
		require.NoError(t, scanned.Scan(value))
		assert.Equal(t, original, scanned)
	})

	t.Run("nil column scans as standard", func(t *testing.T) {
		var meta BuyerMeta
		require.NoError(t, meta.Scan(nil))
		assert.Equal(t, BuyerMetaStandard, meta.Kind)
	})

	t.Run("string column supported", func(t *testing.T) {
		var meta BuyerMeta
		require.NoError(t, meta.Scan(`{"kind":"fulfillment","info":"alt account"}`))
		assert.Equal(t, BuyerMetaFulfillment, meta.Kind)
		assert.Equal(t, "alt account", meta.Info)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		var meta BuyerMeta
		require.Error(t, meta.Scan("{not json"))
	})
}
