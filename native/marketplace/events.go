package marketplace

import (
	"encoding/hex"
	"strconv"

	"accesschain/core/types"
)

const (
	EventTypeAppCreated        = "marketplace.app.created"
	EventTypeAssetCreated      = "marketplace.asset.created"
	EventTypeAssetPriceUpdated = "marketplace.asset.price_updated"
	EventTypeAssetPurchased    = "marketplace.asset.purchased"
	EventTypeAssetShared       = "marketplace.asset.shared"
	EventTypeAssetUsed         = "marketplace.asset.used"
	EventTypeAssetDeleted      = "marketplace.asset.deleted"
	EventTypePaymentRefunded   = "marketplace.payment.refunded"
	EventTypePaymentWithdrawn  = "marketplace.payment.withdrawn"
)

// NewAppCreatedEvent returns the canonical payload for a newly registered app.
func NewAppCreatedEvent(a *App) *types.Event {
	attrs := make(map[string]string)
	if a != nil {
		attrs["address"] = hex.EncodeToString(a.Address[:])
		attrs["authority"] = hex.EncodeToString(a.Authority[:])
		attrs["name"] = a.Name
		attrs["feeBasisPoints"] = strconv.FormatUint(uint64(a.FeeBasisPoints), 10)
	}
	return &types.Event{Type: EventTypeAppCreated, Attributes: attrs}
}

// NewAssetCreatedEvent returns the canonical payload for a new listing.
func NewAssetCreatedEvent(a *Asset) *types.Event {
	return newAssetEvent(EventTypeAssetCreated, a, nil)
}

// NewAssetPriceUpdatedEvent returns the payload emitted when the seller edits
// the listing price.
func NewAssetPriceUpdatedEvent(a *Asset, previous uint64) *types.Event {
	return newAssetEvent(EventTypeAssetPriceUpdated, a, map[string]string{
		"previousPrice": strconv.FormatUint(previous, 10),
	})
}

// NewAssetPurchasedEvent returns the payload for a completed purchase.
func NewAssetPurchasedEvent(a *Asset, p *Payment) *types.Event {
	extra := map[string]string{}
	if p != nil {
		extra["payment"] = hex.EncodeToString(p.Address[:])
		extra["buyer"] = hex.EncodeToString(p.Buyer[:])
		extra["exemplars"] = strconv.FormatUint(p.Exemplars, 10)
		extra["totalAmount"] = strconv.FormatUint(p.TotalAmount, 10)
		extra["refundConsumedAt"] = strconv.FormatInt(p.RefundConsumedAt, 10)
	}
	return newAssetEvent(EventTypeAssetPurchased, a, extra)
}

// NewAssetSharedEvent returns the payload for a free distribution.
func NewAssetSharedEvent(a *Asset, receiver [20]byte, quantity uint64) *types.Event {
	return newAssetEvent(EventTypeAssetShared, a, map[string]string{
		"receiver":  hex.EncodeToString(receiver[:]),
		"exemplars": strconv.FormatUint(quantity, 10),
	})
}

// NewAssetUsedEvent returns the payload for a redemption burn.
func NewAssetUsedEvent(a *Asset, holder [20]byte, quantity uint64) *types.Event {
	return newAssetEvent(EventTypeAssetUsed, a, map[string]string{
		"holder":    hex.EncodeToString(holder[:]),
		"exemplars": strconv.FormatUint(quantity, 10),
	})
}

// NewAssetDeletedEvent returns the payload emitted when a listing is removed.
func NewAssetDeletedEvent(a *Asset) *types.Event {
	return newAssetEvent(EventTypeAssetDeleted, a, nil)
}

// NewPaymentRefundedEvent returns the payload for a buyer-side settlement.
func NewPaymentRefundedEvent(a *Asset, p *Payment) *types.Event {
	return newPaymentEvent(EventTypePaymentRefunded, a, p, nil)
}

// NewPaymentWithdrawnEvent returns the payload for a seller-side settlement,
// including the fee split when the listing belongs to an app.
func NewPaymentWithdrawnEvent(a *Asset, p *Payment, totalFee, sellerAmount uint64) *types.Event {
	return newPaymentEvent(EventTypePaymentWithdrawn, a, p, map[string]string{
		"totalFee":     strconv.FormatUint(totalFee, 10),
		"sellerAmount": strconv.FormatUint(sellerAmount, 10),
	})
}

func newAssetEvent(eventType string, a *Asset, extra map[string]string) *types.Event {
	attrs := make(map[string]string)
	if a != nil {
		attrs["asset"] = hex.EncodeToString(a.Address[:])
		attrs["assetMint"] = hex.EncodeToString(a.AssetMint[:])
		attrs["authority"] = hex.EncodeToString(a.Authority[:])
		attrs["price"] = strconv.FormatUint(a.Price, 10)
		attrs["sold"] = strconv.FormatUint(a.Sold, 10)
		attrs["used"] = strconv.FormatUint(a.Used, 10)
		attrs["shared"] = strconv.FormatUint(a.Shared, 10)
		attrs["refunded"] = strconv.FormatUint(a.Refunded, 10)
		attrs["exemplars"] = strconv.FormatInt(a.Exemplars, 10)
		if a.HasApp() {
			attrs["app"] = hex.EncodeToString(a.App[:])
		}
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}

func newPaymentEvent(eventType string, a *Asset, p *Payment, extra map[string]string) *types.Event {
	attrs := make(map[string]string)
	if p != nil {
		attrs["payment"] = hex.EncodeToString(p.Address[:])
		attrs["assetMint"] = hex.EncodeToString(p.AssetMint[:])
		attrs["buyer"] = hex.EncodeToString(p.Buyer[:])
		attrs["seller"] = hex.EncodeToString(p.Seller[:])
		attrs["exemplars"] = strconv.FormatUint(p.Exemplars, 10)
		attrs["totalAmount"] = strconv.FormatUint(p.TotalAmount, 10)
	}
	if a != nil {
		attrs["asset"] = hex.EncodeToString(a.Address[:])
		attrs["sold"] = strconv.FormatUint(a.Sold, 10)
		attrs["refunded"] = strconv.FormatUint(a.Refunded, 10)
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
