// Package billing wraps the hosted checkout provider: pack catalog,
// checkout session creation, and idempotent payment verification.
package billing

import "errors"

var (
	ErrUnknownPrice    = errors.New("unknown price id")
	ErrMissingMetadata = errors.New("session metadata is missing user or price id")
	ErrSessionUnpaid   = errors.New("session is not paid")
	ErrProfileNotFound = errors.New("profile not found")
)

// Pack is a purchasable credit bundle. PriceID is the checkout provider's
// price identifier; the mapping is static and server-side, so a client can
// never pick its own credit amount.
type Pack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceID    string `json:"price_id"`
	Credits    int32  `json:"credits"`
	PriceCents int64  `json:"price_cents"`
	Popular    bool   `json:"popular,omitempty"`
}

var packs = []Pack{
	{ID: "starter", Name: "Starter", PriceID: "price_1SN41FDuF4e9ixnRPCvgrLSl", Credits: 30, PriceCents: 2000},
	{ID: "pro", Name: "Professional", PriceID: "price_1SN41VDuF4e9ixnRnrcvMDI4", Credits: 100, PriceCents: 3500, Popular: true},
	{ID: "business", Name: "Business", PriceID: "price_1SN41lDuF4e9ixnRsGjx6QXX", Credits: 250, PriceCents: 6000},
}

// Packs returns the purchasable credit packs in display order.
func Packs() []Pack {
	out := make([]Pack, len(packs))
	copy(out, packs)
	return out
}

// CreditsForPrice resolves a provider price id to its credit amount.
func CreditsForPrice(priceID string) (int32, bool) {
	for _, p := range packs {
		if p.PriceID == priceID {
			return p.Credits, true
		}
	}
	return 0, false
}

// PackForID resolves a pack by its catalog id.
func PackForID(id string) (Pack, bool) {
	for _, p := range packs {
		if p.ID == id {
			return p, true
		}
	}
	return Pack{}, false
}
