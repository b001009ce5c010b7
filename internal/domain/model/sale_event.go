package model

// SaleEvent is the canonical form of "N units of SKU X sold on channel Y",
// produced by a webhook normalizer and consumed once by the stock ledger.
// Never persisted.
type SaleEvent struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
	Channel  string `json:"channel"`
}
