package domain

// VariantRecord is one SKU-bearing sellable unit ready for submission.
// Built once from a raw variant (or synthesized for simple products),
// submitted once, not revisited.
type VariantRecord struct {
	ProductID       string
	SKU             string // never empty, see VariantBuilder fallbacks
	PriceMinor      int    // smallest currency unit
	StockOnHand     int
	OptionValueIDs  []string // one per option group of the product
	Name            string
	FeaturedAssetID string
}

// RunCounters accumulates terminal row outcomes for one batch execution.
type RunCounters struct {
	Created int
	Failed  int
	Skipped int
}

// Total is the number of rows that reached a terminal state.
func (c RunCounters) Total() int {
	return c.Created + c.Failed + c.Skipped
}
