package domain

// Facet is a durable taxonomy axis ("category") with its known values.
type Facet struct {
	ID     string       `json:"id"`
	Code   string       `json:"code"`
	Values []FacetValue `json:"values"`
}

// FacetValue is one durable category tag a product can carry.
type FacetValue struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Collection is a hierarchical, facet-filtered grouping of products.
type Collection struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

// CreateCollection is the input for a new collection node.
type CreateCollection struct {
	Name         string
	Slug         string
	Description  string
	ParentID     string // empty means root
	FacetValueID string // membership filter for this level
}

// Product is the created remote product, as much of it as the importer needs.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateProduct is the input for product creation.
type CreateProduct struct {
	Name            string
	Slug            string
	Description     string
	FeaturedAssetID string
	AssetIDs        []string
}

// OptionGroup is one variant-defining attribute bound to a single product.
type OptionGroup struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// OptionValue is one concrete value within an option group.
type OptionValue struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// VariantResult is one entry of a batch variant-creation response: either a
// created variant or an error descriptor.
type VariantResult struct {
	ID        string `json:"id"`
	SKU       string `json:"sku"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// Err reports whether this result describes a failure.
func (r VariantResult) Err() bool {
	return r.ErrorCode != "" || r.ID == ""
}
