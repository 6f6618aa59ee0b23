package domain

import (
	"encoding/json"
	"strings"
)

// RawProductRow is the source-agnostic shape of one scraped product.
// CSV, XLSX and in-memory scraper output are all converted to this at the
// source boundary so the importer never branches on file format.
type RawProductRow struct {
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	DescriptionHTML  string `json:"description_html"`
	DescriptionText  string `json:"description_text"`
	ShortDescription string `json:"short_description_text"`
	Price            string `json:"price"`
	SKU              string `json:"sku"`
	ProductID        string `json:"product_id"`
	Categories       string `json:"categories"` // "Living Room|Sectional" or "category:Living Room|category:Sectional"
	Images           string `json:"images"`     // |-joined URLs
	Thumbnail        string `json:"thumbnail"`
	VariantsJSON     string `json:"variants_json"`
}

// Description combines the long description with the short one, preferring
// HTML over plain text the way the scraped data does.
func (r *RawProductRow) Description() string {
	desc := strings.TrimSpace(r.DescriptionHTML)
	if desc == "" {
		desc = strings.TrimSpace(r.DescriptionText)
	}
	short := strings.TrimSpace(r.ShortDescription)
	if short != "" {
		if desc != "" {
			desc += "\n\n"
		}
		desc += short
	}
	return desc
}

// ImageURLs returns all image URLs of the row (images plus thumbnail),
// split on | or , and cleaned up.
func (r *RawProductRow) ImageURLs() []string {
	urls := splitImageList(r.Images)
	return append(urls, splitImageList(r.Thumbnail)...)
}

func splitImageList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(c rune) bool {
		return c == '|' || c == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RawVariant is one entry of a WooCommerce variable product's variants_json.
// display_price shows up both as a number and as a formatted string in
// scraped data, hence json.Number.
type RawVariant struct {
	SKU           string            `json:"sku"`
	VariationID   int64             `json:"variation_id"`
	DisplayPrice  json.Number       `json:"display_price"`
	StockQuantity int               `json:"stock_quantity"`
	Attributes    map[string]string `json:"attributes"` // attribute_pa_color -> "Black"
	Image         string            `json:"image"`
}
