package source

import (
	"strings"

	"vendure/importer/internal/domain"
)

// Source yields the rows of one input file. Every format converts to
// domain.RawProductRow here at the edge; nothing downstream knows whether a
// row came from CSV, XLSX or a scraper dump.
type Source interface {
	Name() string
	Rows() ([]domain.RawProductRow, error)
}

// fieldSetters maps the header names seen across the scraper outputs onto
// RawProductRow fields. Several scrapers emitted different spellings for the
// same thing (name/title, images/assets, categories/facets), all accepted.
var fieldSetters = map[string]func(*domain.RawProductRow, string){
	"title":                  func(r *domain.RawProductRow, v string) { r.Title = v },
	"name":                   func(r *domain.RawProductRow, v string) { r.Title = v },
	"slug":                   func(r *domain.RawProductRow, v string) { r.Slug = v },
	"description_html":       func(r *domain.RawProductRow, v string) { r.DescriptionHTML = v },
	"description":            func(r *domain.RawProductRow, v string) { r.DescriptionHTML = v },
	"description_text":       func(r *domain.RawProductRow, v string) { r.DescriptionText = v },
	"short_description_text": func(r *domain.RawProductRow, v string) { r.ShortDescription = v },
	"price":                  func(r *domain.RawProductRow, v string) { r.Price = v },
	"sku":                    func(r *domain.RawProductRow, v string) { r.SKU = v },
	"product_id":             func(r *domain.RawProductRow, v string) { r.ProductID = v },
	"categories":             func(r *domain.RawProductRow, v string) { r.Categories = v },
	"facets":                 func(r *domain.RawProductRow, v string) { r.Categories = v },
	"images":                 func(r *domain.RawProductRow, v string) { r.Images = v },
	"assets":                 func(r *domain.RawProductRow, v string) { r.Images = v },
	"thumbnail":              func(r *domain.RawProductRow, v string) { r.Thumbnail = v },
	"variants_json":          func(r *domain.RawProductRow, v string) { r.VariantsJSON = v },
}

func rowFromRecord(headers, record []string) domain.RawProductRow {
	var row domain.RawProductRow
	for i, header := range headers {
		if i >= len(record) {
			break
		}
		if set, ok := fieldSetters[strings.ToLower(strings.TrimSpace(header))]; ok {
			set(&row, strings.TrimSpace(record[i]))
		}
	}
	return row
}
