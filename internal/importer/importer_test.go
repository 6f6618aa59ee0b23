package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vendure/importer/internal/catalog"
	"vendure/importer/internal/config"
	"vendure/importer/internal/domain"
	"vendure/importer/internal/retry"
)

func testConfig() config.ImportConfig {
	return config.ImportConfig{
		DefaultStockOnHand: 100,
		MaxGalleryImages:   5,
	}
}

func newTestImporter(fake *fakeClient, ledger *fakeLedger) *Importer {
	opts := retry.Options{}
	facets := catalog.NewFacetResolver(fake)
	collections := catalog.NewCollectionResolver(fake, facets, opts)
	variants := catalog.NewVariantBuilder(fake, nil, 100)

	if ledger == nil {
		return New(fake, facets, collections, variants, nil, nil, nil, nil, opts, testConfig(), "")
	}
	return New(fake, facets, collections, variants, nil, ledger, nil, nil, opts, testConfig(), "")
}

func TestProcessRowHappyPath(t *testing.T) {
	fake := newFakeClient()
	imp := newTestImporter(fake, nil)

	row := &domain.RawProductRow{
		Title:      "Harmony Sofa",
		SKU:        "HS-01",
		Price:      "$1,299.00",
		Categories: "Living Room|Sectional",
	}

	outcome, err := imp.ProcessRow(context.Background(), row)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome = %s, want created", outcome)
	}

	if len(fake.products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(fake.products))
	}
	product := fake.products[0]
	if product.Slug != "harmony-sofa" {
		t.Errorf("slug = %q, want harmony-sofa", product.Slug)
	}

	if got := len(fake.productFacetValues[product.ID]); got != 2 {
		t.Errorf("facet values assigned = %d, want 2", got)
	}
	if len(fake.collections) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(fake.collections))
	}
	for _, c := range fake.collections {
		linked := fake.collectionProducts[c.ID]
		if len(linked) != 1 || linked[0] != product.ID {
			t.Errorf("collection %s links = %v, want [%s]", c.ID, linked, product.ID)
		}
	}

	if len(fake.variantCalls) != 1 {
		t.Fatalf("expected 1 variant batch, got %d", len(fake.variantCalls))
	}
	record := fake.variantCalls[0][0]
	if record.SKU != "HS-01" {
		t.Errorf("variant SKU = %q, want HS-01", record.SKU)
	}
	if record.PriceMinor != 129900 {
		t.Errorf("variant price = %d, want 129900", record.PriceMinor)
	}
	if record.StockOnHand != 100 {
		t.Errorf("variant stock = %d, want default 100", record.StockOnHand)
	}
}

func TestProcessRowSkipsMissingName(t *testing.T) {
	fake := newFakeClient()
	imp := newTestImporter(fake, nil)

	outcome, err := imp.ProcessRow(context.Background(), &domain.RawProductRow{Title: "   ", Price: "10"})
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("outcome = %s, want skipped", outcome)
	}
	if len(fake.products) != 0 {
		t.Error("skipped row must not create a product")
	}
}

func TestProcessRowFailsWhenProductCreationFails(t *testing.T) {
	fake := newFakeClient()
	fake.productErr = errors.New("duplicate slug")
	imp := newTestImporter(fake, nil)

	outcome, err := imp.ProcessRow(context.Background(), &domain.RawProductRow{Title: "Harmony Sofa"})
	if outcome != OutcomeFailed {
		t.Fatalf("outcome = %s, want failed", outcome)
	}
	if err == nil || !strings.Contains(err.Error(), "duplicate slug") {
		t.Fatalf("expected the creation error, got %v", err)
	}
	if len(fake.variantCalls) != 0 {
		t.Error("variants must not be created after a failed product step")
	}
}

func TestProcessRowVariantRejectionFailsRow(t *testing.T) {
	fake := newFakeClient()
	fake.variantResults = func(records []domain.VariantRecord) []domain.VariantResult {
		return []domain.VariantResult{{ErrorCode: "DUPLICATE_SKU", Message: "sku already exists"}}
	}
	imp := newTestImporter(fake, nil)

	outcome, err := imp.ProcessRow(context.Background(), &domain.RawProductRow{Title: "Harmony Sofa", SKU: "HS-01"})
	if outcome != OutcomeFailed {
		t.Fatalf("outcome = %s, want failed", outcome)
	}
	if err == nil || !strings.Contains(err.Error(), "DUPLICATE_SKU") {
		t.Fatalf("expected rejection detail in error, got %v", err)
	}
}

func TestProcessRowCollectionLinkFailureIsBestEffort(t *testing.T) {
	fake := newFakeClient()
	fake.linkErr["C1"] = errors.New("collection is gone")
	imp := newTestImporter(fake, nil)

	row := &domain.RawProductRow{
		Title:      "Harmony Sofa",
		Categories: "Living Room|Sectional",
	}
	outcome, err := imp.ProcessRow(context.Background(), row)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome = %s, want created despite a failed link", outcome)
	}
	if len(fake.collectionProducts["C2"]) != 1 {
		t.Error("remaining collections must still be linked")
	}
}

func TestProcessRowFacetAssignFailureIsBestEffort(t *testing.T) {
	fake := newFakeClient()
	fake.facetAssignErr = errors.New("channel mismatch")
	imp := newTestImporter(fake, nil)

	row := &domain.RawProductRow{Title: "Harmony Sofa", Categories: "Living Room"}
	outcome, err := imp.ProcessRow(context.Background(), row)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome = %s, want created despite facet assignment failure", outcome)
	}
}

func TestProcessRowGroupsVariantsFromJSON(t *testing.T) {
	fake := newFakeClient()
	imp := newTestImporter(fake, nil)

	row := &domain.RawProductRow{
		Title: "Harmony Sofa",
		SKU:   "HS-01",
		Price: "90",
		VariantsJSON: `[
			{"sku":"HS-01-BLK","variation_id":101,"display_price":100,"attributes":{"attribute_pa_color":"Black"}},
			{"sku":"HS-01-WHT","variation_id":102,"display_price":110,"attributes":{"attribute_pa_color":"White"}}
		]`,
	}
	outcome, err := imp.ProcessRow(context.Background(), row)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome = %s, want created", outcome)
	}
	if len(fake.variantCalls) != 1 || len(fake.variantCalls[0]) != 2 {
		t.Fatalf("expected one batch of 2 variants, got %v", fake.variantCalls)
	}
	if fake.groupSeq != 1 {
		t.Errorf("expected 1 option group, got %d", fake.groupSeq)
	}
}

func TestProcessRowMalformedVariantsJSONUsesSimpleFlow(t *testing.T) {
	fake := newFakeClient()
	imp := newTestImporter(fake, nil)

	row := &domain.RawProductRow{Title: "Harmony Sofa", SKU: "HS-01", VariantsJSON: "{not json"}
	outcome, err := imp.ProcessRow(context.Background(), row)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome = %s, want created", outcome)
	}
	if len(fake.variantCalls[0]) != 1 {
		t.Errorf("expected the simple single-variant flow, got %d records", len(fake.variantCalls[0]))
	}
	if fake.groupSeq != 0 {
		t.Errorf("simple flow must not create option groups, got %d", fake.groupSeq)
	}
}

func TestRunCountsAndRecordsOutcomes(t *testing.T) {
	fake := newFakeClient()
	fake.variantResults = func(records []domain.VariantRecord) []domain.VariantResult {
		results := make([]domain.VariantResult, len(records))
		for i, record := range records {
			if record.SKU == "BAD" {
				results[i] = domain.VariantResult{ErrorCode: "DUPLICATE_SKU", Message: "sku already exists"}
				continue
			}
			results[i] = domain.VariantResult{ID: "V1", SKU: record.SKU}
		}
		return results
	}

	ledger := &fakeLedger{}
	imp := newTestImporter(fake, ledger)

	src := &memSource{
		name: "catalog.xlsx",
		rows: []domain.RawProductRow{
			{Title: "Harmony Sofa", SKU: "HS-01", Price: "100"},
			{Title: ""},
			{Title: "Broken Chair", SKU: "BAD", Price: "50"},
		},
	}

	if err := imp.Run(context.Background(), src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	counters := imp.Counters()
	if counters.Created != 1 || counters.Skipped != 1 || counters.Failed != 1 {
		t.Fatalf("counters = %+v, want 1 created, 1 failed, 1 skipped", counters)
	}
	if counters.Total() != 3 {
		t.Errorf("total = %d, want 3", counters.Total())
	}

	if len(ledger.records) != 3 {
		t.Fatalf("ledger has %d records, want 3", len(ledger.records))
	}
	statuses := map[string]int{}
	for _, record := range ledger.records {
		statuses[record.Status]++
	}
	if statuses["created"] != 1 || statuses["failed"] != 1 || statuses["skipped"] != 1 {
		t.Errorf("ledger statuses = %v, want one of each", statuses)
	}
	for _, record := range ledger.records {
		if record.Source != "catalog.xlsx" {
			t.Errorf("record source = %q, want catalog.xlsx", record.Source)
		}
		if record.Slug == "" {
			t.Errorf("row %d recorded with empty slug", record.RowNumber)
		}
	}
}
