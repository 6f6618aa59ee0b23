package catalog

import (
	"context"
	"fmt"

	"vendure/importer/internal/domain"
)

// fakeClient is an in-memory Client used by the resolver tests.
type fakeClient struct {
	facet            *domain.Facet
	facetValueSeq    int
	createValueCalls int
	failValueCodes   map[string]bool // creation of these codes errors out
	raceValueCodes   map[string]bool // creation errors, but the value shows up on re-query

	collections           []domain.Collection
	collectionSeq         int
	createCollectionCalls int

	products           []domain.Product
	productSeq         int
	productFacetValues map[string][]string

	groupSeq        int
	optionSeq       int
	groups          map[string]*fakeGroup
	groupsByProduct map[string][]string

	collectionProducts map[string][]string
	linkErr            map[string]error

	variantCalls   [][]domain.VariantRecord
	variantErr     error
	variantResults func(records []domain.VariantRecord) []domain.VariantResult
}

type fakeGroup struct {
	id           string
	code         string
	valuesByCode map[string]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		failValueCodes:     make(map[string]bool),
		raceValueCodes:     make(map[string]bool),
		productFacetValues: make(map[string][]string),
		groups:             make(map[string]*fakeGroup),
		groupsByProduct:    make(map[string][]string),
		collectionProducts: make(map[string][]string),
		linkErr:            make(map[string]error),
	}
}

func (f *fakeClient) FindCategoryFacet(ctx context.Context) (*domain.Facet, error) {
	if f.facet == nil {
		return nil, nil
	}
	copied := *f.facet
	copied.Values = append([]domain.FacetValue(nil), f.facet.Values...)
	return &copied, nil
}

func (f *fakeClient) CreateCategoryFacet(ctx context.Context) (*domain.Facet, error) {
	f.facet = &domain.Facet{ID: "F1", Code: "category"}
	return f.facet, nil
}

func (f *fakeClient) CreateFacetValue(ctx context.Context, facetID, code, name string) (*domain.FacetValue, error) {
	f.createValueCalls++
	if f.raceValueCodes[code] {
		f.addFacetValue(code, name)
		return nil, fmt.Errorf("duplicate code %q", code)
	}
	if f.failValueCodes[code] {
		return nil, fmt.Errorf("constraint violation on %q", code)
	}
	value := f.addFacetValue(code, name)
	return &value, nil
}

func (f *fakeClient) addFacetValue(code, name string) domain.FacetValue {
	f.facetValueSeq++
	value := domain.FacetValue{ID: fmt.Sprintf("FV%d", f.facetValueSeq), Code: code, Name: name}
	f.facet.Values = append(f.facet.Values, value)
	return value
}

func (f *fakeClient) FindCollection(ctx context.Context, slug, parentID string) (*domain.Collection, error) {
	for _, c := range f.collections {
		if c.Slug == slug && c.ParentID == parentID {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeClient) CreateCollection(ctx context.Context, in domain.CreateCollection) (*domain.Collection, error) {
	f.createCollectionCalls++
	f.collectionSeq++
	created := domain.Collection{
		ID:       fmt.Sprintf("C%d", f.collectionSeq),
		Slug:     in.Slug,
		Name:     in.Name,
		ParentID: in.ParentID,
	}
	f.collections = append(f.collections, created)
	return &created, nil
}

func (f *fakeClient) AddProductsToCollection(ctx context.Context, collectionID string, productIDs []string) error {
	if err := f.linkErr[collectionID]; err != nil {
		return err
	}
	f.collectionProducts[collectionID] = append(f.collectionProducts[collectionID], productIDs...)
	return nil
}

func (f *fakeClient) CreateProduct(ctx context.Context, in domain.CreateProduct) (*domain.Product, error) {
	f.productSeq++
	created := domain.Product{ID: fmt.Sprintf("P%d", f.productSeq), Name: in.Name, Slug: in.Slug}
	f.products = append(f.products, created)
	return &created, nil
}

func (f *fakeClient) UpdateProductFacetValues(ctx context.Context, productID string, facetValueIDs []string) error {
	f.productFacetValues[productID] = facetValueIDs
	return nil
}

func (f *fakeClient) FindOptionGroup(ctx context.Context, productID, code string) (*domain.OptionGroup, error) {
	for _, groupID := range f.groupsByProduct[productID] {
		if group := f.groups[groupID]; group != nil && group.code == code {
			return &domain.OptionGroup{ID: group.id, Code: group.code}, nil
		}
	}
	return nil, nil
}

func (f *fakeClient) CreateOptionGroup(ctx context.Context, code, name string) (*domain.OptionGroup, error) {
	f.groupSeq++
	group := &fakeGroup{
		id:           fmt.Sprintf("OG%d", f.groupSeq),
		code:         code,
		valuesByCode: make(map[string]string),
	}
	f.groups[group.id] = group
	return &domain.OptionGroup{ID: group.id, Code: group.code}, nil
}

func (f *fakeClient) AddOptionGroupToProduct(ctx context.Context, productID, groupID string) error {
	for _, bound := range f.groupsByProduct[productID] {
		if bound == groupID {
			return nil // idempotent bind
		}
	}
	f.groupsByProduct[productID] = append(f.groupsByProduct[productID], groupID)
	return nil
}

func (f *fakeClient) FindOptionValue(ctx context.Context, groupID, code string) (*domain.OptionValue, error) {
	group := f.groups[groupID]
	if group == nil {
		return nil, fmt.Errorf("unknown group %s", groupID)
	}
	if id, ok := group.valuesByCode[code]; ok {
		return &domain.OptionValue{ID: id, Code: code}, nil
	}
	return nil, nil
}

func (f *fakeClient) CreateOptionValue(ctx context.Context, groupID, code, name string) (*domain.OptionValue, error) {
	group := f.groups[groupID]
	if group == nil {
		return nil, fmt.Errorf("unknown group %s", groupID)
	}
	f.optionSeq++
	id := fmt.Sprintf("OV%d", f.optionSeq)
	group.valuesByCode[code] = id
	return &domain.OptionValue{ID: id, Code: code}, nil
}

func (f *fakeClient) CreateProductVariants(ctx context.Context, records []domain.VariantRecord) ([]domain.VariantResult, error) {
	f.variantCalls = append(f.variantCalls, records)
	if f.variantErr != nil {
		return nil, f.variantErr
	}
	if f.variantResults != nil {
		return f.variantResults(records), nil
	}
	results := make([]domain.VariantResult, len(records))
	for i, record := range records {
		results[i] = domain.VariantResult{ID: fmt.Sprintf("V%d", i+1), SKU: record.SKU}
	}
	return results, nil
}

func (f *fakeClient) UploadAsset(ctx context.Context, data []byte, filename string) string {
	return ""
}
