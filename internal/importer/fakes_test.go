package importer

import (
	"context"
	"fmt"

	"vendure/importer/internal/domain"
	"vendure/importer/internal/repository"
)

// fakeClient is an in-memory catalog.Client for the row-pipeline tests.
type fakeClient struct {
	facet         *domain.Facet
	facetValueSeq int

	collections   []domain.Collection
	collectionSeq int

	products   []domain.Product
	productSeq int
	productErr error

	productFacetValues map[string][]string
	facetAssignErr     error

	collectionProducts map[string][]string
	linkErr            map[string]error

	groupSeq        int
	optionSeq       int
	groups          map[string]*fakeGroup
	groupsByProduct map[string][]string

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
		productFacetValues: make(map[string][]string),
		collectionProducts: make(map[string][]string),
		linkErr:            make(map[string]error),
		groups:             make(map[string]*fakeGroup),
		groupsByProduct:    make(map[string][]string),
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
	f.facetValueSeq++
	value := domain.FacetValue{ID: fmt.Sprintf("FV%d", f.facetValueSeq), Code: code, Name: name}
	f.facet.Values = append(f.facet.Values, value)
	return &value, nil
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
	if f.productErr != nil {
		return nil, f.productErr
	}
	f.productSeq++
	created := domain.Product{ID: fmt.Sprintf("P%d", f.productSeq), Name: in.Name, Slug: in.Slug}
	f.products = append(f.products, created)
	return &created, nil
}

func (f *fakeClient) UpdateProductFacetValues(ctx context.Context, productID string, facetValueIDs []string) error {
	if f.facetAssignErr != nil {
		return f.facetAssignErr
	}
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
			return nil
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

// fakeLedger records outcomes in memory.
type fakeLedger struct {
	records []repository.ImportRecord
	saveErr error
}

func (l *fakeLedger) SaveOutcome(ctx context.Context, record repository.ImportRecord) error {
	if l.saveErr != nil {
		return l.saveErr
	}
	l.records = append(l.records, record)
	return nil
}

// memSource serves rows from memory.
type memSource struct {
	name string
	rows []domain.RawProductRow
}

func (s *memSource) Name() string                          { return s.name }
func (s *memSource) Rows() ([]domain.RawProductRow, error) { return s.rows, nil }
