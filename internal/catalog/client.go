package catalog

import (
	"context"

	"vendure/importer/internal/domain"
)

// Client is the remote catalog surface the resolvers and the importer talk
// to. internal/client implements it over the Vendure GraphQL Admin API; tests
// use an in-memory fake. Find* methods return nil (not an error) when the
// entity does not exist.
type Client interface {
	// Facets
	FindCategoryFacet(ctx context.Context) (*domain.Facet, error)
	CreateCategoryFacet(ctx context.Context) (*domain.Facet, error)
	CreateFacetValue(ctx context.Context, facetID, code, name string) (*domain.FacetValue, error)

	// Collections. FindCollection is parent-scoped: a slug match under a
	// different parent must come back as a miss, so the same category name
	// can exist at different points of different hierarchies.
	FindCollection(ctx context.Context, slug, parentID string) (*domain.Collection, error)
	CreateCollection(ctx context.Context, input domain.CreateCollection) (*domain.Collection, error)
	AddProductsToCollection(ctx context.Context, collectionID string, productIDs []string) error

	// Products
	CreateProduct(ctx context.Context, input domain.CreateProduct) (*domain.Product, error)
	UpdateProductFacetValues(ctx context.Context, productID string, facetValueIDs []string) error

	// Option groups and values, scoped to one product's context.
	FindOptionGroup(ctx context.Context, productID, code string) (*domain.OptionGroup, error)
	CreateOptionGroup(ctx context.Context, code, name string) (*domain.OptionGroup, error)
	AddOptionGroupToProduct(ctx context.Context, productID, groupID string) error
	FindOptionValue(ctx context.Context, groupID, code string) (*domain.OptionValue, error)
	CreateOptionValue(ctx context.Context, groupID, code, name string) (*domain.OptionValue, error)

	// Variants
	CreateProductVariants(ctx context.Context, records []domain.VariantRecord) ([]domain.VariantResult, error)

	// Assets. UploadAsset returns an empty id, not an error, on failure —
	// callers proceed without the asset.
	UploadAsset(ctx context.Context, data []byte, filename string) string
}

// AssetUploader downloads an image URL and uploads it as an asset, returning
// the asset id or "" on any failure. Kept separate from Client so the
// variant builder can stay ignorant of HTTP concerns.
type AssetUploader interface {
	UploadFromURL(ctx context.Context, url string) string
}
