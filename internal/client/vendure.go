package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"vendure/importer/internal/config"
	"vendure/importer/internal/domain"
)

const categoryFacetCode = "category"

// VendureClient implements catalog.Client over the Vendure GraphQL Admin
// API. Authentication is the admin login mutation; the session cookies it
// returns are attached to every subsequent request, along with the optional
// vendure-token channel header.
type VendureClient struct {
	rl         ratelimit.Limiter
	config     config.VendureConfig
	adminAPI   string
	language   string
	httpClient *resty.Client
}

func NewVendureClient(cfg config.VendureConfig) *VendureClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetHeader("User-Agent", "vendure-importer/1.0")

	if cfg.ChannelToken != "" {
		client.SetHeader("vendure-token", cfg.ChannelToken)
	}

	return &VendureClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		adminAPI:   cfg.AdminAPI,
		language:   cfg.DefaultLanguage,
		httpClient: client,
	}
}

type translation struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Login authenticates against the admin API and captures the session
// cookies. Fatal-setup territory: a failure here aborts the whole run.
func (c *VendureClient) Login(ctx context.Context) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(graphQLRequest{
			Query: loginMutation,
			Variables: map[string]any{
				"username": c.config.AdminUser,
				"password": c.config.AdminPass,
			},
		}).
		Post(c.adminAPI)
	if err != nil {
		return fmt.Errorf("cannot reach admin API at %s: %w", c.adminAPI, err)
	}
	if resp.IsError() {
		return fmt.Errorf("login request failed: %s", resp.Status())
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		return fmt.Errorf("non-JSON response from %s, is this the Admin API?: %w", c.adminAPI, err)
	}
	if len(envelope.Errors) > 0 {
		return newAPIError("login", envelope.Errors)
	}

	var payload struct {
		Login struct {
			Typename   string `json:"__typename"`
			Identifier string `json:"identifier"`
			Message    string `json:"message"`
			ErrorCode  string `json:"errorCode"`
		} `json:"login"`
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if payload.Login.Typename != "CurrentUser" {
		return fmt.Errorf("login rejected [%s]: %s", payload.Login.ErrorCode, payload.Login.Message)
	}

	cookies := resp.Header().Values("Set-Cookie")
	if len(cookies) == 0 {
		return fmt.Errorf("no session cookie returned, check the server's auth configuration")
	}
	pairs := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		if pair := strings.TrimSpace(strings.SplitN(cookie, ";", 2)[0]); pair != "" {
			pairs = append(pairs, pair)
		}
	}
	c.httpClient.SetHeader("cookie", strings.Join(pairs, "; "))

	log.Infof("✅ Authenticated as %s", payload.Login.Identifier)
	return nil
}

// Me verifies the session and returns the authenticated identifier.
func (c *VendureClient) Me(ctx context.Context) (string, error) {
	var payload struct {
		Me *struct {
			Identifier string `json:"identifier"`
		} `json:"me"`
	}
	if err := c.execute(ctx, "me", meQuery, nil, &payload); err != nil {
		return "", err
	}
	if payload.Me == nil {
		return "", fmt.Errorf("not authenticated after login")
	}
	return payload.Me.Identifier, nil
}

func (c *VendureClient) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		Post(c.adminAPI)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	if resp.IsError() {
		return &APIError{Operation: operation, Messages: []string{resp.Status()}}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	if len(envelope.Errors) > 0 {
		return newAPIError(operation, envelope.Errors)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", operation, err)
		}
	}
	return nil
}

// ---- Facets ----

func (c *VendureClient) FindCategoryFacet(ctx context.Context) (*domain.Facet, error) {
	var payload struct {
		Facets struct {
			Items []domain.Facet `json:"items"`
		} `json:"facets"`
	}
	err := c.execute(ctx, "facets", getFacetByCodeQuery, map[string]any{"code": categoryFacetCode}, &payload)
	if err != nil {
		return nil, err
	}
	if len(payload.Facets.Items) == 0 {
		return nil, nil
	}
	return &payload.Facets.Items[0], nil
}

func (c *VendureClient) CreateCategoryFacet(ctx context.Context) (*domain.Facet, error) {
	var payload struct {
		CreateFacet domain.Facet `json:"createFacet"`
	}
	input := map[string]any{
		"code":      categoryFacetCode,
		"isPrivate": false, // public so the Shop API can filter on it
		"translations": []translation{
			{LanguageCode: c.language, Name: "Category"},
		},
	}
	err := c.execute(ctx, "createFacet", createFacetMutation, map[string]any{"input": input}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.CreateFacet, nil
}

func (c *VendureClient) CreateFacetValue(ctx context.Context, facetID, code, name string) (*domain.FacetValue, error) {
	var payload struct {
		CreateFacetValue domain.FacetValue `json:"createFacetValue"`
	}
	input := map[string]any{
		"facetId": facetID,
		"code":    code,
		"translations": []translation{
			{LanguageCode: c.language, Name: name},
		},
	}
	err := c.execute(ctx, "createFacetValue", createFacetValueMutation, map[string]any{"input": input}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.CreateFacetValue, nil
}

// ---- Collections ----

// rootCollectionName is the hidden node every top-level collection hangs
// under. It has a real id, so "top-level" is detected by name, never by an
// empty parent id.
const rootCollectionName = "__root_collection__"

// FindCollection looks a collection up by slug and keeps only a match whose
// parent is the expected one. The remote slug lookup is global; without the
// parent check a re-run after a cache-miss could silently adopt a
// wrong-parent node with a colliding slug. An empty parentID means the
// caller wants a top-level collection, so the match must sit directly under
// the root node.
func (c *VendureClient) FindCollection(ctx context.Context, slug, parentID string) (*domain.Collection, error) {
	var payload struct {
		Collection *struct {
			ID     string `json:"id"`
			Slug   string `json:"slug"`
			Name   string `json:"name"`
			Parent *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"parent"`
		} `json:"collection"`
	}
	err := c.execute(ctx, "collection", getCollectionBySlugQuery, map[string]any{"slug": slug}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Collection == nil {
		return nil, nil
	}
	found := domain.Collection{
		ID:   payload.Collection.ID,
		Slug: payload.Collection.Slug,
		Name: payload.Collection.Name,
	}
	if payload.Collection.Parent != nil {
		found.ParentID = payload.Collection.Parent.ID
	}
	if parentID != "" {
		if found.ParentID != parentID {
			return nil, nil
		}
		return &found, nil
	}
	if payload.Collection.Parent != nil && payload.Collection.Parent.Name != rootCollectionName {
		return nil, nil
	}
	return &found, nil
}

func (c *VendureClient) CreateCollection(ctx context.Context, in domain.CreateCollection) (*domain.Collection, error) {
	var payload struct {
		CreateCollection domain.Collection `json:"createCollection"`
	}

	facetValueIDs, err := json.Marshal([]string{in.FacetValueID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter arguments: %w", err)
	}

	input := map[string]any{
		"isPrivate": false,
		"translations": []translation{
			{LanguageCode: c.language, Name: in.Name, Slug: in.Slug, Description: in.Description},
		},
		"inheritFilters": in.ParentID != "",
		"filters": []map[string]any{
			{
				"code": "facet-value-filter",
				"arguments": []map[string]any{
					{"name": "facetValueIds", "value": string(facetValueIDs)},
				},
			},
		},
	}
	if in.ParentID != "" {
		input["parentId"] = in.ParentID
	}

	err = c.execute(ctx, "createCollection", createCollectionMutation, map[string]any{"input": input}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.CreateCollection, nil
}

func (c *VendureClient) AddProductsToCollection(ctx context.Context, collectionID string, productIDs []string) error {
	return c.execute(ctx, "addProductsToCollection", addProductsToCollectionMutation, map[string]any{
		"collectionId": collectionID,
		"productIds":   productIDs,
	}, nil)
}

// ---- Products ----

func (c *VendureClient) CreateProduct(ctx context.Context, in domain.CreateProduct) (*domain.Product, error) {
	var payload struct {
		CreateProduct domain.Product `json:"createProduct"`
	}
	input := map[string]any{
		"enabled": true,
		"translations": []translation{
			{LanguageCode: c.language, Name: in.Name, Slug: in.Slug, Description: in.Description},
		},
	}
	if in.FeaturedAssetID != "" {
		input["featuredAssetId"] = in.FeaturedAssetID
	}
	if len(in.AssetIDs) > 0 {
		input["assetIds"] = in.AssetIDs
	}

	err := c.execute(ctx, "createProduct", createProductMutation, map[string]any{"input": input}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.CreateProduct.ID == "" {
		return nil, fmt.Errorf("createProduct returned no id for %q", in.Name)
	}
	return &payload.CreateProduct, nil
}

func (c *VendureClient) UpdateProductFacetValues(ctx context.Context, productID string, facetValueIDs []string) error {
	return c.execute(ctx, "updateProduct", updateProductMutation, map[string]any{
		"input": map[string]any{
			"id":            productID,
			"facetValueIds": facetValueIDs,
		},
	}, nil)
}

// ---- Option groups / values ----

func (c *VendureClient) FindOptionGroup(ctx context.Context, productID, code string) (*domain.OptionGroup, error) {
	var payload struct {
		Product *struct {
			OptionGroups []domain.OptionGroup `json:"optionGroups"`
		} `json:"product"`
	}
	err := c.execute(ctx, "productOptionGroups", getProductOptionGroupsQuery, map[string]any{"id": productID}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, nil
	}
	for _, group := range payload.Product.OptionGroups {
		if group.Code == code {
			return &group, nil
		}
	}
	return nil, nil
}

func (c *VendureClient) CreateOptionGroup(ctx context.Context, code, name string) (*domain.OptionGroup, error) {
	var payload struct {
		CreateProductOptionGroup domain.OptionGroup `json:"createProductOptionGroup"`
	}
	input := map[string]any{
		"code":    code,
		"options": []any{},
		"translations": []translation{
			{LanguageCode: c.language, Name: name},
		},
	}
	err := c.execute(ctx, "createProductOptionGroup", createOptionGroupMutation, map[string]any{"input": input}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.CreateProductOptionGroup, nil
}

func (c *VendureClient) AddOptionGroupToProduct(ctx context.Context, productID, groupID string) error {
	return c.execute(ctx, "addOptionGroupToProduct", addOptionGroupToProductMutation, map[string]any{
		"productId":     productID,
		"optionGroupId": groupID,
	}, nil)
}

func (c *VendureClient) FindOptionValue(ctx context.Context, groupID, code string) (*domain.OptionValue, error) {
	var payload struct {
		ProductOptionGroup *struct {
			Options []domain.OptionValue `json:"options"`
		} `json:"productOptionGroup"`
	}
	err := c.execute(ctx, "productOptionGroup", getOptionGroupQuery, map[string]any{"id": groupID}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.ProductOptionGroup == nil {
		return nil, nil
	}
	for _, option := range payload.ProductOptionGroup.Options {
		if option.Code == code {
			return &option, nil
		}
	}
	return nil, nil
}

func (c *VendureClient) CreateOptionValue(ctx context.Context, groupID, code, name string) (*domain.OptionValue, error) {
	var payload struct {
		CreateProductOption domain.OptionValue `json:"createProductOption"`
	}
	input := map[string]any{
		"productOptionGroupId": groupID,
		"code":                 code,
		"translations": []translation{
			{LanguageCode: c.language, Name: name},
		},
	}
	err := c.execute(ctx, "createProductOption", createOptionMutation, map[string]any{"input": input}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.CreateProductOption, nil
}

// ---- Variants ----

func (c *VendureClient) CreateProductVariants(ctx context.Context, records []domain.VariantRecord) ([]domain.VariantResult, error) {
	inputs := make([]map[string]any, 0, len(records))
	for _, record := range records {
		input := map[string]any{
			"productId":      record.ProductID,
			"sku":            record.SKU,
			"price":          record.PriceMinor,
			"stockOnHand":    record.StockOnHand,
			"trackInventory": "INHERIT",
			"translations": []translation{
				{LanguageCode: c.language, Name: record.Name},
			},
		}
		if len(record.OptionValueIDs) > 0 {
			input["optionIds"] = record.OptionValueIDs
		}
		if record.FeaturedAssetID != "" {
			input["featuredAssetId"] = record.FeaturedAssetID
		}
		inputs = append(inputs, input)
	}

	var payload struct {
		CreateProductVariants []domain.VariantResult `json:"createProductVariants"`
	}
	err := c.execute(ctx, "createProductVariants", createProductVariantsMutation, map[string]any{"input": inputs}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.CreateProductVariants, nil
}

// ---- Search index ----

// Reindex asks the server to rebuild its search index, useful after a large
// import when the search plugin buffers updates.
func (c *VendureClient) Reindex(ctx context.Context) error {
	var payload struct {
		Reindex struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"reindex"`
	}
	if err := c.execute(ctx, "reindex", reindexMutation, nil, &payload); err != nil {
		return err
	}
	log.Infof("✅ Search reindex job %s (%s)", payload.Reindex.ID, payload.Reindex.State)
	return nil
}
