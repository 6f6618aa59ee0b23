package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"vendure/importer/internal/domain"
)

// VariantBuilder turns flat scraped variant rows into grouped option/variant
// structures: one option group per distinct normalized attribute key, one
// option value per distinct attribute value, one VariantRecord per raw
// variant. Groups are found-or-created within the product's own context and
// never shared across products.
type VariantBuilder struct {
	client       Client
	assets       AssetUploader // may be nil; variant images are then skipped
	defaultStock int
}

func NewVariantBuilder(client Client, assets AssetUploader, defaultStock int) *VariantBuilder {
	return &VariantBuilder{
		client:       client,
		assets:       assets,
		defaultStock: defaultStock,
	}
}

// groupState tracks one option group and its value ids during a build.
type groupState struct {
	id          string
	valueByCode map[string]string
}

// Materialize builds the variant records for one product. With zero or one
// raw variant the product is simple: no option groups, a single record
// synthesized from the row's top-level fields. featuredAssetID is the
// product-level featured asset, inherited by variants without an image of
// their own.
func (b *VariantBuilder) Materialize(
	ctx context.Context,
	product *domain.Product,
	row *domain.RawProductRow,
	raws []domain.RawVariant,
	featuredAssetID string,
) ([]domain.VariantRecord, error) {
	if len(raws) < 2 {
		return []domain.VariantRecord{b.simpleVariant(product, row, featuredAssetID)}, nil
	}

	groups, err := b.ensureGroups(ctx, product.ID, raws)
	if err != nil {
		return nil, err
	}
	if err := b.ensureValues(ctx, groups, raws); err != nil {
		return nil, err
	}

	firstImage := ""
	if urls := row.ImageURLs(); len(urls) > 0 {
		firstImage = urls[0]
	}

	records := make([]domain.VariantRecord, 0, len(raws))
	for i, raw := range raws {
		records = append(records, b.buildRecord(ctx, product, row, raw, i, groups, featuredAssetID, firstImage))
	}
	return records, nil
}

// ensureGroups is phase 1: the union of all normalized attribute keys across
// the raw variants becomes the product's option groups, each bound to the
// product. The bind is idempotent on the remote side.
func (b *VariantBuilder) ensureGroups(ctx context.Context, productID string, raws []domain.RawVariant) (map[string]*groupState, error) {
	keySet := make(map[string]struct{})
	for _, raw := range raws {
		for rawKey := range raw.Attributes {
			if key := normAttrKey(rawKey); key != "" {
				keySet[key] = struct{}{}
			}
		}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make(map[string]*groupState, len(keys))
	for _, code := range keys {
		group, err := b.client.FindOptionGroup(ctx, productID, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up option group %q: %w", code, err)
		}
		if group == nil {
			if group, err = b.client.CreateOptionGroup(ctx, code, titleCase(code)); err != nil {
				return nil, fmt.Errorf("failed to create option group %q: %w", code, err)
			}
			log.Infof("  ✅ Option group created: %s (%s)", code, group.ID)
		}
		if err := b.client.AddOptionGroupToProduct(ctx, productID, group.ID); err != nil {
			return nil, fmt.Errorf("failed to bind option group %q to product: %w", code, err)
		}
		groups[code] = &groupState{id: group.ID, valueByCode: make(map[string]string)}
	}
	return groups, nil
}

// ensureValues is phase 2a: every distinct attribute value gets an option
// value under its group, found-or-created, unique by code within the group.
func (b *VariantBuilder) ensureValues(ctx context.Context, groups map[string]*groupState, raws []domain.RawVariant) error {
	for _, raw := range raws {
		for rawKey, attrValue := range raw.Attributes {
			if attrValue == "" {
				continue
			}
			group, ok := groups[normAttrKey(rawKey)]
			if !ok {
				continue
			}
			code := optionCode(attrValue)
			if _, known := group.valueByCode[code]; known {
				continue
			}

			value, err := b.client.FindOptionValue(ctx, group.id, code)
			if err != nil {
				return fmt.Errorf("failed to look up option %q: %w", code, err)
			}
			if value == nil {
				if value, err = b.client.CreateOptionValue(ctx, group.id, code, attrValue); err != nil {
					return fmt.Errorf("failed to create option %q: %w", code, err)
				}
				log.Infof("    ✅ Option created: %s (%s)", attrValue, value.ID)
			}
			group.valueByCode[code] = value.ID
		}
	}
	return nil
}

// buildRecord is phase 2b: one VariantRecord per raw variant, with its
// attribute values mapped through the group caches to option ids.
func (b *VariantBuilder) buildRecord(
	ctx context.Context,
	product *domain.Product,
	row *domain.RawProductRow,
	raw domain.RawVariant,
	index int,
	groups map[string]*groupState,
	featuredAssetID, firstImage string,
) domain.VariantRecord {
	var optionIDs []string
	var display []string
	for rawKey, attrValue := range raw.Attributes {
		if attrValue == "" {
			continue
		}
		display = append(display, attrValue)
		if group, ok := groups[normAttrKey(rawKey)]; ok {
			if id, ok := group.valueByCode[optionCode(attrValue)]; ok {
				optionIDs = append(optionIDs, id)
			}
		}
	}
	sort.Strings(display)

	price := ParsePrice(raw.DisplayPrice.String())
	if raw.DisplayPrice.String() == "" {
		price = ParsePrice(row.Price)
	}

	stock := raw.StockQuantity
	if stock <= 0 {
		stock = b.defaultStock
	}

	assetID := featuredAssetID
	if b.assets != nil && raw.Image != "" && raw.Image != firstImage {
		if id := b.assets.UploadFromURL(ctx, raw.Image); id != "" {
			assetID = id
		}
	}

	return domain.VariantRecord{
		ProductID:       product.ID,
		SKU:             b.variantSKU(row, product, raw, index),
		PriceMinor:      price,
		StockOnHand:     stock,
		OptionValueIDs:  optionIDs,
		Name:            product.Name + " - " + strings.Join(display, " - "),
		FeaturedAssetID: assetID,
	}
}

// variantSKU honors the non-empty SKU invariant: the raw SKU when present,
// otherwise a deterministic {slugOrID}-{variationIDorIndex} fallback.
func (b *VariantBuilder) variantSKU(row *domain.RawProductRow, product *domain.Product, raw domain.RawVariant, index int) string {
	if sku := strings.TrimSpace(raw.SKU); sku != "" {
		return sku
	}
	base := strings.TrimSpace(row.SKU)
	if base == "" {
		base = strings.TrimSpace(row.ProductID)
	}
	if base == "" {
		base = product.Slug
	}
	suffix := raw.VariationID
	if suffix == 0 {
		suffix = int64(index)
	}
	return fmt.Sprintf("%s-%d", base, suffix)
}

// simpleVariant synthesizes the single record of a simple product straight
// from the row. The SKU fallback chain ends in a timestamp so the invariant
// holds even for rows missing sku, product_id and slug alike.
func (b *VariantBuilder) simpleVariant(product *domain.Product, row *domain.RawProductRow, featuredAssetID string) domain.VariantRecord {
	sku := strings.TrimSpace(row.SKU)
	if sku == "" {
		sku = strings.TrimSpace(row.ProductID)
	}
	if sku == "" {
		sku = product.Slug
	}
	if sku == "" {
		sku = fmt.Sprintf("SKU-%d", time.Now().Unix())
	}

	return domain.VariantRecord{
		ProductID:       product.ID,
		SKU:             sku,
		PriceMinor:      ParsePrice(row.Price),
		StockOnHand:     b.defaultStock,
		Name:            product.Name,
		FeaturedAssetID: featuredAssetID,
	}
}
