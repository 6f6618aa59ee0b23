package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"vendure/importer/internal/domain"
	"vendure/importer/internal/retry"
)

// HierarchyResult carries the resolved ids for a category path, root first.
// Both lists are index-aligned with the surviving path segments.
type HierarchyResult struct {
	CollectionIDs []string
	FacetValueIDs []string
}

// CollectionResolver materializes |-delimited category paths as nested
// collections, parent before child, reusing existing nodes by (parent, slug).
// The compound cache key matters: "Modern" under "Living Room" and "Modern"
// under "Bedroom" are different nodes and must never collapse to one.
type CollectionResolver struct {
	client Client
	facets *FacetResolver
	retry  retry.Options

	mu    sync.Mutex
	cache map[string]string // "parentID::slug" (bare slug at root) -> collection id
}

func NewCollectionResolver(client Client, facets *FacetResolver, opts retry.Options) *CollectionResolver {
	return &CollectionResolver{
		client: client,
		facets: facets,
		retry:  opts,
		cache:  make(map[string]string),
	}
}

// EnsureHierarchy resolves every level of the path in root-to-leaf order.
// A level that fails to resolve its facet value is logged and skipped along
// with everything below it; levels already resolved stay in the result, so a
// mid-path failure still yields maximal partial success.
func (r *CollectionResolver) EnsureHierarchy(ctx context.Context, path []string) (HierarchyResult, error) {
	var result HierarchyResult
	if len(path) == 0 {
		return result, nil
	}

	log.Infof("→ Resolving category hierarchy: %s", strings.Join(path, " → "))

	parentID := ""
	for _, name := range path {
		facetValueID, err := r.facets.EnsureValue(ctx, name)
		if err != nil {
			log.Warnf("⚠ Skipping category level %q and below: %v", name, err)
			break
		}
		result.FacetValueIDs = append(result.FacetValueIDs, facetValueID)

		collectionID, err := r.ensureCollection(ctx, name, facetValueID, parentID)
		if err != nil {
			log.Warnf("⚠ Failed to ensure collection %q, skipping deeper levels: %v", name, err)
			break
		}
		result.CollectionIDs = append(result.CollectionIDs, collectionID)
		parentID = collectionID
	}

	log.Infof("✅ Resolved %d of %d hierarchy level(s)", len(result.CollectionIDs), len(path))
	return result, nil
}

func (r *CollectionResolver) ensureCollection(ctx context.Context, name, facetValueID, parentID string) (string, error) {
	slug := Normalize(name)
	key := cacheKey(parentID, slug)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	// Parent-scoped lookup: a colliding slug under another parent is a miss.
	existing, err := r.client.FindCollection(ctx, slug, parentID)
	if err != nil {
		return "", fmt.Errorf("failed to look up collection %q: %w", slug, err)
	}
	if existing != nil {
		r.cache[key] = existing.ID
		return existing.ID, nil
	}

	log.Infof("  → Creating collection %q (parent=%s)", name, orRoot(parentID))
	created, err := retry.Do(ctx, r.retry, func() (*domain.Collection, error) {
		return r.client.CreateCollection(ctx, domain.CreateCollection{
			Name:         name,
			Slug:         slug,
			Description:  name,
			ParentID:     parentID,
			FacetValueID: facetValueID,
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to create collection %q: %w", slug, err)
	}

	r.cache[key] = created.ID
	log.Infof("    ✅ Collection created: %s (%s)", name, created.ID)
	return created.ID, nil
}

func cacheKey(parentID, slug string) string {
	if parentID == "" {
		return slug
	}
	return parentID + "::" + slug
}

func orRoot(parentID string) string {
	if parentID == "" {
		return "root"
	}
	return parentID
}
