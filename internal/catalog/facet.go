package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrTermCreation marks a persistent facet-value creation failure. It is a
// deterministic rejection, never retried by the transport retry wrapper.
var ErrTermCreation = errors.New("facet value creation failed")

// FacetResolver maps category names to durable facet-value ids, creating
// values under the "category" facet on first use. State is per-instance, not
// global: each run owns its resolver, which keeps tests isolated and lets
// parallel runs coexist. The cache is write-once per code and mutex-guarded
// so concurrent row processing stays safe.
type FacetResolver struct {
	client Client

	mu          sync.Mutex
	facetID     string
	valueByCode map[string]string
}

func NewFacetResolver(client Client) *FacetResolver {
	return &FacetResolver{
		client:      client,
		valueByCode: make(map[string]string),
	}
}

// EnsureValue returns the facet-value id for a category name, creating the
// value remotely on first use. Same name, same id for the life of the run.
func (r *FacetResolver) EnsureValue(ctx context.Context, name string) (string, error) {
	code := Normalize(name)
	if code == "" {
		return "", fmt.Errorf("%w: empty code for name %q", ErrTermCreation, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.valueByCode[code]; ok {
		return id, nil
	}

	facetID, err := r.ensureFacetLocked(ctx)
	if err != nil {
		return "", err
	}

	// The parent facet fetch caches sibling values; the code may be known now.
	if id, ok := r.valueByCode[code]; ok {
		return id, nil
	}

	value, err := r.client.CreateFacetValue(ctx, facetID, code, name)
	if err != nil {
		// A concurrent importer may have just created the same code. Re-query
		// once before giving up.
		if id := r.requeryLocked(ctx, code); id != "" {
			log.Infof("✅ Facet value %q created concurrently, reusing id %s", code, id)
			return id, nil
		}
		return "", fmt.Errorf("%w: %s: %v", ErrTermCreation, code, err)
	}

	r.valueByCode[code] = value.ID
	log.Debugf("Created facet value %q (%s)", name, value.ID)
	return value.ID, nil
}

// ensureFacetLocked resolves the "category" facet id, creating the facet if
// the store has none yet, and caches every value that comes back with it.
func (r *FacetResolver) ensureFacetLocked(ctx context.Context) (string, error) {
	if r.facetID != "" {
		return r.facetID, nil
	}

	facet, err := r.client.FindCategoryFacet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to look up category facet: %w", err)
	}
	if facet == nil {
		if facet, err = r.client.CreateCategoryFacet(ctx); err != nil {
			return "", fmt.Errorf("failed to create category facet: %w", err)
		}
		log.Infof("✅ Created category facet (%s)", facet.ID)
	}

	r.facetID = facet.ID
	for _, v := range facet.Values {
		r.valueByCode[v.Code] = v.ID
	}
	return r.facetID, nil
}

func (r *FacetResolver) requeryLocked(ctx context.Context, code string) string {
	facet, err := r.client.FindCategoryFacet(ctx)
	if err != nil || facet == nil {
		return ""
	}
	for _, v := range facet.Values {
		r.valueByCode[v.Code] = v.ID
	}
	return r.valueByCode[code]
}
