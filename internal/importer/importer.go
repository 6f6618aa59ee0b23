package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"vendure/importer/internal/catalog"
	"vendure/importer/internal/config"
	"vendure/importer/internal/domain"
	"vendure/importer/internal/domain/task"
	"vendure/importer/internal/queue"
	"vendure/importer/internal/repository"
	"vendure/importer/internal/retry"
	"vendure/importer/internal/source"
	"vendure/importer/internal/state"
)

// Outcome is the terminal state of one row.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeFailed
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Importer drives each input row through asset upload, product creation,
// categorization and variant creation, strictly in that order, and accounts
// for every terminal outcome. Rows are processed sequentially; the only
// concurrency is the bounded asset pool within a row.
//
// Ledger, queue and state manager are optional collaborators: nil disables
// the audit trail, the durable retry queue and resume support respectively.
type Importer struct {
	client      catalog.Client
	facets      *catalog.FacetResolver
	collections *catalog.CollectionResolver
	variants    *catalog.VariantBuilder
	assets      *AssetPool
	ledger      repository.ImportLedger
	queue       queue.Queue
	state       state.StateManager
	retryOpts   retry.Options
	cfg         config.ImportConfig
	groupName   string

	counters domain.RunCounters
}

func New(
	client catalog.Client,
	facets *catalog.FacetResolver,
	collections *catalog.CollectionResolver,
	variants *catalog.VariantBuilder,
	assets *AssetPool,
	ledger repository.ImportLedger,
	q queue.Queue,
	stateManager state.StateManager,
	retryOpts retry.Options,
	cfg config.ImportConfig,
	groupName string,
) *Importer {
	return &Importer{
		client:      client,
		facets:      facets,
		collections: collections,
		variants:    variants,
		assets:      assets,
		ledger:      ledger,
		queue:       q,
		state:       stateManager,
		retryOpts:   retryOpts,
		cfg:         cfg,
		groupName:   groupName,
	}
}

// Counters returns the run's accumulated terminal outcomes.
func (imp *Importer) Counters() domain.RunCounters {
	return imp.counters
}

// Run processes every row of the source, resuming from the last checkpoint
// when one exists, then drains the retry queue. The returned error reflects
// only run-level problems; individual row failures end up in the counters.
func (imp *Importer) Run(ctx context.Context, src source.Source) error {
	rows, err := src.Rows()
	if err != nil {
		return fmt.Errorf("failed to read rows from %s: %w", src.Name(), err)
	}
	log.Infof("→ %d row(s) found in %s", len(rows), src.Name())

	startRow := 0
	if imp.state != nil {
		if startRow, err = imp.state.GetLastProcessedRow(ctx, src.Name()); err != nil {
			log.Errorf("❌ Failed to read progress checkpoint: %v", err)
			startRow = 0
		}
		if startRow > 0 {
			log.Infof("🔄 Resuming %s from row %d", src.Name(), startRow+1)
		}
	}

	for i := startRow; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		rowNum := i + 1
		log.Infof("━━━ Processing [%d/%d] ━━━", rowNum, len(rows))

		row := rows[i]
		imp.processAndAccount(ctx, &row, src.Name(), rowNum, 0)

		if imp.state != nil && imp.cfg.CheckpointInterval > 0 && rowNum%imp.cfg.CheckpointInterval == 0 {
			if err := imp.state.SetLastProcessedRow(ctx, src.Name(), rowNum); err != nil {
				log.Errorf("❌ Failed to checkpoint progress: %v", err)
			}
		}
	}

	if imp.state != nil {
		if err := imp.state.ClearProgress(ctx, src.Name()); err != nil {
			log.Errorf("❌ Failed to clear progress checkpoint: %v", err)
		}
	}

	imp.drainRetries(ctx)
	imp.logSummary(len(rows))
	return nil
}

// processAndAccount runs one row to a terminal state, or defers it to the
// retry queue when it failed on transient grounds and attempts remain.
// Deferred rows are not counted until their terminal pass.
func (imp *Importer) processAndAccount(ctx context.Context, row *domain.RawProductRow, sourceName string, rowNum, retryCount int) {
	outcome, err := imp.ProcessRow(ctx, row)

	if outcome == OutcomeFailed && err != nil && retry.IsTransient(err) && imp.queue != nil && retryCount < imp.cfg.MaxRowRetries {
		retryTask := &task.RowRetryTask{
			Row:        *row,
			SourceName: sourceName,
			RowNumber:  rowNum,
			RetryCount: retryCount + 1,
			Error:      err.Error(),
		}
		if _, addErr := imp.queue.AddTask(ctx, retryTask); addErr != nil {
			log.Errorf("❌ Failed to enqueue row %d for retry: %v", rowNum, addErr)
		} else {
			log.Warnf("🔄 Row %d deferred to retry queue: %v", rowNum, err)
			return
		}
	}

	switch outcome {
	case OutcomeCreated:
		imp.counters.Created++
		log.Infof("✅ Row %d imported", rowNum)
	case OutcomeSkipped:
		imp.counters.Skipped++
		log.Warnf("⊘ Row %d skipped: no product name", rowNum)
	case OutcomeFailed:
		imp.counters.Failed++
		log.Errorf("❌ Row %d failed: %v", rowNum, err)
	}

	imp.saveOutcome(ctx, row, sourceName, rowNum, outcome, err)
}

func (imp *Importer) saveOutcome(ctx context.Context, row *domain.RawProductRow, sourceName string, rowNum int, outcome Outcome, rowErr error) {
	if imp.ledger == nil {
		return
	}

	record := repository.ImportRecord{
		Slug:      productSlug(row),
		Name:      strings.TrimSpace(row.Title),
		Status:    outcome.String(),
		Source:    sourceName,
		RowNumber: rowNum,
	}
	if rowErr != nil {
		record.Error = rowErr.Error()
	}
	if record.Slug == "" {
		record.Slug = fmt.Sprintf("%s-row-%d", sourceName, rowNum)
	}

	if err := imp.ledger.SaveOutcome(ctx, record); err != nil {
		log.Errorf("❌ Failed to record outcome for row %d: %v", rowNum, err)
	}
}

// ProcessRow runs the per-row state machine. The error return carries the
// failure of the step that decided the outcome; best-effort steps only log.
func (imp *Importer) ProcessRow(ctx context.Context, row *domain.RawProductRow) (Outcome, error) {
	// Validate
	name := strings.TrimSpace(row.Title)
	if name == "" {
		return OutcomeSkipped, nil
	}
	log.Infof("Product: %s", name)

	// Assets, best-effort, before product creation so ids can be attached
	featuredAssetID, assetIDs := imp.uploadRowImages(ctx, row)

	// CreateProduct
	product, err := imp.client.CreateProduct(ctx, domain.CreateProduct{
		Name:            name,
		Slug:            productSlug(row),
		Description:     row.Description(),
		FeaturedAssetID: featuredAssetID,
		AssetIDs:        assetIDs,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("%s: %w", StepCreateProduct, err)
	}
	log.Infof("✅ Product created: %s (slug %s)", product.ID, product.Slug)

	// Categorize
	if err := imp.categorize(ctx, product, row); err != nil && stepPolicies[StepCategorize] == Fatal {
		return OutcomeFailed, fmt.Errorf("%s: %w", StepCategorize, err)
	}

	// Variants
	if err := imp.createVariants(ctx, product, row, featuredAssetID); err != nil {
		return OutcomeFailed, fmt.Errorf("%s: %w", StepVariants, err)
	}

	return OutcomeCreated, nil
}

// uploadRowImages uploads the row's images: the first becomes the featured
// asset, the rest (bounded by max_gallery_images) the gallery.
func (imp *Importer) uploadRowImages(ctx context.Context, row *domain.RawProductRow) (string, []string) {
	if imp.assets == nil {
		return "", nil
	}

	urls := row.ImageURLs()
	if len(urls) == 0 {
		return "", nil
	}
	if limit := imp.cfg.MaxGalleryImages; limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	log.Infof("→ Uploading %d image(s)", len(urls))

	var featured string
	var assetIDs []string
	for _, id := range imp.assets.UploadAll(ctx, urls) {
		if id == "" {
			continue
		}
		if featured == "" {
			featured = id
		}
		assetIDs = append(assetIDs, id)
	}
	return featured, assetIDs
}

// categorize resolves the row's category path and attaches the results to
// the product. Every sub-step is best-effort: a single failed facet attach
// or collection link is logged and the rest continues.
func (imp *Importer) categorize(ctx context.Context, product *domain.Product, row *domain.RawProductRow) error {
	path := catalog.ParseCategoryPath(row.Categories)
	if len(path) == 0 {
		return nil
	}

	hierarchy, err := imp.collections.EnsureHierarchy(ctx, path)
	if err != nil {
		return err
	}

	if len(hierarchy.FacetValueIDs) > 0 {
		err := retry.DoVoid(ctx, imp.retryOpts, func() error {
			return imp.client.UpdateProductFacetValues(ctx, product.ID, hierarchy.FacetValueIDs)
		})
		if err != nil {
			log.Warnf("⚠ Failed to assign facet values: %v", err)
		} else {
			log.Infof("  ✅ %d facet value(s) assigned", len(hierarchy.FacetValueIDs))
		}
	}

	linked := 0
	for _, collectionID := range hierarchy.CollectionIDs {
		err := retry.DoVoid(ctx, imp.retryOpts, func() error {
			return imp.client.AddProductsToCollection(ctx, collectionID, []string{product.ID})
		})
		if err != nil {
			log.Warnf("⚠ Failed to link product to collection %s: %v", collectionID, err)
			continue
		}
		linked++
	}
	if len(hierarchy.CollectionIDs) > 0 {
		log.Infof("  ✅ Product linked to %d of %d collection(s)", linked, len(hierarchy.CollectionIDs))
	}
	return nil
}

func (imp *Importer) createVariants(ctx context.Context, product *domain.Product, row *domain.RawProductRow, featuredAssetID string) error {
	raws := parseVariantsJSON(row.VariantsJSON)

	records, err := imp.variants.Materialize(ctx, product, row, raws, featuredAssetID)
	if err != nil {
		return err
	}

	results, err := imp.client.CreateProductVariants(ctx, records)
	if err != nil {
		return err
	}
	for _, result := range results {
		if result.Err() {
			return fmt.Errorf("variant creation rejected: [%s] %s", result.ErrorCode, result.Message)
		}
	}
	if len(results) == 0 {
		return fmt.Errorf("variant creation returned no results")
	}

	log.Infof("✅ %d variant(s) created", len(results))
	return nil
}

// parseVariantsJSON decodes the variants_json field; malformed JSON falls
// back to the simple-product flow rather than failing the row.
func parseVariantsJSON(raw string) []domain.RawVariant {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	var raws []domain.RawVariant
	if err := json.Unmarshal([]byte(raw), &raws); err != nil {
		log.Warnf("⚠ Could not parse variants_json, using simple flow: %v", err)
		return nil
	}
	return raws
}

func productSlug(row *domain.RawProductRow) string {
	if slug := strings.TrimSpace(row.Slug); slug != "" {
		return slug
	}
	return catalog.Normalize(row.Title)
}

// drainRetries replays queued row-retry tasks until the stream is empty.
// A task that fails transiently again goes back on the stream as long as it
// has attempts left; exhausted tasks reach their terminal failed state here.
func (imp *Importer) drainRetries(ctx context.Context) {
	if imp.queue == nil {
		return
	}

	stream := imp.queue.StreamName("RowRetryTask")
	consumer := "retry-worker-1"

	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := imp.queue.GetTask(ctx, imp.groupName, consumer, stream)
		if err != nil {
			log.Errorf("❌ Failed to read retry task: %v", err)
			return
		}
		if msg == nil {
			return // stream drained
		}

		taskData, ok := msg.Values["task_data"].(string)
		if !ok {
			log.Errorf("❌ Invalid task data in message %s", msg.ID)
			imp.ack(ctx, stream, msg.ID)
			continue
		}

		retryTask, err := task.UnmarshalTask[*task.RowRetryTask]([]byte(taskData))
		if err != nil {
			log.Errorf("❌ Failed to unmarshal retry task: %v", err)
			imp.ack(ctx, stream, msg.ID)
			continue
		}

		log.Infof("🔄 Retrying row %d from %s (attempt %d)", retryTask.RowNumber, retryTask.SourceName, retryTask.RetryCount)
		imp.processAndAccount(ctx, &retryTask.Row, retryTask.SourceName, retryTask.RowNumber, retryTask.RetryCount)
		imp.ack(ctx, stream, msg.ID)
	}
}

func (imp *Importer) ack(ctx context.Context, stream, msgID string) {
	if err := imp.queue.AckTask(ctx, stream, imp.groupName, msgID); err != nil {
		log.Errorf("❌ Failed to ack message %s: %v", msgID, err)
	}
}

func (imp *Importer) logSummary(total int) {
	log.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Infof("✅ Created: %d", imp.counters.Created)
	log.Infof("❌ Failed:  %d", imp.counters.Failed)
	log.Infof("⊘  Skipped: %d", imp.counters.Skipped)
	log.Infof("📊 Total rows: %d", total)
}
