package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"vendure/importer/internal/catalog"
	"vendure/importer/internal/client"
	"vendure/importer/internal/config"
	"vendure/importer/internal/importer"
	"vendure/importer/internal/queue"
	"vendure/importer/internal/repository"
	"vendure/importer/internal/retry"
	"vendure/importer/internal/source"
	"vendure/importer/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       *client.VendureClient
	Ledger       repository.ImportLedger
	Queue        queue.Queue
	StateManager state.StateManager
	Importer     *importer.Importer

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	container.db = db
	container.Ledger = repository.NewImportLedger(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")
	container.redis = rdb

	retryQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = retryQueue
	container.StateManager = state.NewRedisStateManager(rdb)

	vendureClient := client.NewVendureClient(cfg.Vendure)
	container.Client = vendureClient

	retryOpts := retry.Options{
		Retries:   cfg.Vendure.MaxRetries,
		BaseDelay: time.Duration(cfg.Vendure.RetryBaseDelayMs) * time.Millisecond,
	}

	assetPool := importer.NewAssetPool(vendureClient, cfg.Import.AssetWorkers, cfg.Import.AssetTimeout)
	facets := catalog.NewFacetResolver(vendureClient)
	collections := catalog.NewCollectionResolver(vendureClient, facets, retryOpts)
	variants := catalog.NewVariantBuilder(vendureClient, assetPool, cfg.Import.DefaultStockOnHand)

	container.Importer = importer.New(
		vendureClient,
		facets,
		collections,
		variants,
		assetPool,
		container.Ledger,
		retryQueue,
		container.StateManager,
		retryOpts,
		cfg.Import,
		cfg.Redis.ConsumerGroup,
	)

	return container, nil
}

// Run authenticates, imports every row of the configured source, and
// triggers a search reindex when the run created anything.
func (c *Container) Run(ctx context.Context) error {
	if err := c.Client.Login(ctx); err != nil {
		return err
	}

	identifier, err := c.Client.Me(ctx)
	if err != nil {
		return err
	}
	log.Infof("✅ Session verified for %s", identifier)

	src, err := c.pickSource()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Importer.Run(ctx, src)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	counters := c.Importer.Counters()
	if c.Config.Import.ReindexAfterImport && counters.Created > 0 {
		if err := c.Client.Reindex(ctx); err != nil {
			log.Warnf("⚠ Search reindex failed: %v", err)
		}
	}

	return nil
}

func (c *Container) pickSource() (source.Source, error) {
	switch {
	case c.Config.Import.XLSXPath != "":
		return source.NewXLSXSource(c.Config.Import.XLSXPath), nil
	case c.Config.Import.CSVPath != "":
		return source.NewCSVSource(c.Config.Import.CSVPath), nil
	default:
		return nil, fmt.Errorf("no input configured: set import.xlsx_path or import.csv_path")
	}
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	if err := c.redis.Close(); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
