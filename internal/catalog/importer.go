package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"sport-shop/internal/model"
	"sport-shop/internal/repository"
)

// maxConcurrentLoads bounds the number of files read at once.
const maxConcurrentLoads = 4

// Importer loads catalogue files and upserts their products.
type Importer struct {
	loader   Loader
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewImporter creates an importer.
func NewImporter(loader Loader, products repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		products: products,
		logger:   logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every path concurrently, then upserts all products by id and
// resets the id sequence in one transaction. When an id appears more than
// once, the last occurrence in path order wins. It returns the number of
// distinct products written.
func (i *Importer) Import(ctx context.Context, paths []string) (n int, err error) {
	if len(paths) == 0 {
		return 0, fmt.Errorf("no catalogue files given")
	}

	loaded := make([][]model.Product, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for idx, path := range paths {
		g.Go(func() error {
			products, err := i.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			loaded[idx] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	products := merge(loaded)

	tx, err := i.products.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				i.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = i.products.Upsert(ctx, tx, products); err != nil {
		return 0, fmt.Errorf("failed to upsert products: %w", err)
	}

	if err = i.products.ResetSequence(ctx, tx); err != nil {
		return 0, fmt.Errorf("failed to reset product sequence: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info().
		Int("files", len(paths)).
		Int("products", len(products)).
		Msg("catalogue imported")

	return len(products), nil
}

// merge flattens files in order, keeping the last record per id at the
// position of its first appearance.
func merge(files [][]model.Product) []model.Product {
	index := make(map[int64]int)
	var out []model.Product
	for _, products := range files {
		for _, p := range products {
			if pos, ok := index[p.ID]; ok {
				out[pos] = p
				continue
			}
			index[p.ID] = len(out)
			out = append(out, p)
		}
	}
	return out
}
