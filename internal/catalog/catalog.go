// Package catalog bulk-loads products from gzipped JSON-lines files.
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"sport-shop/internal/model"
)

// Loader reads one catalogue file.
type Loader interface {
	// Load reads a gzipped JSON-lines file and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// record is one line of a catalogue file.
type record struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
}

func (r record) validate() error {
	switch {
	case r.ID <= 0:
		return fmt.Errorf("id must be positive, got %d", r.ID)
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("name is required")
	case r.Price.IsNegative():
		return fmt.Errorf("price must not be negative")
	case r.Stock < 0:
		return fmt.Errorf("stock must not be negative")
	}
	return nil
}

func (r record) product() model.Product {
	return model.Product{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Price:       r.Price.Round(2),
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
	}
}

// decode reads gzipped JSON lines from src. Blank lines are skipped.
func decode(ctx context.Context, src io.Reader, name string) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid JSON: %w", name, lineNo, err)
		}
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		products = append(products, rec.product())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue file %s: %w", name, err)
	}

	return products, nil
}
