//go:build ignore

// Generates data/products.jsonl.gz for cmd/seed.
//
//	go run scripts/generate_sample_catalog.go
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Stock       int    `json:"stock"`
}

var products = []product{
	{1, "Football", "19.99", "Match ball, size 5", "/images/football.png", 40},
	{2, "Basketball", "24.50", "Indoor/outdoor composite leather", "/images/basketball.png", 25},
	{3, "Tennis Racket", "89.00", "Graphite frame, 300 g", "/images/racket.png", 12},
	{4, "Yoga Mat", "15.75", "6 mm non-slip mat", "/images/yoga-mat.png", 60},
	{5, "Running Shoes", "120.00", "Neutral cushioning road shoe", "/images/running-shoes.png", 18},
	{6, "Dumbbell Set", "64.90", "2 x 10 kg adjustable", "/images/dumbbells.png", 9},
	{7, "Cycling Helmet", "45.00", "Ventilated road helmet", "/images/helmet.png", 22},
	{8, "Water Bottle", "7.99", "750 ml BPA-free", "/images/bottle.png", 150},
	{9, "Ski Goggles", "54.25", "Anti-fog double lens", "/images/goggles.png", 14},
	{10, "Jump Rope", "9.50", "Adjustable speed rope", "/images/jump-rope.png", 75},
}

func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	path := filepath.Join(dataDir, "products.jsonl.gz")
	if err := writeCatalog(path, products); err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}

	fmt.Printf("Created %s with %d products\n", path, len(products))
	fmt.Println("Import it with: go run ./cmd/seed")
}

func writeCatalog(path string, products []product) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			gzipWriter.Close()
			return fmt.Errorf("failed to write product %d: %w", p.ID, err)
		}
	}

	return gzipWriter.Close()
}
