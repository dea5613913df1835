package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/vestra/vestra-backend/config"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the product catalog from an XLSX workbook. Expected columns:
// name, description, price, original_price, images, category, gender,
// sizes, colors, stock, featured. List cells use | as separator.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found")
	}

	var products []model.Product
	for i, row := range rows[1:] {
		product, err := parseProductRow(row)
		if err != nil {
			fmt.Printf("Skipping row %d: %v\n", i+2, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func parseProductRow(row []string) (model.Product, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return model.Product{}, fmt.Errorf("missing name")
	}

	price, err := strconv.ParseFloat(cell(2), 64)
	if err != nil || price <= 0 {
		return model.Product{}, fmt.Errorf("invalid price %q", cell(2))
	}

	var originalPrice *float64
	if raw := cell(3); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Product{}, fmt.Errorf("invalid original price %q", raw)
		}
		originalPrice = &v
	}

	stock := 0
	if raw := cell(9); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return model.Product{}, fmt.Errorf("invalid stock %q", raw)
		}
	}

	return model.Product{
		Name:          name,
		Description:   cell(1),
		Price:         price,
		OriginalPrice: originalPrice,
		Images:        splitList(cell(4)),
		Category:      model.ProductCategory(cell(5)),
		Gender:        model.ProductGender(cell(6)),
		Sizes:         splitList(cell(7)),
		Colors:        splitList(cell(8)),
		StockQuantity: stock,
		IsFeatured:    strings.EqualFold(cell(10), "true"),
		IsActive:      true,
	}, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
