// Command seed imports a menu from an XLSX workbook into the database.
//
// The workbook's first sheet must have a header row followed by one row per
// price variant:
//
//	Category | Item | Details | Size | Price
//
// Rows sharing a category/item pair become one item with several price
// variants.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type menuRow struct {
	Category string
	Item     string
	Details  string
	Size     string
	Price    float64
}

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

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readMenuFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total price rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported, err := importMenu(db.GetDB(), rows)
	if err != nil {
		log.Fatal("Failed to import menu:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Items imported or updated: %d\n", imported)
}

func readMenuFromXLSX(filePath string) ([]menuRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheetName)
	}

	var rows []menuRow
	for i, cells := range raw[1:] {
		if len(cells) < 5 {
			continue
		}
		category := strings.TrimSpace(cells[0])
		item := strings.TrimSpace(cells[1])
		if category == "" || item == "" {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(cells[4]), 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("row %d: invalid price %q", i+2, cells[4])
		}

		rows = append(rows, menuRow{
			Category: category,
			Item:     item,
			Details:  strings.TrimSpace(cells[2]),
			Size:     strings.TrimSpace(cells[3]),
			Price:    price,
		})
	}
	return rows, nil
}

func importMenu(gdb *gorm.DB, rows []menuRow) (int, error) {
	categories := make(map[string]uint)
	items := make(map[string]uint)
	imported := 0

	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			categoryID, ok := categories[row.Category]
			if !ok {
				var category model.Category
				err := tx.Where("name = ?", row.Category).First(&category).Error
				if err == gorm.ErrRecordNotFound {
					category = model.Category{Name: row.Category}
					if err := tx.Create(&category).Error; err != nil {
						return fmt.Errorf("create category %q: %w", row.Category, err)
					}
				} else if err != nil {
					return err
				}
				categoryID = category.ID
				categories[row.Category] = categoryID
			}

			itemKey := row.Category + "/" + row.Item
			itemID, ok := items[itemKey]
			if !ok {
				var item model.Item
				err := tx.Where("name = ? AND category_id = ?", row.Item, categoryID).First(&item).Error
				if err == gorm.ErrRecordNotFound {
					item = model.Item{
						Name:       row.Item,
						Details:    row.Details,
						CategoryID: categoryID,
						Status:     model.ItemStatusPublished,
					}
					if err := tx.Create(&item).Error; err != nil {
						return fmt.Errorf("create item %q: %w", row.Item, err)
					}
					imported++
				} else if err != nil {
					return err
				}
				itemID = item.ID
				items[itemKey] = itemID
			}

			price := model.ItemPrice{
				ItemID: itemID,
				Size:   row.Size,
				Price:  row.Price,
			}
			if err := tx.Create(&price).Error; err != nil {
				return fmt.Errorf("create price for %q: %w", row.Item, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
