package service

import (
	"fmt"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/pricing"
)

// cartAggregate is the grouped view of an owner's cart rows: one pricing line
// per distinct (item, price variant) pair, quantity derived from row count.
type cartAggregate struct {
	Lines        []pricing.LineItem
	LineIDs      []uint
	DiscountCode string
	Warnings     []string
}

// IsEmpty reports whether no valid lines survived aggregation.
func (a cartAggregate) IsEmpty() bool {
	return len(a.Lines) == 0
}

type groupKey struct {
	itemID  uint
	priceID uint
}

// buildAggregate groups raw cart rows into pricing lines, preserving the
// order groups first appeared in. Rows pointing at removed or unpublished
// catalog entries are dropped with a warning instead of failing the whole
// cart. The unit price is always the live catalog price, not the price
// captured when the row was added.
func buildAggregate(rows []model.CartLine) cartAggregate {
	var agg cartAggregate
	index := make(map[groupKey]int)
	warned := make(map[groupKey]bool)

	for _, row := range rows {
		key := groupKey{itemID: row.ItemID, priceID: row.PriceID}

		if !rowValid(&row) {
			if !warned[key] {
				agg.Warnings = append(agg.Warnings,
					fmt.Sprintf("item %d is no longer available and was skipped", row.ItemID))
				warned[key] = true
			}
			continue
		}

		if row.DiscountCode != nil && agg.DiscountCode == "" {
			agg.DiscountCode = *row.DiscountCode
		}

		agg.LineIDs = append(agg.LineIDs, row.ID)

		if i, ok := index[key]; ok {
			agg.Lines[i].Quantity++
			continue
		}
		index[key] = len(agg.Lines)
		agg.Lines = append(agg.Lines, pricing.LineItem{
			ItemID:    row.ItemID,
			Title:     row.Item.Name,
			PriceID:   row.PriceID,
			Size:      row.Price.Size,
			UnitPrice: row.Price.Price,
			Quantity:  1,
		})
	}

	return agg
}

func rowValid(row *model.CartLine) bool {
	if row.Item.ID == 0 || row.Price.ID == 0 {
		return false
	}
	if row.Price.ItemID != row.ItemID {
		return false
	}
	return row.Item.Status == model.ItemStatusPublished
}
