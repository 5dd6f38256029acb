// Package seeder runs the query -> search -> pick loop of a generate run.
package seeder

import (
	"context"

	"go.uber.org/zap"

	"mspro-labs/fdc-seed/internal/catalog"
	"mspro-labs/fdc-seed/internal/fdc"
	"mspro-labs/fdc-seed/internal/logger"
	"mspro-labs/fdc-seed/internal/models"
	"mspro-labs/fdc-seed/internal/nutrition"
)

// Options controls one run.
type Options struct {
	Queries   []string
	DataTypes []string
	PageSize  int
	Limit     int
}

// Stats counts per-query outcomes.
type Stats struct {
	Searched  int
	Picked    int
	Failed    int
	Unmatched int
}

// Run processes queries one at a time and returns the picked items sorted
// by name. A failed or empty query is logged and skipped; only context
// cancellation stops the run early with an error.
func Run(ctx context.Context, searcher fdc.Searcher, opts Options) ([]models.FoodItem, Stats, error) {
	log := logger.Get()
	picker := nutrition.NewPicker()
	items := []models.FoodItem{}
	var stats Stats

	for _, q := range opts.Queries {
		if len(items) >= opts.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		stats.Searched++
		foods, err := searcher.SearchFoods(ctx, q, opts.DataTypes, opts.PageSize)
		if err != nil {
			stats.Failed++
			log.Warn("search failed", zap.String("query", q), zap.Error(err))
			continue
		}

		item, err := picker.Pick(foods)
		if err != nil {
			stats.Unmatched++
			log.Warn("no usable result", zap.String("query", q), zap.Int("candidates", len(foods)))
			continue
		}

		items = append(items, item)
		stats.Picked++
		log.Info("picked food",
			zap.String("query", q),
			zap.String("name", item.Name),
			zap.Int("calories", item.Calories),
		)
	}

	catalog.SortByName(items)
	return items, stats, nil
}
