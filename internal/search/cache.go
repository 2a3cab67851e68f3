// Package search answers game searches from the local metadata store,
// falling back to the external catalogue on a miss.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"questloggd/backend/internal/catalogue"
	"questloggd/backend/internal/models"
	"questloggd/backend/internal/store"
)

// resultLimit caps both the cache lookup and the external page size.
const resultLimit = 8

// Searcher is the slice of the catalogue client the cache needs.
type Searcher interface {
	Search(ctx context.Context, term string, pageSize int) ([]catalogue.Game, error)
}

// Cache is a read-through cache over the external catalogue: hits are served
// from the metadata store, misses go to the catalogue and are written back
// for next time.
type Cache struct {
	store  store.MetadataStore
	client Searcher
	logger *slog.Logger
}

// NewCache wires a search cache over the given store and catalogue client.
func NewCache(metadata store.MetadataStore, client Searcher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: metadata, client: client, logger: logger}
}

// Search returns up to 8 games matching term.
//
// Any non-empty local match short-circuits the catalogue call, even though
// the catalogue may know additional or fresher titles. That staleness is a
// deliberate trade: cached answers cost no network round-trip against a
// rate-limited API, and the miss path keeps populating the store over time.
func (c *Cache) Search(ctx context.Context, term string) ([]models.GameRecord, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	cached, err := c.store.FindByName(ctx, term, resultLimit)
	if err != nil {
		return nil, fmt.Errorf("querying metadata cache: %w", err)
	}
	if len(cached) > 0 {
		return cached, nil
	}

	external, err := c.client.Search(ctx, term, resultLimit)
	if err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(external))
	for _, g := range external {
		records = append(records, models.GameRecord{
			ID:          g.ID,
			Name:        g.Name,
			ReleaseYear: yearToken(g.Released),
			CoverImage:  g.BackgroundImage,
		})
	}

	// Best-effort write-back: the caller already has the results, so a
	// storage failure here must not fail the search.
	if err := c.store.UpsertMany(ctx, records); err != nil {
		c.logger.Warn("game cache write-back failed", "term", term, "error", err)
	}

	return records, nil
}

// yearToken extracts the 4-character year from an ISO date-like string such
// as "2013-09-17". Anything shorter yields an empty year.
func yearToken(released string) string {
	if len(released) < 4 {
		return ""
	}
	return released[:4]
}
