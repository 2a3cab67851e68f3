package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"questloggd/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMetadataStore backs MetadataStore with a gorm database.
type GormMetadataStore struct {
	db *gorm.DB
}

// NewGormMetadataStore creates a metadata store on top of the given database.
func NewGormMetadataStore(db *gorm.DB) *GormMetadataStore {
	return &GormMetadataStore{db: db}
}

// Get returns the cached record for the given catalogue id, or nil if the
// game has never been cached.
func (s *GormMetadataStore) Get(ctx context.Context, id uint) (*models.GameRecord, error) {
	var record models.GameRecord
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting game record: %w", err)
	}
	return &record, nil
}

// FindByName returns up to limit cached records whose name contains term,
// case-insensitively, in insertion order. Rows written in the same batch
// share a created_at, so within a batch the id tie-break decides. Records
// never change after their first write, so the order is stable.
func (s *GormMetadataStore) FindByName(ctx context.Context, term string, limit int) ([]models.GameRecord, error) {
	var records []models.GameRecord
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) ESCAPE '\\'", "%"+escapeLike(term)+"%").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("searching game records: %w", err)
	}
	return records, nil
}

// escapeLike neutralizes LIKE metacharacters so the term only ever matches
// literally. Without it a term like "%" would match every cached row.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// UpsertMany writes the given records, leaving already-present ids unchanged
// (first write wins). Duplicate ids within the batch collapse to the first
// occurrence. An empty batch is a no-op.
func (s *GormMetadataStore) UpsertMany(ctx context.Context, records []models.GameRecord) error {
	seen := make(map[uint]bool, len(records))
	deduped := make([]models.GameRecord, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		deduped = append(deduped, r)
	}
	if len(deduped) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&deduped).Error
	if err != nil {
		return fmt.Errorf("upserting game records: %w", err)
	}
	return nil
}
