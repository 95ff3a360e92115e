package store

import (
	"fmt"
	"sort"

	"github.com/AdityaBavadekar/PinLog/internal/model"
	"github.com/AdityaBavadekar/PinLog/internal/pkg/logql"
)

// SortOrder selects the ordering of browse results.
type SortOrder int

const (
	// SortByID orders by insertion, oldest first.
	SortByID SortOrder = iota
	// SortByLevel orders by severity (ERROR first), then by insertion.
	SortByLevel
)

// ParseSortOrder accepts "id" or "level".
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "id":
		return SortByID, nil
	case "level":
		return SortByLevel, nil
	}
	return SortByID, fmt.Errorf("unknown sort order %q", s)
}

// Query filters records for browsing.
type Query struct {
	Tag        string       // exact tag, empty for any
	Level      *model.Level // exact level, nil for any
	Expression string       // logql expression, applied after Tag and Level
	Sort       SortOrder
	Descending bool
	Limit      int // <= 0 means no limit
}

// Query returns records matching q. A malformed expression yields an error;
// storage failures degrade to an empty result like every other read.
func (s *Store) Query(q Query) ([]model.LogRecord, error) {
	node, err := logql.Parse(q.Expression)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	db := s.conn("query")
	if db == nil {
		return []model.LogRecord{}, nil
	}

	tx := db.Model(&logRow{})
	if q.Tag != "" {
		tx = tx.Where("log_tag = ?", q.Tag)
	}
	if q.Level != nil {
		tx = tx.Where("log_level = ?", q.Level.Rank())
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	if q.Sort == SortByLevel {
		tx = tx.Order("log_level " + dir)
	}
	tx = tx.Order("_id " + dir)

	// Without an expression the limit can go straight to SQL.
	if node == nil && q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []logRow
	if err := tx.Find(&rows).Error; err != nil {
		s.onError("query", err)
		return []model.LogRecord{}, nil
	}

	out := make([]model.LogRecord, 0, len(rows))
	for _, r := range rows {
		rec := r.record()
		if !logql.Match(node, &rec) {
			continue
		}
		out = append(out, rec)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// After returns records with an id greater than id, oldest first.
func (s *Store) After(id int64) []model.LogRecord {
	db := s.conn("after")
	if db == nil {
		return []model.LogRecord{}
	}
	var rows []logRow
	if err := db.Where("_id > ?", id).Order("_id ASC").Find(&rows).Error; err != nil {
		s.onError("after", err)
		return []model.LogRecord{}
	}
	return toRecords(rows)
}

// Tags returns the distinct tags in the table, sorted.
func (s *Store) Tags() []string {
	db := s.conn("tags")
	if db == nil {
		return []string{}
	}
	var tags []string
	if err := db.Model(&logRow{}).Distinct().Pluck("log_tag", &tags).Error; err != nil {
		s.onError("tags", err)
		return []string{}
	}
	sort.Strings(tags)
	if tags == nil {
		tags = []string{}
	}
	return tags
}
