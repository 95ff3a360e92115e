package store

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/AdityaBavadekar/PinLog/internal/model"
	"github.com/AdityaBavadekar/PinLog/internal/pkg/logql"
)

// Stats summarizes the table.
type Stats struct {
	TotalLogs  int64          `json:"total_logs"`
	DiskUsage  int64          `json:"disk_usage"` // bytes, including WAL files
	LevelDist  map[string]int `json:"level_dist"` // e.g. "WARN": 12
	TopTags    map[string]int `json:"top_tags"`
	OldestTime int64          `json:"oldest_time"` // epoch millis, 0 when empty
	NewestTime int64          `json:"newest_time"`
}

// TagRow is one entry of a tag ranking.
type TagRow struct {
	Tag   string
	Count int
}

// SortedTags returns TopTags ordered by count, then by tag.
func (st Stats) SortedTags() []TagRow {
	out := make([]TagRow, 0, len(st.TopTags))
	for tag, n := range st.TopTags {
		out = append(out, TagRow{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

const topTagsLimit = 10

// Stats computes the summary. Failures leave the affected fields empty.
func (s *Store) Stats() Stats {
	st := Stats{
		LevelDist: make(map[string]int),
		TopTags:   make(map[string]int),
		DiskUsage: s.diskUsage(),
	}

	db := s.conn("stats")
	if db == nil {
		return st
	}

	var levels []struct {
		Level int `gorm:"column:log_level"`
		N     int `gorm:"column:n"`
	}
	if err := db.Model(&logRow{}).Select("log_level, count(*) AS n").Group("log_level").Scan(&levels).Error; err != nil {
		s.onError("stats", err)
		return st
	}
	for _, l := range levels {
		st.LevelDist[model.LevelFromRank(l.Level).String()] += l.N
		st.TotalLogs += int64(l.N)
	}

	var tags []struct {
		Tag string `gorm:"column:log_tag"`
		N   int    `gorm:"column:n"`
	}
	if err := db.Model(&logRow{}).Select("log_tag, count(*) AS n").Group("log_tag").
		Order("n DESC").Limit(topTagsLimit).Scan(&tags).Error; err != nil {
		s.onError("stats", err)
		return st
	}
	for _, t := range tags {
		st.TopTags[t.Tag] = t.N
	}

	var span struct {
		Oldest *int64 `gorm:"column:oldest"`
		Newest *int64 `gorm:"column:newest"`
	}
	if err := db.Model(&logRow{}).Select("MIN(created) AS oldest, MAX(created) AS newest").Scan(&span).Error; err != nil {
		s.onError("stats", err)
		return st
	}
	if span.Oldest != nil {
		st.OldestTime = *span.Oldest
	}
	if span.Newest != nil {
		st.NewestTime = *span.Newest
	}
	return st
}

func (s *Store) diskUsage() int64 {
	if s.opts.Path == ":memory:" {
		return 0
	}
	var size int64
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if info, err := os.Stat(s.opts.Path + suffix); err == nil {
			size += info.Size()
		}
	}
	return size
}

// HistogramPoint is the number of records in one time bucket.
type HistogramPoint struct {
	Time  int64 `json:"time"` // bucket start, epoch millis
	Count int   `json:"count"`
}

// Histogram counts records matching expression per interval bucket.
func (s *Store) Histogram(interval time.Duration, expression string) ([]HistogramPoint, error) {
	step := interval.Milliseconds()
	if step <= 0 {
		return nil, fmt.Errorf("histogram interval must be positive, got %v", interval)
	}
	node, err := logql.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	buckets := make(map[int64]int)
	for _, rec := range s.GetAll() {
		if !logql.Match(node, &rec) {
			continue
		}
		buckets[(rec.CreatedAt/step)*step]++
	}

	points := make([]HistogramPoint, 0, len(buckets))
	for t, c := range buckets {
		points = append(points, HistogramPoint{Time: t, Count: c})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Time < points[j].Time
	})
	return points, nil
}
