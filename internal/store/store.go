package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AdityaBavadekar/PinLog/internal/model"
)

const (
	// TableName is the single table holding every record.
	TableName = "pin_logger_logs"
	// SchemaVersion is bumped whenever the table layout changes. Any
	// mismatch with the on-disk version drops and recreates the table.
	SchemaVersion = 1

	// GroupSize is the number of rows per page in grouped reads.
	GroupSize = 5000

	dayMillis   = int64(24 * time.Hour / time.Millisecond)
	deleteBatch = 500
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	logs TEXT,
	log_level INTEGER,
	log_tag TEXT,
	created INTEGER
)`

// logRow maps one row of the logs table.
type logRow struct {
	ID      int64  `gorm:"column:_id;primaryKey;autoIncrement"`
	Log     string `gorm:"column:logs"`
	Level   int    `gorm:"column:log_level"`
	Tag     string `gorm:"column:log_tag"`
	Created int64  `gorm:"column:created"`
}

func (logRow) TableName() string { return TableName }

func (r logRow) record() model.LogRecord {
	return model.LogRecord{
		ID:        r.ID,
		Message:   r.Log,
		Level:     model.LevelFromRank(r.Level),
		Tag:       r.Tag,
		CreatedAt: r.Created,
	}
}

// Options configures the SQLite backing file.
type Options struct {
	Path        string // database file, or ":memory:"
	LogLevel    string // gorm logger level: silent, error, warn, info
	JournalMode string // default WAL
	Synchronous string // default NORMAL
}

// ErrorFunc receives failures the store swallows.
type ErrorFunc func(op string, err error)

// Store is the embedded log table. None of its CRUD methods return errors:
// failures degrade to false, zero or empty results and are reported through
// the ErrorFunc.
type Store struct {
	opts    Options
	onError ErrorFunc

	mu sync.Mutex
	db *gorm.DB
}

// New creates a store and attempts to open it right away. A failed open is
// retried by the next operation.
func New(opts Options, onError ErrorFunc) *Store {
	if opts.JournalMode == "" {
		opts.JournalMode = "WAL"
	}
	if opts.Synchronous == "" {
		opts.Synchronous = "NORMAL"
	}
	if onError == nil {
		onError = func(string, error) {}
	}
	s := &Store{opts: opts, onError: onError}
	if err := s.Initialize(); err != nil {
		s.onError("initialize", err)
	}
	return s
}

// Path returns the database file path.
func (s *Store) Path() string { return s.opts.Path }

// Initialize opens the database and brings the schema to SchemaVersion.
// Calling it again once open is a no-op.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if s.opts.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.opts.Path), 0755); err != nil {
			return fmt.Errorf("failed to create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(s.opts.Path), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormLogLevel(s.opts.LogLevel)),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open sqlite %s: %w", s.opts.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// One connection keeps writes serialized and lets ":memory:" work.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode = %s;", s.opts.JournalMode),
		fmt.Sprintf("PRAGMA synchronous = %s;", s.opts.Synchronous),
		"PRAGMA temp_store = MEMORY;",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			sqlDB.Close()
			return fmt.Errorf("failed to exec pragma %s: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return err
	}

	s.db = db
	return nil
}

// migrate creates the table on a fresh file and wipes it on any version
// mismatch.
func migrate(db *gorm.DB) error {
	var version int
	if err := db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	hasTable := db.Migrator().HasTable(TableName)
	if hasTable && version == SchemaVersion {
		return nil
	}

	if hasTable {
		if err := db.Migrator().DropTable(TableName); err != nil {
			return fmt.Errorf("failed to drop %s: %w", TableName, err)
		}
	}
	if err := db.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", TableName, err)
	}
	if err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)).Error; err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}

// conn returns the open handle, opening lazily if the eager open failed.
func (s *Store) conn(op string) *gorm.DB {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db != nil {
		return db
	}
	if err := s.Initialize(); err != nil {
		s.onError(op, err)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Insert writes r and stores the assigned id back into it.
func (s *Store) Insert(r *model.LogRecord) bool {
	db := s.conn("insert")
	if db == nil || r == nil {
		return false
	}

	row := logRow{
		Log:     r.Message,
		Level:   r.Level.Rank(),
		Tag:     r.Tag,
		Created: r.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		s.onError("insert", err)
		return false
	}
	r.ID = row.ID
	return row.ID > 0
}

// Count returns the number of stored rows, or 0 if the count fails.
func (s *Store) Count() int {
	db := s.conn("count")
	if db == nil {
		return 0
	}
	var n int64
	if err := db.Model(&logRow{}).Count(&n).Error; err != nil {
		s.onError("count", err)
		return 0
	}
	return int(n)
}

// GroupCount returns how many GroupSize pages the table spans.
func (s *Store) GroupCount() int {
	return s.Count() / GroupSize
}

// GetAll returns every record in insertion order.
func (s *Store) GetAll() []model.LogRecord {
	db := s.conn("get all")
	if db == nil {
		return []model.LogRecord{}
	}
	var rows []logRow
	if err := db.Order("_id ASC").Find(&rows).Error; err != nil {
		s.onError("get all", err)
		return []model.LogRecord{}
	}
	return toRecords(rows)
}

// GetAllAsStrings returns every message in insertion order.
func (s *Store) GetAllAsStrings() []string {
	db := s.conn("get all strings")
	if db == nil {
		return []string{}
	}
	var messages []string
	if err := db.Model(&logRow{}).Order("_id ASC").Pluck("logs", &messages).Error; err != nil {
		s.onError("get all strings", err)
		return []string{}
	}
	if messages == nil {
		messages = []string{}
	}
	return messages
}

// DeleteAll removes every row.
func (s *Store) DeleteAll() {
	db := s.conn("delete all")
	if db == nil {
		return
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&logRow{}).Error; err != nil {
		s.onError("delete all", err)
	}
}

// DeleteThrough removes every row with an id up to and including id, so
// rows written after a read survive the matching delete.
func (s *Store) DeleteThrough(id int64) int {
	db := s.conn("delete through")
	if db == nil {
		return 0
	}
	res := db.Where("_id <= ?", id).Delete(&logRow{})
	if res.Error != nil {
		s.onError("delete through", res.Error)
		return 0
	}
	return int(res.RowsAffected)
}

// DeleteExpired removes rows older than retentionDays and returns how many
// were removed.
func (s *Store) DeleteExpired(retentionDays int) int {
	return s.DeleteExpiredAt(retentionDays, time.Now())
}

// DeleteExpiredAt removes every row whose age at now is at least
// retentionDays whole days.
func (s *Store) DeleteExpiredAt(retentionDays int, now time.Time) int {
	db := s.conn("delete expired")
	if db == nil || retentionDays < 0 {
		return 0
	}

	var rows []logRow
	if err := db.Select("_id", "created").Order("_id ASC").Find(&rows).Error; err != nil {
		s.onError("delete expired", err)
		return 0
	}

	nowMillis := now.UnixMilli()
	window := int64(retentionDays) * dayMillis
	var expired []int64
	for _, r := range rows {
		if nowMillis-r.Created >= window {
			expired = append(expired, r.ID)
		}
	}

	deleted := 0
	for start := 0; start < len(expired); start += deleteBatch {
		end := min(start+deleteBatch, len(expired))
		res := db.Where("_id IN ?", expired[start:end]).Delete(&logRow{})
		if res.Error != nil {
			s.onError("delete expired", res.Error)
			return deleted
		}
		deleted += int(res.RowsAffected)
	}
	return deleted
}

// Close releases the database handle. The store reopens on next use.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecords(rows []logRow) []model.LogRecord {
	out := make([]model.LogRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}
