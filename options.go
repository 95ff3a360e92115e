package pinlog

import (
	"io"

	"github.com/AdityaBavadekar/PinLog/internal/store"
)

// Option configures an Initialize call.
type Option func(*settings)

type settings struct {
	devLogging    *bool
	storeLogs     *bool
	buildInfo     map[string]any
	formatter     Formatter
	crash         *CrashOptions
	storePath     string
	storeLogLevel string
	consoleOut    io.Writer
	consoleFile   *ConsoleFile
	faults        *FaultDispatcher
}

// WithDevLogging mirrors every record to the console.
func WithDevLogging(enabled bool) Option {
	return func(s *settings) { s.devLogging = &enabled }
}

// WithStoreLogs controls whether records are persisted.
func WithStoreLogs(enabled bool) Option {
	return func(s *settings) { s.storeLogs = &enabled }
}

// WithBuildInfo attaches build metadata to crash reports. A true "DEBUG"
// entry is announced at initialization.
func WithBuildInfo(info map[string]any) Option {
	return func(s *settings) { s.buildInfo = info }
}

// WithFormatter replaces DefaultFormatter.
func WithFormatter(f Formatter) Option {
	return func(s *settings) { s.formatter = f }
}

// WithExceptionHandler installs the crash bridge once the Logger is bound.
func WithExceptionHandler(opts CrashOptions) Option {
	return func(s *settings) { s.crash = &opts }
}

// WithStorePath overrides the database location, which defaults to
// <FilesDir>/pin_logger_logs.db.
func WithStorePath(path string) Option {
	return func(s *settings) { s.storePath = path }
}

// WithStoreLogLevel sets the SQL logger level: silent, error, warn or info.
func WithStoreLogLevel(level string) Option {
	return func(s *settings) { s.storeLogLevel = level }
}

// WithConsole sets the console mirror's destination (default os.Stderr).
func WithConsole(w io.Writer) Option {
	return func(s *settings) { s.consoleOut = w }
}

// WithConsoleFile tees the console mirror into a rotating file.
func WithConsoleFile(cf ConsoleFile) Option {
	return func(s *settings) { s.consoleFile = &cf }
}

// WithFaultDispatcher sets the dispatcher the crash bridge installs on.
func WithFaultDispatcher(d *FaultDispatcher) Option {
	return func(s *settings) { s.faults = d }
}

func (s *settings) storeOptions(filesDir string) store.Options {
	path := s.storePath
	if path == "" {
		path = defaultStorePath(filesDir)
	}
	return store.Options{Path: path, LogLevel: s.storeLogLevel}
}
