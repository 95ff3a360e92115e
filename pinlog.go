package pinlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AdityaBavadekar/PinLog/internal/installation"
	"github.com/AdityaBavadekar/PinLog/internal/store"
)

const (
	// ReservedTag marks the logger's own diagnostics. Records logged with
	// it are ignored entirely.
	ReservedTag = "PinLog"

	// DefaultRetentionDays is the suggested expiry window.
	DefaultRetentionDays = 7
)

func defaultStorePath(filesDir string) string {
	return filepath.Join(filesDir, store.TableName+".db")
}

// Logger is the logging facade. The zero value is not usable; create one
// with New. A Logger starts uninitialized: records are formatted and
// mirrored to the console but neither stored nor delivered to listeners
// until one of the Initialize methods binds it to a Host.
type Logger struct {
	initMu sync.Mutex // serializes the Initialize family

	mu             sync.RWMutex
	initialized    bool
	host           Host
	appName        string
	packageName    string
	versionName    string
	versionCode    string
	filesDir       string
	installationID string
	devLogging     bool
	storeLogs      bool
	buildInfo      map[string]any
	st             *store.Store
	faults         *FaultDispatcher
	bridge         *ExceptionBridge

	formatter atomic.Pointer[formatterBox]
	console   atomic.Pointer[console]
	queue     *workQueue

	strListeners listenerSet[StringListener]
	recListeners listenerSet[RecordListener]
	custom       *CustomData

	now  func() time.Time
	exit func(code int)
}

// New returns an uninitialized Logger with its persistence worker running.
// Call Close to stop the worker.
func New() *Logger {
	l := &Logger{
		storeLogs: true,
		faults:    NewFaultDispatcher(nil),
		custom:    newCustomData(),
		now:       time.Now,
		exit:      os.Exit,
	}
	l.formatter.Store(&formatterBox{f: DefaultFormatter{}})
	l.console.Store(newConsole(nil, nil))
	l.queue = newWorkQueue(func(r any) {
		l.internal(ERROR, "persistence task panicked", fmt.Errorf("%v", r))
	})
	return l
}

// Initialize binds the Logger to host. Dev logging defaults to off and
// storing to on. It returns false, changing nothing, if the Logger is
// already initialized.
func (l *Logger) Initialize(host Host, opts ...Option) bool {
	return l.bind(host, false, opts)
}

// InitializeDebug is Initialize with dev logging and storing forced on.
func (l *Logger) InitializeDebug(host Host, opts ...Option) bool {
	return l.bind(host, false, append(opts[:len(opts):len(opts)], WithDevLogging(true), WithStoreLogs(true)))
}

// InitializeRelease is Initialize with dev logging forced off and storing on.
func (l *Logger) InitializeRelease(host Host, opts ...Option) bool {
	return l.bind(host, false, append(opts[:len(opts):len(opts)], WithDevLogging(false), WithStoreLogs(true)))
}

// OverrideInitialize binds host even if the Logger is already initialized.
// The store opened by the first binding is kept.
func (l *Logger) OverrideInitialize(host Host, opts ...Option) bool {
	return l.bind(host, true, opts)
}

func (l *Logger) bind(host Host, override bool, opts []Option) bool {
	if host == nil {
		l.internal(WARN, "cannot initialize with a nil host", nil)
		return false
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.mu.RLock()
	bound, prevApp, prevPkg := l.initialized, l.appName, l.packageName
	l.mu.RUnlock()
	if bound && !override {
		l.internal(WARN, fmt.Sprintf("PinLog is already initialized for %s[%s]; ignoring repeated initialization", prevApp, prevPkg), nil)
		return false
	}

	if s.formatter != nil {
		l.SetFormatter(s.formatter)
	}
	if s.consoleOut != nil || s.consoleFile != nil {
		old := l.console.Swap(newConsole(s.consoleOut, s.consoleFile))
		_ = old.close()
	}

	devLogging := s.devLogging != nil && *s.devLogging
	storeLogs := s.storeLogs == nil || *s.storeLogs
	filesDir := host.FilesDir()

	id, idErr := installation.ID(filesDir)

	l.mu.Lock()
	l.initialized = true
	l.host = host
	l.appName = host.AppName()
	l.packageName = host.PackageName()
	l.versionName = host.VersionName()
	l.versionCode = host.VersionCode()
	l.filesDir = filesDir
	l.installationID = id
	l.devLogging = devLogging
	l.storeLogs = storeLogs
	l.buildInfo = copyMap(s.buildInfo)
	if s.faults != nil {
		l.faults = s.faults
	}
	needStore := l.st == nil
	l.mu.Unlock()

	// The store reports open failures through l.internal, which takes l.mu.
	if needStore {
		st := store.New(s.storeOptions(filesDir), l.storeError)
		l.mu.Lock()
		l.st = st
		l.mu.Unlock()
	}

	if devLogging {
		l.internal(INFO, "Dev Logging is enabled", nil)
	}
	if idErr != nil {
		l.internal(WARN, "could not persist installation id", idErr)
	}
	l.internal(INFO, fmt.Sprintf("PinLog was initialized successfully for %s[%s]", host.AppName(), host.PackageName()), nil)
	if debug, ok := s.buildInfo["DEBUG"].(bool); ok && debug {
		l.internal(INFO, "Application build is of type debug", nil)
	}

	if s.crash != nil {
		l.SetupExceptionHandler(*s.crash)
	}
	return true
}

func (l *Logger) storeError(op string, err error) {
	l.internal(ERROR, "store "+op+" failed", err)
}

// internal writes the Logger's own diagnostics. They reach the console
// only, and only while dev logging is on.
func (l *Logger) internal(level Level, msg string, err error) {
	if !l.IsDevLogging() {
		return
	}
	l.console.Load().emit(level, ReservedTag, msg, err)
}

// IsInitialized reports whether a Host is bound.
func (l *Logger) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

// SetDevLogging turns the console mirror on or off.
func (l *Logger) SetDevLogging(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.devLogging = enabled
}

// IsDevLogging reports whether records are mirrored to the console.
func (l *Logger) IsDevLogging() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.devLogging
}

// SetStoreLogs turns persistence on or off.
func (l *Logger) SetStoreLogs(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.storeLogs = enabled
}

// StoreLogs reports whether records are persisted.
func (l *Logger) StoreLogs() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.storeLogs
}

// SetFormatter swaps the active Formatter. Nil restores DefaultFormatter.
// Records logged afterwards use the new one.
func (l *Logger) SetFormatter(f Formatter) {
	if f == nil {
		f = DefaultFormatter{}
	}
	l.formatter.Store(&formatterBox{f: f})
}

// Formatter returns the active Formatter.
func (l *Logger) Formatter() Formatter {
	return l.formatter.Load().f
}

// CustomData returns the key/value bag embedded in crash reports.
func (l *Logger) CustomData() *CustomData {
	return l.custom
}

// InstallationID returns the id of this install, or "" before initialization.
func (l *Logger) InstallationID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.installationID
}

// BuildInfo returns a copy of the build metadata given at initialization.
func (l *Logger) BuildInfo() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyMap(l.buildInfo)
}

// Faults returns the dispatcher the crash bridge installs on.
func (l *Logger) Faults() *FaultDispatcher {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.faults
}

// Sync blocks until every record logged before the call has been written.
func (l *Logger) Sync() {
	l.queue.Sync()
}

// Close writes pending records, stops the worker and closes the store.
// Records logged afterwards are not stored.
func (l *Logger) Close() error {
	l.queue.Shutdown()

	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	var err error
	if st != nil {
		err = st.Close()
	}
	if cerr := l.console.Load().close(); err == nil {
		err = cerr
	}
	return err
}

type snapshot struct {
	initialized bool
	devLogging  bool
	storeLogs   bool
	versionName string
	versionCode string
	packageName string
	st          *store.Store
}

func (l *Logger) snapshot() snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return snapshot{
		initialized: l.initialized,
		devLogging:  l.devLogging,
		storeLogs:   l.storeLogs,
		versionName: l.versionName,
		versionCode: l.versionCode,
		packageName: l.packageName,
		st:          l.st,
	}
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
