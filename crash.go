package pinlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/AdityaBavadekar/PinLog/internal/pkg/security"
	"github.com/AdityaBavadekar/PinLog/internal/report"
)

// CrashExitCode is the status the process exits with after a crash report
// has been handed off. POSIX systems report it as 254.
const CrashExitCode = -2

const (
	crashSuffix  = "_CRASH.json"
	sealedSuffix = ".sealed"
)

// CrashReport is a crash report document keyed by upper-case field names
// such as APP_NAME and STACKTRACE.
type CrashReport map[string]any

// Encode renders the report as indented JSON.
func (r CrashReport) Encode() ([]byte, error) {
	return report.Report(r).Encode()
}

// CrashDelivery is what a CrashHandoff receives.
type CrashDelivery struct {
	Path    string // report file
	To      []string
	Subject string
	Text    string
}

// CrashHandoff passes a written crash report on, for example by attaching it
// to an outgoing message.
type CrashHandoff interface {
	Deliver(d CrashDelivery) error
}

// CrashHandoffFunc adapts a function to CrashHandoff.
type CrashHandoffFunc func(d CrashDelivery) error

func (f CrashHandoffFunc) Deliver(d CrashDelivery) error { return f(d) }

// CrashOptions configures the exception bridge.
type CrashOptions struct {
	To      []string
	Subject string // default: Application "<name>" crashed.
	Message string // appended to the delivery text
	// MaxBuffer attaches report.MaxTailLines console lines instead of
	// report.DefaultTailLines.
	MaxBuffer bool
	// Passphrase seals the report file when set.
	Passphrase string
	Handoff    CrashHandoff
}

// CreateCrashReport assembles a report for a fault in goroutine. Stored
// records are included without being removed.
func (l *Logger) CreateCrashReport(goroutine string, cause error, maxBuffer bool) (CrashReport, error) {
	l.mu.RLock()
	initialized := l.initialized
	host := l.host
	filesDir := l.filesDir
	appName, packageName := l.appName, l.packageName
	versionName, versionCode := l.versionName, l.versionCode
	buildInfo := copyMap(l.buildInfo)
	id := l.installationID
	l.mu.RUnlock()

	if !initialized {
		return nil, errors.New("pinlog: crash report requested before initialization")
	}

	r := CrashReport{
		report.KeyAppName:        appName,
		report.KeyInstallationID: id,
		report.KeyPackageName:    packageName,
		report.KeyCrashDate:      l.now().Format(CrashDateLayout),
		report.KeyCustomData:     l.custom.Snapshot(),
		report.KeyDataDir:        filesDir,
		report.KeyThreadName:     goroutine,
		report.KeyStacktrace:     StackTrace(cause),
		report.KeyCause:          report.NoCause,
		report.KeyMessage:        report.NoMessage,
		report.KeyVersionCode:    versionCode,
		report.KeyVersionName:    versionName,
		report.KeyOrientation:    OrientationUndefined,
	}

	if cause != nil {
		r[report.KeyMessage] = cause.Error()
		if inner := underlyingCause(cause); inner != nil {
			r[report.KeyCause] = inner.Error()
		}
	}

	if names := l.LogFileNames(); len(names) > 0 {
		r[report.KeyLogFiles] = strings.Join(names, "\n")
	} else {
		r[report.KeyLogFiles] = report.NoFiles
	}

	if logs, ok := l.GetAllLogsAsSingleString(false); ok && logs != "" {
		r[report.KeyLogs] = logs
	} else {
		r[report.KeyLogs] = report.NoLogs
	}

	device := RuntimeDeviceInfo()
	if p, ok := host.(DeviceInfoProvider); ok {
		device = p.DeviceInfo()
	}
	r[report.KeyModel] = device.Model
	r[report.KeyManufacturer] = device.Manufacturer
	r[report.KeyDevice] = device.Device
	r[report.KeyType] = device.Type
	r[report.KeyRelease] = device.Release
	r[report.KeyCodename] = device.Codename
	r[report.KeySDKInt] = device.SDKInt

	debug, _ := buildInfo["DEBUG"].(bool)
	if p, ok := host.(DebuggableProvider); ok {
		debug = debug || p.Debuggable()
	}
	r[report.KeyDebug] = debug

	prefs := map[string]any{}
	if p, ok := host.(PreferencesProvider); ok && p.Preferences() != nil {
		prefs = p.Preferences()
	}
	r[report.KeyPrefs] = map[string]any{"DEFAULT_SHARED_PREFS": prefs}

	if p, ok := host.(OrientationProvider); ok {
		r[report.KeyOrientation] = p.Orientation()
	}
	if buildInfo != nil {
		r[report.KeyBuildConfig] = buildInfo
	}

	lines := report.DefaultTailLines
	if maxBuffer {
		lines = report.MaxTailLines
	}
	if tail, ok := l.console.Load().tail(lines); ok {
		r[report.KeyConsoleTail] = tail
	}
	return r, nil
}

// underlyingCause returns the error err wraps, skipping wrappers that only
// attach a stack and so read the same as what they wrap.
func underlyingCause(err error) error {
	inner := errors.Unwrap(err)
	for inner != nil && inner.Error() == err.Error() {
		err = inner
		inner = errors.Unwrap(inner)
	}
	return inner
}

// WriteCrashReport stores r in LogFilesDir and returns the file path. With
// a passphrase the file is sealed and named with a ".sealed" suffix.
func (l *Logger) WriteCrashReport(r CrashReport, passphrase string) (string, error) {
	data, err := r.Encode()
	if err != nil {
		return "", errors.Wrap(err, "encode crash report")
	}
	name := l.fileStem(l.now()) + crashSuffix
	if passphrase != "" {
		if data, err = security.Seal(data, passphrase); err != nil {
			return "", errors.Wrap(err, "seal crash report")
		}
		name += sealedSuffix
	}

	dir, ok := l.ensureLogsDir()
	if !ok {
		return "", errors.New("pinlog: logs dir unavailable")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", errors.Wrap(err, "write crash report")
	}
	_ = os.Chmod(path, filePerm)
	return path, nil
}

// SetupExceptionHandler installs an ExceptionBridge on the Logger's
// FaultDispatcher, replacing any bridge installed earlier.
func (l *Logger) SetupExceptionHandler(opts CrashOptions) *ExceptionBridge {
	b := &ExceptionBridge{l: l, opts: opts, dispatcher: l.Faults()}

	l.mu.Lock()
	old := l.bridge
	l.bridge = b
	l.mu.Unlock()

	if old != nil {
		old.Uninstall()
	}
	b.Install()
	l.internal(INFO, "Exception handling is set to PinLog", nil)
	return b
}

// DisableExceptionHandler restores the handler that was in place before
// SetupExceptionHandler.
func (l *Logger) DisableExceptionHandler() {
	l.mu.Lock()
	b := l.bridge
	l.bridge = nil
	l.mu.Unlock()

	if b != nil {
		b.Uninstall()
	}
}

// ExceptionBridge turns dispatched faults into crash reports, then ends the
// process.
type ExceptionBridge struct {
	l          *Logger
	opts       CrashOptions
	dispatcher *FaultDispatcher

	mu        sync.Mutex
	previous  FaultHandler
	installed bool
}

// Install makes the bridge the dispatcher's default handler, remembering the
// one it replaces.
func (b *ExceptionBridge) Install() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.installed {
		return
	}
	b.previous = b.dispatcher.SetDefaultHandler(b)
	b.installed = true
}

// Uninstall puts the remembered handler back.
func (b *ExceptionBridge) Uninstall() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.installed {
		return
	}
	b.dispatcher.SetDefaultHandler(b.previous)
	b.installed = false
}

// Previous returns the handler the bridge replaced.
func (b *ExceptionBridge) Previous() FaultHandler {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.previous
}

// HandleFault writes and hands off a crash report, then exits with
// CrashExitCode. If the report cannot be produced the fault goes to the
// previous handler instead.
func (b *ExceptionBridge) HandleFault(goroutine string, cause error) {
	l := b.l
	l.internal(WARN, "An uncaught fault was caught by PinLog in "+goroutine, nil)
	l.internal(ERROR, StackTrace(cause), nil)

	// Pending records belong in the report.
	l.Sync()

	path, err := b.produce(goroutine, cause)
	if err != nil {
		l.internal(ERROR, "unable to handle uncaught fault", err)
		b.fallback(goroutine, cause)
		return
	}

	b.handoff(path)
	l.exit(CrashExitCode)
}

// produce builds and writes the report, converting a panic into an error.
func (b *ExceptionBridge) produce(goroutine string, cause error) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("crash report panicked: %v", r)
		}
	}()
	r, err := b.l.CreateCrashReport(goroutine, cause, b.opts.MaxBuffer)
	if err != nil {
		return "", err
	}
	return b.l.WriteCrashReport(r, b.opts.Passphrase)
}

func (b *ExceptionBridge) handoff(path string) {
	l := b.l
	if b.opts.Handoff == nil {
		l.internal(INFO, "crash report saved to "+path, nil)
		return
	}

	l.mu.RLock()
	appName := l.appName
	l.mu.RUnlock()

	subject := b.opts.Subject
	if subject == "" {
		subject = fmt.Sprintf("Application %q crashed.", appName)
	}
	text := "Occurrence : " + l.now().Format(CrashDateLayout)
	if b.opts.Message != "" {
		text += "\n" + b.opts.Message
	}

	err := b.opts.Handoff.Deliver(CrashDelivery{
		Path:    path,
		To:      b.opts.To,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		l.internal(WARN, "crash report hand-off failed", err)
	}
}

func (b *ExceptionBridge) fallback(goroutine string, cause error) {
	if prev := b.Previous(); prev != nil {
		prev.HandleFault(goroutine, cause)
		return
	}
	panic(cause)
}
