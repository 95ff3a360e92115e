// Package report holds the crash report document: its keys, encoding,
// console tail capture and parsing.
package report

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

const (
	KeyAppName        = "APP_NAME"
	KeyInstallationID = "INSTALLATION_ID"
	KeyPackageName    = "PACKAGE_NAME"
	KeyCrashDate      = "CRASH_DATE"
	KeyCustomData     = "CUSTOM_DATA"
	KeyDataDir        = "DATA_DIR"
	KeyLogFiles       = "LOG_FILES"
	KeyThreadName     = "THREAD_NAME"
	KeyStacktrace     = "STACKTRACE"
	KeyCause          = "CAUSE"
	KeyMessage        = "MESSAGE"
	KeyLogs           = "LOGS"
	KeyModel          = "MODEL"
	KeyManufacturer   = "MANUFACTURER"
	KeyDevice         = "DEVICE"
	KeyType           = "TYPE"
	KeyRelease        = "RELEASE"
	KeyCodename       = "CODENAME"
	KeySDKInt         = "SDK_INT"
	KeyDebug          = "DEBUG"
	KeyVersionCode    = "VERSION_CODE"
	KeyVersionName    = "VERSION_NAME"
	KeyPrefs          = "PREFS"
	KeyOrientation    = "ORIENTATION"

	// Optional keys.
	KeyBuildConfig = "BUILD_CONFIG"
	KeyConsoleTail = "*******APPLICATION_LOGCAT_LINES*******"
)

// RequiredKeys are present in every report.
var RequiredKeys = []string{
	KeyAppName, KeyInstallationID, KeyPackageName, KeyCrashDate, KeyCustomData,
	KeyDataDir, KeyLogFiles, KeyThreadName, KeyStacktrace, KeyCause, KeyMessage,
	KeyLogs, KeyModel, KeyManufacturer, KeyDevice, KeyType, KeyRelease,
	KeyCodename, KeySDKInt, KeyDebug, KeyVersionCode, KeyVersionName, KeyPrefs,
	KeyOrientation,
}

// Console tail sizes, in lines.
const (
	DefaultTailLines = 200
	MaxTailLines     = 8000
)

// Placeholders for values that are absent.
const (
	NoCause   = "No cause"
	NoMessage = "No message"
	NoLogs    = "None"
	NoFiles   = "No Files"
)

// Report is a crash report under construction.
type Report map[string]any

// Encode renders r as indented JSON. Keys come out sorted.
func (r Report) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Tail returns the last n lines of the file at path.
func Tail(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if n <= 0 {
		return "", nil
	}

	ring := make([]string, 0, n)
	next := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) < n {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[next] = scanner.Text()
		next = (next + 1) % n
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	lines := append(ring[next:len(ring):len(ring)], ring[:next]...)
	return strings.Join(lines, "\n"), nil
}
