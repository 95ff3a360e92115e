package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/valyala/fastjson"
)

// Summary is the parsed view of a crash report file.
type Summary struct {
	AppName        string
	InstallationID string
	PackageName    string
	CrashDate      string
	ThreadName     string
	Message        string
	Cause          string
	Stacktrace     string
	Logs           string
	LogFiles       string
	VersionName    string
	VersionCode    string
	Model          string
	Manufacturer   string
	Release        string
	SDKInt         int
	Debug          bool
	Orientation    string
	ConsoleTail    string
	CustomData     map[string]string
	BuildConfig    map[string]string
	Missing        []string // required keys absent from the document
}

// Parse reads a crash report document.
func Parse(data []byte) (*Summary, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid crash report: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("invalid crash report: expected object, got %s", v.Type())
	}

	s := &Summary{
		AppName:        str(v, KeyAppName),
		InstallationID: str(v, KeyInstallationID),
		PackageName:    str(v, KeyPackageName),
		CrashDate:      str(v, KeyCrashDate),
		ThreadName:     str(v, KeyThreadName),
		Message:        str(v, KeyMessage),
		Cause:          str(v, KeyCause),
		Stacktrace:     str(v, KeyStacktrace),
		Logs:           str(v, KeyLogs),
		LogFiles:       str(v, KeyLogFiles),
		VersionName:    str(v, KeyVersionName),
		VersionCode:    str(v, KeyVersionCode),
		Model:          str(v, KeyModel),
		Manufacturer:   str(v, KeyManufacturer),
		Release:        str(v, KeyRelease),
		SDKInt:         v.GetInt(KeySDKInt),
		Debug:          v.GetBool(KeyDebug),
		Orientation:    str(v, KeyOrientation),
		ConsoleTail:    str(v, KeyConsoleTail),
		CustomData:     flatten(v.Get(KeyCustomData)),
		BuildConfig:    flatten(v.Get(KeyBuildConfig)),
	}

	for _, key := range RequiredKeys {
		if !v.Exists(key) {
			s.Missing = append(s.Missing, key)
		}
	}
	return s, nil
}

// str renders any scalar as text; strings are unquoted.
func str(v *fastjson.Value, key string) string {
	f := v.Get(key)
	if f == nil {
		return ""
	}
	return scalar(f)
}

func scalar(f *fastjson.Value) string {
	switch f.Type() {
	case fastjson.TypeString:
		return string(f.GetStringBytes())
	case fastjson.TypeNull:
		return ""
	case fastjson.TypeNumber:
		if n, err := f.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return strconv.FormatFloat(f.GetFloat64(), 'g', -1, 64)
	default:
		return f.String()
	}
}

// flatten turns a JSON object into key/value text. Non-objects yield nil.
func flatten(v *fastjson.Value) map[string]string {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil
	}
	obj, _ := v.Object()
	out := make(map[string]string, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		out[string(key)] = scalar(val)
	})
	return out
}

// SortedKeys returns the keys of m in order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
