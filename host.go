package pinlog

import (
	"os"
	"runtime"
)

// Host describes the application a Logger is bound to.
type Host interface {
	AppName() string
	PackageName() string
	VersionName() string
	VersionCode() string
	// FilesDir is the private directory holding the store, the
	// installation id and exported files.
	FilesDir() string
}

// DeviceInfo describes the machine, for crash reports.
type DeviceInfo struct {
	Model        string
	Manufacturer string
	Device       string
	Type         string
	Release      string
	Codename     string
	SDKInt       int
}

// DeviceInfoProvider is implemented by hosts that know their device.
type DeviceInfoProvider interface {
	DeviceInfo() DeviceInfo
}

// PreferencesProvider is implemented by hosts with a preferences snapshot
// worth attaching to crash reports.
type PreferencesProvider interface {
	Preferences() map[string]any
}

// OrientationProvider is implemented by hosts with a screen orientation.
type OrientationProvider interface {
	Orientation() string
}

// DebuggableProvider is implemented by hosts that know whether the running
// build is debuggable.
type DebuggableProvider interface {
	Debuggable() bool
}

// Orientation values reported in crash reports.
const (
	OrientationLandscape = "ORIENTATION_LANDSCAPE"
	OrientationPortrait  = "ORIENTATION_PORTRAIT"
	OrientationUndefined = "ORIENTATION_UNDEFINED"
)

// StaticHost is a Host backed by fixed values.
type StaticHost struct {
	Name     string
	Package  string
	Version  string
	Code     string
	Dir      string
	Device   *DeviceInfo
	Prefs    map[string]any
	Rotation string
	Debug    bool
}

func (h *StaticHost) AppName() string     { return h.Name }
func (h *StaticHost) PackageName() string { return h.Package }
func (h *StaticHost) VersionName() string { return h.Version }
func (h *StaticHost) VersionCode() string { return h.Code }
func (h *StaticHost) FilesDir() string    { return h.Dir }
func (h *StaticHost) Debuggable() bool    { return h.Debug }

func (h *StaticHost) DeviceInfo() DeviceInfo {
	if h.Device != nil {
		return *h.Device
	}
	return RuntimeDeviceInfo()
}

func (h *StaticHost) Preferences() map[string]any { return h.Prefs }

func (h *StaticHost) Orientation() string {
	if h.Rotation == "" {
		return OrientationUndefined
	}
	return h.Rotation
}

// RuntimeDeviceInfo describes the current process's machine.
func RuntimeDeviceInfo() DeviceInfo {
	hostname, _ := os.Hostname()
	return DeviceInfo{
		Model:        hostname,
		Manufacturer: runtime.Compiler,
		Device:       runtime.GOARCH,
		Type:         runtime.GOOS,
		Release:      runtime.Version(),
		Codename:     "REL",
	}
}
