// Package pinlog captures leveled application logs, persists them to an
// embedded SQLite table and turns them into export files and crash reports.
//
// A Logger is created with New and bound to its host application once with
// Initialize, InitializeDebug or InitializeRelease:
//
//	logger := pinlog.New()
//	logger.InitializeDebug(host, pinlog.WithBuildInfo(map[string]any{"DEBUG": true}))
//	logger.Info("Net", "connected")
//
// Logging never panics and never returns errors. Records are formatted and
// handed to registered listeners on the caller's goroutine, while a single
// background worker writes them to the store in submission order. Reads
// such as GetAllLogs run synchronously; call Sync first to observe every
// record logged so far.
//
// Panics can be turned into crash reports by installing an ExceptionBridge
// on a FaultDispatcher and running goroutines through it.
package pinlog
