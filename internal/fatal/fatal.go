// Package fatal centralizes the one behavior every Start-time setup
// failure shares: log it, best-effort tear down whatever context exists,
// and exit with the exit code taxonomy from spec.md §6. The core never
// returns these as plain errors to the caller — there's no meaningful
// recovery an application can perform if supervision itself can't stand
// up, so it terminates with a distinct, documented code instead.
package fatal

import "os"

// Code is one of the five setup-failure exit codes.
type Code int

const (
	CodeSemaphore Code = iota + 1
	CodeFork
	CodeTaskEngine
	CodeThread
	CodeSignalHandler
)

// Exit logs msg via logFn, runs cleanup (which must not panic and must
// tolerate partial setup), and terminates the process with code.
func Exit(code Code, msg string, logFn func(string), cleanup func()) {
	if logFn != nil {
		logFn(msg)
	}
	if cleanup != nil {
		cleanup()
	}
	os.Exit(int(code))
}
