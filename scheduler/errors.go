package scheduler

import "fmt"

// fail reports a programmer error by panicking, mirroring the
// teacher's original recoverable *tcpip.Error style adapted to this
// domain's invariant violations (SPEC_FULL.md §10.3): these are bugs
// in the caller, not recoverable runtime conditions.
func fail(format string, args ...any) {
	panic(fmt.Sprintf("scheduler: "+format, args...))
}
