package rtsync

import "fmt"

func fail(format string, args ...any) {
	panic(fmt.Sprintf("rtsync: "+format, args...))
}
