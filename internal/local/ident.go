package local

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
)

// ContextID is the stable identity token of one unit of concurrent execution.
// It must not be reused while the context is live; goroutine ids satisfy this.
type ContextID uint64

// IdentFunc names the current execution context. Implementations must be
// cheap and side-effect-free: the function runs on every single access to a
// Storage, Stack, or Proxy bound to it.
type IdentFunc func() ContextID

// GoroutineIdent returns the id of the calling goroutine, parsed from the
// first line of the runtime stack header. This is the default identity
// function for all storages.
func GoroutineIdent() ContextID {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// Header shape: "goroutine 123 [running]:"
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		panic(fmt.Sprintf("local: malformed stack header: %q", buf[:n]))
	}

	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("local: parsing goroutine id: %v", err))
	}

	return ContextID(id)
}

// FixedIdent returns an identity function that always reports the given id.
// Use it to pin a storage to an externally managed execution context, or to
// simulate distinct contexts in tests.
func FixedIdent(id ContextID) IdentFunc {
	return func() ContextID {
		return id
	}
}

// NewSequenceIdent returns an allocator of fresh context ids for schedulers
// that manage their own units of execution. Each call to the returned
// function yields a new id; pair it with FixedIdent to bind a storage to the
// allocated context:
//
//	next := local.NewSequenceIdent()
//	taskID := next()
//	storage := local.NewStorage(local.WithIdent(local.FixedIdent(taskID)))
func NewSequenceIdent() func() ContextID {
	var counter atomic.Uint64

	return func() ContextID {
		return ContextID(counter.Add(1))
	}
}
