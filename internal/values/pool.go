package values

import "sync"

// ArgsPool reuses []Litr backing arrays for call argument lists. Local
// calls happen in tight loops, and every call allocates a fresh argument slice;
// pooling the backing array is the same technique the classic
// runtime/pool.go applies to its own hot-path value allocations.
var ArgsPool = sync.Pool{
	New: func() any { return make([]Litr, 0, 8) },
}

// GetArgs returns a zero-length slice with capacity for reuse.
func GetArgs() []Litr {
	return ArgsPool.Get().([]Litr)[:0]
}

// PutArgs returns s to the pool. Callers must not use s afterward.
func PutArgs(s []Litr) {
	if cap(s) == 0 {
		return
	}
	ArgsPool.Put(s[:0]) //nolint:staticcheck // intentional backing-array reuse
}

// SlotsPool supplies []Litr backing arrays for instance slot arrays,
// taken once per NewInst and per instance copy. Slot arrays are not
// handed back to it on @drop (PutSlots has no caller).
var SlotsPool = sync.Pool{
	New: func() any { return make([]Litr, 0, 8) },
}

func GetSlots(n int) []Litr {
	s := SlotsPool.Get().([]Litr)
	if cap(s) < n {
		return make([]Litr, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = Litr{}
	}
	return s
}

func PutSlots(s []Litr) {
	if cap(s) == 0 {
		return
	}
	SlotsPool.Put(s[:0]) //nolint:staticcheck // intentional backing-array reuse
}
