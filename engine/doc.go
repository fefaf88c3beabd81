package engine

// Extension point: shared-memory worker split.
//
// The spec's optional off-thread execution split (moving Step/RunLifecycle/
// RunCatches onto a worker goroutine, publishing via a double-buffered
// position array with a single atomic index) is out of scope for this
// module. Snapshot already returns an immutable, fully-copied view once
// per tick, which is the exact shape such a publish step would hand to a
// reader — only the transport differs (copy-on-call here, atomic
// buffer-swap there). A future worker split would wrap *State in a
// goroutine that calls Step/RunLifecycle/RunCatches and writes Snapshot
// results into the inactive buffer before swapping the atomic index.
