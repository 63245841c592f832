// Package runtimemesh manages triangle-mesh geometry that is generated or
// streamed at runtime.
//
// A Mesh owns a sparse table of sections. Each section has an index
// buffer and either one vertex buffer or a position buffer plus an
// attribute buffer (dual-buffer). Every create, update and clear passes
// through a single finalize step that notifies the RenderProxy, refreshes
// the local bounds and marks collision dirty. Between BeginBatchUpdates
// and EndBatchUpdates those side effects are deferred and applied once.
// Collision is cooked at most once per frame by a one-shot task that runs
// when the owner calls OnFrameStart.
//
// A Mesh is not safe for concurrent use. Only collision cooking runs off
// the owner goroutine, and its result is swapped in during OnFrameStart.
package runtimemesh
