// Package ops provides a small kernel for composable asynchronous
// operations.
//
// An Op is a unit of work that runs against a pair of contexts — a
// DryContext of serializable data and a WetContext of live references —
// and produces a typed result or an OpError. Ops compose into a BatchOp
// (sequential, LIFO rollback on failure) or a LoopOp (counter-driven,
// per-iteration rollback, in-band continue/break signals).
//
// Overview
//
// 1. Define ops as functions:
//    - Write a perform function and, if the op has something to
//      compensate, an undo function.
//    - Wrap them with NewFuncOp (or implement Op[T] directly for a named
//      type) and erase the concrete type with Wrap.
// 2. Compose:
//    - Sequence AnyOp[T] values with NewBatchOp, or repeat them with
//      NewLoopOp.
//    - Decorate any AnyOp[T] with NewLoggingWrapper, NewTimeBoundWrapper,
//      or NewValidatingWrapper for tracing, deadlines, or schema checks.
// 3. Run:
//    - Create a DryContext and a WetContext and call Perform.
//    - On failure, ops that already succeeded are rolled back
//      automatically in LIFO order.
package ops
