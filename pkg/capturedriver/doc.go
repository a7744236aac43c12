// Package capturedriver names the external collaborators the optimizer
// packages depend on: scoped stream and event handles, the pools that hand
// them out, and the driver operations that turn a stream into a capture
// recorder and stitch streams together with events.
//
// None of these types are backed by a real GPU driver in this module —
// that binding is explicitly out of scope (see spec.md §6, which treats
// StreamPool, EventPool, and DriverOps as external collaborators). SimDriver
// is a reference, in-process implementation used by tests, the CLI demo, and
// the HTTP debug API; a production build would swap it for a cgo binding to
// a real device driver without the optimizer packages changing at all.
package capturedriver
