// Package dotviz renders a capturegraph.Graph's computed schedule as a
// Graphviz DOT digraph, and optionally as SVG via goccy/go-graphviz. It
// reads only CaptureMeta (Level, Idx, Stream, Event) left behind by an
// optimizer.Strategy — it never touches the driver-opaque NativeGraph a
// strategy returns, since that value isn't guaranteed to carry any
// inspectable structure outside SimDriver.
package dotviz
