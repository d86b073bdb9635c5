package warden

// ConsoleSink receives each console line as it is mirrored from the server's
// stdout. The line is delivered with its trailing terminator removed, along
// with the Warden handle so the sink may inject commands in response (the
// input and output channels use independent locks, so this cannot deadlock).
//
// The sink runs on the output mirror loop: a sink that blocks delays delivery
// of subsequent lines.
type ConsoleSink interface {
	OnConsoleLine(w *Warden, line string)
}

// NopSink is a ConsoleSink that ignores every line.
type NopSink struct{}

// OnConsoleLine does nothing.
func (NopSink) OnConsoleLine(*Warden, string) {}

// SinkFunc adapts a function to the ConsoleSink interface.
type SinkFunc func(w *Warden, line string)

// OnConsoleLine calls f(w, line).
func (f SinkFunc) OnConsoleLine(w *Warden, line string) { f(w, line) }
