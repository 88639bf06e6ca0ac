package exiftrace

import (
    "fmt"
    "io"
    "strings"
)

const _maxIndent = 20           // presentation only, see maxDepth

// indentation returns the leading spaces for a trace line at level.
func indentation( level int ) string {
    if level < 0 {
        level = 0
    } else if level > _maxIndent {
        level = _maxIndent
    }
    return strings.Repeat( " ", 4 * level )
}

// traceWriter accumulates the trace text and forwards it to an optional
// sink. The first sink error stops forwarding but not accumulation.
type traceWriter struct {
    text    strings.Builder
    sink    io.Writer
    err     error
}

func (tw *traceWriter)format( f string, a ...interface{} ) {
    s := fmt.Sprintf( f, a... )
    tw.text.WriteString( s )
    if tw.sink != nil && tw.err == nil {
        _, tw.err = io.WriteString( tw.sink, s )
    }
}

// cumulative formatted writer
type cumulativeWriter struct {
    w       io.Writer
    count   int
    err     error
}

func newCumulativeWriter( w io.Writer ) *cumulativeWriter {
    cw := new( cumulativeWriter )
    cw.w = w
    return cw
}

func (cw *cumulativeWriter)format( f string, a ...interface{} ) {
    if cw.err != nil {
        return
    }
    n, err := fmt.Fprintf( cw.w, f, a... )
    cw.err = err
    cw.count += n
}

func (cw *cumulativeWriter)result( ) (int, error) {
    return cw.count, cw.err
}
