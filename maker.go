package exiftrace

import (
    "fmt"
    "strings"
)

const _maxHexBytes = 11         // maker note bytes dumped before "..."

// makerNote traces the maker note value. Only Canon notes are understood,
// other vendors get a short hex dump. The camera make must have been seen
// before, which is the case with the usual IFD0 then Exif IFD ordering.
func (d *Desc)makerNote( v value, level int ) {
    d.trace.format( "%sMaker note", indentation( level ) )
    if strings.Contains( d.meta.CameraMake, "Canon" ) {
        d.walkCanon( v, level )
        return
    }
    d.trace.format( "%s\n", hexDump( v.data ) )
}

// hexDump renders at most 11 bytes, comma separated.
func hexDump( b []byte ) string {
    var sb strings.Builder
    fmt.Fprintf( &sb, " bytes [ %d ] = {", len(b) )
    for i, c := range b {
        if i >= _maxHexBytes {
            sb.WriteString( "..." )
            break
        }
        if i > 0 {
            sb.WriteByte( ',' )
        }
        fmt.Fprintf( &sb, " %02x", c )
    }
    sb.WriteString( " };" )
    return sb.String()
}

// quoteCanonText renders Canon text values: control bytes are dropped, and
// a printable byte following a dropped NUL is marked with '?', since some
// firmwares pad their strings with NULs.
func quoteCanonText( b []byte ) string {
    var sb strings.Builder
    sb.WriteByte( '\'' )
    zeroSkipped := false
    for _, c := range b {
        switch {
        case c >= 32:
            if zeroSkipped {
                sb.WriteByte( '?' )
                zeroSkipped = false
            }
            sb.WriteByte( c )
        case c == 0:
            zeroSkipped = true
        }
    }
    sb.WriteByte( '\'' )
    return sb.String()
}

// walkCanon processes a Canon maker note, an IFD without header whose
// offsets are relative to the TIFF header like all others.
func (d *Desc)walkCanon( v value, level int ) {
    start := v.at
    if ! d.admit( start ) {
        d.trace.format( "\n" )
        return
    }
    count, dirEnd, ok := d.directoryEnd( start )
    if ok && dirEnd > d.end {
        d.warn( newWarning( DirectoryMalformed, _MakerNote, v.format, start,
                            fmt.Sprintf( "%d maker note entries overrun payload",
                                         count ) ) )
        ok = false
    }
    if ! ok {
        d.trace.format( "\n" )
        return
    }
    if dirEnd > d.lastRefd {
        d.lastRefd = dirEnd
    }

    d.trace.format( " Entries [ %d ] = {\n", count )
    for i := 0; i < count; i++ {
        tag, ev, ok := d.readEntry( start + 2 + _entrySize * i )
        if ! ok {
            continue
        }
        if end := ev.at + len(ev.data); end > d.lastRefd {
            d.lastRefd = end
        }
        d.traceTagged( level + 1, "Canon maker tag ", canonTags, tag, ev,
                       quoteCanonText )
    }
    d.trace.format( "%s};\n", indentation( level ) )
}
