package exiftrace

import (
    "fmt"
)

// legacy tools truncated the payload right after IFD0, leaving a dangling
// next IFD link at most that far beyond the end
const _legacyTruncationSlack = 20

// admit checks the limits shared by all kinds of directories before one is
// walked.
func (d *Desc)admit( start int ) bool {
    if d.nDirs >= d.MaxDirectories {
        if ! d.limitHit {
            d.limitHit = true
            d.warn( newWarning( DirectoryLimit, -1, FmtNone, start,
                                fmt.Sprintf( "more than %d directories",
                                             d.MaxDirectories ) ) )
        }
        return false
    }
    d.nDirs++
    return true
}

// readEntry decodes the directory entry at address e, which must be inside
// the payload, and resolves where its value lives. It returns false after
// raising EntryMalformed if the entry cannot be used.
func (d *Desc)readEntry( e int ) (tag uint16, v value, ok bool) {
    tag = d.order.Uint16( d.data[e:] )
    f := Format( d.order.Uint16( d.data[e+2:] ) )
    count := d.order.Uint32( d.data[e+4:] )

    if ! f.IsValid() {
        d.warn( newWarning( EntryMalformed, int(tag), f, e, "invalid format" ) )
        return
    }
    size := uint64(count) * uint64(f.Width())
    v = value{ format: f, count: count, order: d.order }
    if size > 4 {
        offset := d.order.Uint32( d.data[e+8:] )
        if uint64(offset) + size > uint64(d.length()) {
            d.warn( newWarning( EntryMalformed, int(tag), f, e,
                                fmt.Sprintf( "value offset %d size %d beyond %d",
                                             offset, size, d.length() ) ) )
            return
        }
        v.at = d.base + int(offset)
        v.data = d.data[v.at:v.at+int(size)]
        v.raw = v.data
    } else {
        v.at = e + 8
        v.raw = d.data[e+8:e+12]
        v.data = v.raw[:size]
    }
    ok = true
    return
}

// directoryEnd reads the entry count at start and returns the address right
// after the last entry. It raises DirectoryMalformed if the count itself
// cannot be read.
func (d *Desc)directoryEnd( start int ) (count, dirEnd int, ok bool) {
    n, ok := d.u16( start )
    if ! ok {
        d.warn( newWarning( DirectoryMalformed, -1, FmtNone, start,
                            "entry count out of payload" ) )
        return
    }
    count = int(n)
    dirEnd = start + 2 + _entrySize * count
    return
}

// walkChain walks a directory and the chain of directories linked after it.
// Linked directories are siblings: they share depth and indentation.
func (d *Desc)walkChain( start, depth, level int, prefix string ) {
    for start >= 0 {
        start = d.walk( start, depth, level, prefix )
        prefix = "Continued "
    }
}

// walk processes one directory at absolute address start and returns the
// address of the next directory in the chain, or -1.
func (d *Desc)walk( start, depth, level int, prefix string ) (next int) {
    next = -1
    if depth > maxDepth {
        d.warn( newWarning( DepthExceeded, -1, FmtNone, start,
                            fmt.Sprintf( "depth %d", depth ) ) )
        return
    }
    if d.DetectLoops {
        if d.visited == nil {
            d.visited = make( map[int]bool )
        }
        if d.visited[start] {
            d.warn( newWarning( DirectoryLoop, -1, FmtNone, start, "" ) )
            return
        }
        d.visited[start] = true
    }
    if ! d.admit( start ) {
        return
    }

    count, dirEnd, ok := d.directoryEnd( start )
    if ! ok {
        return
    }
    if dirEnd + _linkSize > d.end {
        // some encoders cut the payload 2 or 4 bytes too short
        if dirEnd + 2 != d.end && dirEnd != d.end {
            d.warn( newWarning( DirectoryMalformed, -1, FmtNone, start,
                                fmt.Sprintf( "%d entries overrun payload", count ) ) )
            return
        }
    }
    if dirEnd > d.lastRefd {
        d.lastRefd = dirEnd
    }

    d.trace.format( "%s%sEntries [ %d ] = {\n", indentation( level ), prefix, count )

    var thumbOffset, thumbLength uint32
    for i := 0; i < count; i++ {
        tag, v, ok := d.readEntry( start + 2 + _entrySize * i )
        if ! ok {
            continue
        }
        if end := v.at + len(v.data); end > d.lastRefd {
            d.lastRefd = end
        }

        switch tag {
        case _GpsIFD:
            if sub := d.address( v.offset() ); sub < 0 {
                d.warn( newWarning( EntryMalformed, int(tag), v.format, v.at,
                                    "GPS directory offset out of payload" ) )
            } else {
                d.walkGPS( sub, level + 1 )
            }
            continue
        case _MakerNote:
            d.makerNote( v, level + 1 )
            continue
        case _ExifIFD, _InteropIFD:
            prefix := "Exif "
            if tag == _InteropIFD {
                prefix = "Interop "
            }
            if sub := d.address( v.offset() ); sub < 0 {
                d.warn( newWarning( EntryMalformed, int(tag), v.format, v.at,
                                    "sub-directory offset out of payload" ) )
            } else {
                d.walkChain( sub, depth + 1, level + 1, prefix )
            }
            continue
        }

        d.traceEntry( level + 1, tag, v )
        d.extract( tag, v )
        switch tag {
        case _ThumbnailOffset:
            thumbOffset = uint32( v.float() )
        case _ThumbnailLength:
            thumbLength = uint32( v.float() )
        }
    }
    d.trace.format( "%s};\n", indentation( level ) )

    if link, ok := d.u32( dirEnd ); ok && link != 0 {
        switch {
        case uint64(link) < uint64(d.length()):
            next = d.base + int(link)
        case uint64(link) < uint64(d.length()) + _legacyTruncationSlack:
            d.trace.format( "%sThumbnail removed with jhead 1.3 or earlier\n",
                            indentation( level ) )
        default:
            d.warn( newWarning( NextLinkMalformed, -1, FmtNone, dirEnd,
                                fmt.Sprintf( "next IFD offset %d", link ) ) )
        }
    }
    d.setThumbnail( thumbOffset, thumbLength )
    return
}

// traceEntry writes one generic entry: its name, or its code if the tag is
// unknown, and its value.
func (d *Desc)traceEntry( level int, tag uint16, v value ) {
    ind := indentation( level )
    name, known := exifTags.lookup( tag )
    switch {
    case ! known:
        d.trace.format( "%sUnknown Tag %04x Value = ", ind, tag )
    case (v.count > 1 && ! v.format.IsText()) || v.count > _maxPlainText:
        d.trace.format( "%s%s [ %d ] = ", ind, name, v.count )
    default:
        d.trace.format( "%s%s = ", ind, name )
    }
    d.trace.format( "%s\n", v.render( quoteText ) )
}

// traceTagged writes one entry of a specific namespace (GPS, maker note),
// prefixed with the namespace label.
func (d *Desc)traceTagged( level int, label string, table *tagTable,
                           tag uint16, v value, quote func( []byte ) string ) {
    d.trace.format( "%s%s", indentation( level ), label )
    if name, known := table.lookup( tag ); known {
        d.trace.format( "%s ", name )
    } else {
        d.trace.format( "%04x ", tag )
    }
    if v.count > 1 && ! v.format.IsText() {
        d.trace.format( "[ %d ] = ", v.count )
    } else {
        d.trace.format( "= " )
    }
    d.trace.format( "%s\n", v.render( quote ) )
}
