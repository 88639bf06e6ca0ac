// Package exiftrace decodes the EXIF block found in camera images.
//
// It walks the chain of TIFF image file directories (IFD0, the Exif and
// Interoperability sub-IFDs, the GPS IFD, the maker note and the IFD1
// continuation) inside an untrusted payload, producing at the same time a
// human readable trace of every directory and tag visited and a structured
// metadata record. Anomalies never stop the decoding: they are recorded as
// warnings and the walk goes on with whatever data remains usable.
//
// The payload must start with the 6-byte Exif marker ("Exif\0\0"), which is
// what a JPEG APP1 segment holds. Locating that payload in a container file is
// left to the caller (see the jpeg package).
package exiftrace

import (
    "bytes"
    "encoding/binary"
    "fmt"
    "io"
    "log/slog"
    "os"

    "github.com/hashicorp/go-multierror"
)

/*  EXIF payload structure:

    "Exif\0\0"                  6-byte marker
    TIFF header                 8 bytes, all offsets are relative to its start:
        "II" or "MM"            byte order (Intel little or Motorola big endian)
        0x002a                  TIFF identifier
        first IFD offset        usually 8

    IFD:
        entry count             2 bytes
        entries                 12 bytes each:
            tag                 2 bytes
            format              2 bytes
            component count     4 bytes
            value or offset     4 bytes, value if it fits in 4 bytes
        next IFD offset         4 bytes, 0 if none
*/

const (
    _exifMarker         = "Exif\x00\x00"
    _originOffset       = 6     // TIFF header offset in the payload
    _headerSize         = 8     // TIFF header size
    _tiffIdentifier     = 0x2a
    _minFirstOffset     = 8
    _maxFirstOffset     = 32000
    _entrySize          = 12
    _linkSize           = 4

    maxDepth                = 4     // directory nesting limit, IFD0 is at depth 1
    defaultMaxDirectories   = 256   // directories walked in one payload
)

// Control defines how decoding is done and reported.
type Control struct {
    Warn            bool            // log warnings as they are found
    Logger          *slog.Logger    // warning logger, slog.Default() if nil
    Sink            io.Writer       // optional live copy of the trace text
    DetectLoops     bool            // skip directories already visited
    MaxDirectories  int             // 0 means defaultMaxDirectories
}

// Thumbnail locates the embedded preview image. Offset is the absolute
// offset in the payload given to Decode, never a copy.
type Thumbnail struct {
    Offset  int
    Length  int
}

// Desc is the result of decoding one payload.
type Desc struct {
    reader                      // payload, borrowed from the caller
    base            int         // anchor of all stored offsets (TIFF header)
    end             int         // exclusive upper bound of readable data

    meta            Metadata
    gps             gpsState
    focalPlaneXRes  float64
    focalPlaneUnits float64
    exifImageWidth  int

    thumb           Thumbnail
    hasThumb        bool
    lastRefd        int         // highest offset referenced by settings

    nDirs           int         // directories walked so far
    limitHit        bool
    visited         map[int]bool

    trace           traceWriter
    warnings        *multierror.Error

                    Control
}

func newDesc( payload []byte, ctl *Control ) *Desc {
    d := new( Desc )
    if ctl != nil {
        d.Control = *ctl
    }
    if d.MaxDirectories <= 0 {
        d.MaxDirectories = defaultMaxDirectories
    }
    d.data = payload
    d.trace.sink = d.Sink
    return d
}

func (d *Desc)length( ) int {
    return d.end - d.base
}

// address converts an offset relative to the TIFF header into an absolute
// payload offset. It returns -1 if the result cannot be in the payload.
func (d *Desc)address( offset uint32 ) int {
    if uint64(offset) > uint64(d.length()) {
        return -1
    }
    return d.base + int(offset)
}

func (d *Desc)reject( cause error ) (*Desc, error) {
    w := newWarning( FormatRejected, -1, FmtNone, -1, "" )
    w.Err = cause
    d.warnings = multierror.Append( d.warnings, w )
    return d, w
}

func (d *Desc)checkHeader( ) (first uint32, err error) {
    if len(d.data) < len(_exifMarker) ||
       ! bytes.Equal( d.data[:len(_exifMarker)], []byte(_exifMarker) ) {
        _, err = d.reject( ErrNotExif )
        return
    }
    if len(d.data) < _originOffset + _headerSize {
        _, err = d.reject( ErrTruncated )
        return
    }
    switch string( d.data[_originOffset:_originOffset+2] ) {
    case "II":
        d.order = binary.LittleEndian
    case "MM":
        d.order = binary.BigEndian
    default:
        _, err = d.reject( ErrByteOrder )
        return
    }
    d.base = _originOffset
    d.end = len(d.data)

    d.trace.format( "%s Exif [ %d bytes ] = {\n",
                    getByteOrderName( d.order ), len(d.data) )

    if id := d.order.Uint16( d.data[_originOffset+2:] ); id != _tiffIdentifier {
        d.warn( newWarning( MagicMismatch, -1, FmtNone, _originOffset+2,
                            fmt.Sprintf( "TIFF identifier %#04x", id ) ) )
    }
    first = d.order.Uint32( d.data[_originOffset+4:] )
    if first < _minFirstOffset || first > _maxFirstOffset {
        d.warn( newWarning( FirstOffsetSuspicious, -1, FmtNone, _originOffset+4,
                            fmt.Sprintf( "first IFD offset %d", first ) ) )
    }
    return
}

// Decode walks the EXIF payload and returns its description.
//
// The returned error is not nil only if the payload is rejected as a whole
// (its Kind is FormatRejected and it wraps ErrNotExif, ErrTruncated or
// ErrByteOrder). All other anomalies are available from the returned Desc,
// which is always usable, even when partially filled.
func Decode( payload []byte, ctl *Control ) (*Desc, error) {
    d := newDesc( payload, ctl )
    first, err := d.checkHeader( )
    if err != nil {
        return d, err
    }
    d.lastRefd = d.base
    d.walkChain( d.address( first ), 1, 1, "" )
    d.derive( )
    d.trace.format( "};\n" )
    return d, nil
}

// Read reads a file holding a raw EXIF payload and decodes it.
func Read( path string, ctl *Control ) (*Desc, error) {
    data, err := os.ReadFile( path )
    if err != nil {
        return nil, fmt.Errorf( "Read: unable to read file %s: %w", path, err )
    }
    return Decode( data, ctl )
}

// Metadata returns a copy of the extracted metadata.
func (d *Desc)Metadata( ) Metadata {
    m := d.meta
    if m.GPS != nil {
        g := *m.GPS
        m.GPS = &g
    }
    return m
}

// Trace returns the trace text accumulated during decoding.
func (d *Desc)Trace( ) string {
    return d.trace.text.String()
}

// TraceErr returns the first error returned by Control.Sink, if any.
func (d *Desc)TraceErr( ) error {
    return d.trace.err
}

// ByteOrder returns the payload byte order, nil if the payload was rejected.
func (d *Desc)ByteOrder( ) binary.ByteOrder {
    return d.order
}

// LastReferenced returns the payload offset following the last byte used by
// directories and their values. What follows is thumbnail or padding data.
func (d *Desc)LastReferenced( ) int {
    return d.lastRefd
}
