package exiftrace

import (
    "errors"
    "fmt"
    "log/slog"
    "strings"

    "github.com/hashicorp/go-multierror"
)

// WarnKind classifies the anomalies found while decoding.
type WarnKind int
const (
    FormatRejected WarnKind = iota  // not an Exif payload, nothing decoded
    EntryMalformed                  // one entry skipped
    DirectoryMalformed              // one directory skipped
    DepthExceeded                   // sub-directory nesting too deep
    MagicMismatch                   // TIFF identifier is not 42 (soft)
    FirstOffsetSuspicious           // first IFD offset out of [8, 32000] (soft)
    NextLinkMalformed               // next IFD link far beyond the payload (soft)
    OrientationInvalid              // orientation value out of range (soft)
    DirectoryLoop                   // directory already visited (DetectLoops)
    DirectoryLimit                  // too many directories in one payload
)

var warnKindNames = [...]string{ "format rejected", "entry malformed",
                                 "directory malformed", "depth exceeded",
                                 "magic mismatch", "first offset suspicious",
                                 "next link malformed", "orientation invalid",
                                 "directory loop", "directory limit" }

func (k WarnKind) String( ) string {
    if k >= 0 && int(k) < len(warnKindNames) {
        return warnKindNames[k]
    }
    return fmt.Sprintf( "warning(%d)", int(k) )
}

// Soft returns true for the kinds that do not skip any data.
func (k WarnKind) Soft( ) bool {
    switch k {
    case MagicMismatch, FirstOffsetSuspicious, NextLinkMalformed,
         OrientationInvalid:
        return true
    }
    return false
}

var (
    ErrNotExif      = errors.New( "missing Exif marker" )
    ErrByteOrder    = errors.New( "unrecognized byte order signature" )
    ErrTruncated    = errors.New( "payload too short for a TIFF header" )
)

// Warning describes one anomaly. Tag is -1 when the anomaly is not tied to
// a directory entry, and Offset is an absolute payload offset (-1 if none).
type Warning struct {
    Kind    WarnKind
    Tag     int
    Format  Format
    Offset  int
    Detail  string
    Err     error
}

func newWarning( kind WarnKind, tag int, f Format, offset int,
                 detail string ) *Warning {
    return &Warning{ Kind: kind, Tag: tag, Format: f, Offset: offset,
                     Detail: detail }
}

func (w *Warning) Error( ) string {
    var sb strings.Builder
    sb.WriteString( "exif: " )
    sb.WriteString( w.Kind.String() )
    if w.Tag >= 0 {
        fmt.Fprintf( &sb, " tag 0x%04x", w.Tag )
    }
    if w.Format != FmtNone {
        fmt.Fprintf( &sb, " format %s", w.Format )
    }
    if w.Offset >= 0 {
        fmt.Fprintf( &sb, " @%#x", w.Offset )
    }
    if w.Detail != "" {
        sb.WriteString( ": " )
        sb.WriteString( w.Detail )
    }
    if w.Err != nil {
        sb.WriteString( ": " )
        sb.WriteString( w.Err.Error() )
    }
    return sb.String()
}

func (w *Warning) Unwrap( ) error {
    return w.Err
}

func (w *Warning) attrs( ) []any {
    args := []any{ "kind", w.Kind.String() }
    if w.Tag >= 0 {
        args = append( args, "tag", fmt.Sprintf( "0x%04x", w.Tag ) )
    }
    if w.Format != FmtNone {
        args = append( args, "format", w.Format.String() )
    }
    if w.Offset >= 0 {
        args = append( args, "offset", w.Offset )
    }
    if w.Detail != "" {
        args = append( args, "detail", w.Detail )
    }
    return args
}

func (d *Desc)warn( w *Warning ) {
    d.warnings = multierror.Append( d.warnings, w )
    if d.Warn {
        logger := d.Logger
        if logger == nil {
            logger = slog.Default()
        }
        logger.Warn( "exif anomaly", w.attrs()... )
    }
}

// Warnings returns all anomalies in the order they were found.
func (d *Desc)Warnings( ) []Warning {
    if d.warnings == nil {
        return nil
    }
    ws := make( []Warning, 0, len(d.warnings.Errors) )
    for _, err := range d.warnings.Errors {
        var w *Warning
        if errors.As( err, &w ) {
            ws = append( ws, *w )
        }
    }
    return ws
}

// Err returns all anomalies as a single error, or nil if there was none.
func (d *Desc)Err( ) error {
    return d.warnings.ErrorOrNil()
}

// CountWarnings returns the number of anomalies of the given kind.
func (d *Desc)CountWarnings( kind WarnKind ) (n int) {
    for _, w := range d.Warnings() {
        if w.Kind == kind {
            n++
        }
    }
    return
}
