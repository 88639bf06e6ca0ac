// Package crosscheck compares the result of exiftrace with two independent
// EXIF decoders, jrm-1535/exif and rwcarlsen/goexif.
package crosscheck

import (
    "bytes"
    "encoding/binary"
    "fmt"
    "io"
    "math"
    "strings"

    jexif "github.com/jrm-1535/exif"
    rexif "github.com/rwcarlsen/goexif/exif"
    "github.com/rwcarlsen/goexif/mknote"

    "github.com/jrm-1535/exiftrace"
)

const tolerance = 1e-4     // relative difference accepted between numbers

func init() {
    rexif.RegisterParsers( mknote.All... )
}

// Mismatch is one field that differs between exiftrace and a reference.
type Mismatch struct {
    Field   string
    Ours    string
    Theirs  string
    Source  string      // reference decoder name
}

// Report collects the mismatches found and the reference decoders that
// could not process the payload.
type Report struct {
    Mismatches  []Mismatch
    Failures    map[string]error
    Compared    int         // number of fields compared
}

func (r *Report)add( field, ours, theirs, source string ) {
    r.Mismatches = append( r.Mismatches, Mismatch{ field, ours, theirs, source } )
}

func (r *Report)fail( source string, err error ) {
    if r.Failures == nil {
        r.Failures = make( map[string]error )
    }
    r.Failures[source] = err
}

// Format writes a human readable report.
func (r *Report)Format( w io.Writer ) (n int, err error) {
    var sb strings.Builder
    fmt.Fprintf( &sb, "Cross-check: %d fields compared, %d mismatches\n",
                 r.Compared, len(r.Mismatches) )
    for _, m := range r.Mismatches {
        fmt.Fprintf( &sb, "  %-18s %q vs %q (%s)\n", m.Field, m.Ours, m.Theirs,
                     m.Source )
    }
    for _, src := range []string{ jrmSource, rwcSource } {
        if e, ok := r.Failures[src]; ok {
            fmt.Fprintf( &sb, "  %s failed: %v\n", src, e )
        }
    }
    n, err = io.WriteString( w, sb.String() )
    if err != nil { err = fmt.Errorf( "Format: %w", err ) }
    return
}

// OK returns true if no mismatch was found.
func (r *Report)OK( ) bool {
    return len(r.Mismatches) == 0
}

const (
    jrmSource = "jrm-1535/exif"
    rwcSource = "rwcarlsen/goexif"
)

// Run compares d, the result of decoding payload, with the reference
// decoders. The file is given to decoders that handle JPEG files directly,
// it may be nil. Failures of reference decoders are reported, not returned:
// the error is not nil only when d cannot be compared at all.
func Run( file, payload []byte, d *exiftrace.Desc ) (*Report, error) {
    if d == nil || d.ByteOrder() == nil {
        return nil, fmt.Errorf( "Run: payload was not decoded" )
    }
    r := new( Report )
    if err := guard( func( ) error { return r.checkJrm( payload, d ) } ); err != nil {
        r.fail( jrmSource, err )
    }
    if err := guard( func( ) error { return r.checkRwc( file, payload, d ) } ); err != nil {
        r.fail( rwcSource, err )
    }
    return r, nil
}

// guard turns a panic in a reference decoder into an error.
func guard( f func( ) error ) (err error) {
    defer func( ) {
        if p := recover(); p != nil {
            err = fmt.Errorf( "panic: %v", p )
        }
    }()
    return f()
}

// parseReference parses payload with jrm-1535/exif. Its Parse stops 6 bytes
// before start+dLen, the payload is padded so that nothing is lost.
func parseReference( payload []byte ) (*jexif.Desc, error) {
    padded := make( []byte, len(payload) + 6 )
    copy( padded, payload )
    return jexif.Parse( padded, 0, uint(len(padded)),
                        &jexif.Control{ Unknown: jexif.KeepTag, Warn: false } )
}

func (r *Report)checkJrm( payload []byte, d *exiftrace.Desc ) error {
    ed, err := parseReference( payload )
    if err != nil {
        return err
    }
    theirs, origin := -1, ""
    for _, thbn := range ed.GetThumbnailInfo() {
        if thbn.Comp == jexif.JPEG {
            theirs = int(thbn.Size)
            origin = fmt.Sprintf( " %s in %s IFD", jexif.GetCompressionName( thbn.Comp ),
                                  jexif.GetIfdName( thbn.Origin ) )
        }
    }
    ours := -1
    if th, ok := d.Thumbnail(); ok {
        ours = th.Length
    }
    r.Compared ++
    if ours != theirs {
        r.add( "Thumbnail size", sizeString( ours ), sizeString( theirs ) + origin,
               jrmSource )
    }
    return nil
}

// Reference writes the description of payload given by jrm-1535/exif.
func Reference( w io.Writer, payload []byte ) error {
    return guard( func( ) error {
        ed, err := parseReference( payload )
        if err != nil {
            return fmt.Errorf( "Reference: %w", err )
        }
        return ed.Format( w )
    } )
}

func sizeString( n int ) string {
    if n < 0 {
        return "none"
    }
    return fmt.Sprintf( "%d bytes", n )
}

// rwcarlsen/goexif only reads JPEG streams, a raw payload is wrapped in a
// minimal JPEG with a single APP1 segment.
func jpegStream( file, payload []byte ) ([]byte, error) {
    if len(file) >= 2 && file[0] == 0xff && file[1] == 0xd8 {
        return file, nil
    }
    if len(payload) + 2 > math.MaxUint16 {
        return nil, fmt.Errorf( "jpegStream: payload too large for an APP1 segment" )
    }
    stream := []byte{ 0xff, 0xd8, 0xff, 0xe1 }
    stream = binary.BigEndian.AppendUint16( stream, uint16(len(payload) + 2) )
    stream = append( stream, payload... )
    return append( stream, 0xff, 0xd9 ), nil
}

func (r *Report)checkRwc( file, payload []byte, d *exiftrace.Desc ) error {
    stream, err := jpegStream( file, payload )
    if err != nil {
        return err
    }
    x, err := rexif.Decode( bytes.NewReader( stream ) )
    if x == nil {
        return err
    }
    m := d.Metadata()

    text := func( field string, name rexif.FieldName, ours string, limit int ) {
        tag, err := x.Get( name )
        if err != nil {
            return
        }
        theirs, err := tag.StringVal()
        if err != nil {
            return
        }
        r.Compared ++
        if ! compareText( ours, theirs, limit ) {
            r.add( field, ours, theirs, rwcSource )
        }
    }
    text( "Camera make", rexif.Make, m.CameraMake, exiftrace.MaxMakeLen )
    text( "Camera model", rexif.Model, m.CameraModel, exiftrace.MaxModelLen )
    text( "Date/Time", rexif.DateTimeOriginal, m.DateTimeOriginal, exiftrace.MaxDateLen )

    if tag, err := x.Get( rexif.Orientation ); err == nil {
        if o, err := tag.Int( 0 ); err == nil && o >= 1 && o <= 8 {
            r.Compared ++
            if int(m.Orientation) != o {
                r.add( "Orientation", m.Orientation.String(),
                       exiftrace.Rotation( o ).String(), rwcSource )
            }
        }
    }

    ratio := func( field string, name rexif.FieldName, ours float64 ) {
        tag, err := x.Get( name )
        if err != nil {
            return
        }
        num, den, err := tag.Rat2( 0 )
        if err != nil || den == 0 {
            return
        }
        theirs := float64(num) / float64(den)
        r.Compared ++
        if ! compareFloat( ours, theirs ) {
            r.add( field, fmt.Sprintf( "%g", ours ), fmt.Sprintf( "%g", theirs ),
                   rwcSource )
        }
    }
    ratio( "Aperture", rexif.FNumber, m.ApertureFNumber )
    ratio( "Exposure time", rexif.ExposureTime, m.ExposureTime )
    return nil
}

// compareText returns true if both strings hold the same text, ignoring
// trailing NULs and spaces. Ours may be truncated to limit bytes.
func compareText( ours, theirs string, limit int ) bool {
    ours = strings.TrimRight( ours, "\x00 " )
    theirs = strings.TrimRight( theirs, "\x00 " )
    if i := strings.IndexByte( theirs, 0 ); i >= 0 {
        theirs = theirs[:i]
    }
    if limit > 0 && len(theirs) > limit {
        theirs = strings.TrimRight( theirs[:limit], " " )
    }
    return ours == theirs
}

// compareFloat returns true if a and b differ by less than the relative
// tolerance.
func compareFloat( a, b float64 ) bool {
    if a == b {
        return true
    }
    diff := math.Abs( a - b )
    scale := math.Max( math.Abs( a ), math.Abs( b ) )
    return diff <= tolerance * scale
}
