package crosscheck

import (
    "bytes"
    "encoding/binary"
    "strings"
    "testing"

    "github.com/jrm-1535/exiftrace"
)

// payload builds a big endian Exif payload with IFD0 holding Make,
// Orientation and FNumber.
func payload( camera string, orientation uint16 ) []byte {
    be := binary.BigEndian
    p := []byte( "Exif\x00\x00MM\x00\x2a\x00\x00\x00\x08" )
    const nEntries = 3
    valueOffset := uint32(8 + 2 + nEntries * 12 + 4)

    p = be.AppendUint16( p, nEntries )
    text := append( []byte(camera), 0 )
    p = be.AppendUint16( p, 0x010f )            // Make, string
    p = be.AppendUint16( p, 2 )
    p = be.AppendUint32( p, uint32(len(text)) )
    p = be.AppendUint32( p, valueOffset )
    p = be.AppendUint16( p, 0x0112 )            // Orientation, short
    p = be.AppendUint16( p, 3 )
    p = be.AppendUint32( p, 1 )
    p = be.AppendUint16( p, orientation )
    p = be.AppendUint16( p, 0 )
    p = be.AppendUint16( p, 0x829d )            // FNumber, rational
    p = be.AppendUint16( p, 5 )
    p = be.AppendUint32( p, 1 )
    p = be.AppendUint32( p, valueOffset + 16 )
    p = be.AppendUint32( p, 0 )                 // no IFD1

    text = append( text, make( []byte, 16 - len(text) )... )
    p = append( p, text... )
    p = be.AppendUint32( p, 28 )
    p = be.AppendUint32( p, 10 )
    return p
}

func TestCompareText( t *testing.T ) {
    tests := []struct {
        ours, theirs    string
        limit           int
        equal           bool
    }{
        { "Canon", "Canon", 31, true },
        { "Canon", "Canon\x00\x00", 31, true },
        { "Canon", "Canon  ", 31, true },
        { "Canon", "Nikon", 31, false },
        { "abc", "abcdef", 3, true },
        { "abc", "abcdef", 0, false },
        { "", "x", 31, false },
    }
    for _, tc := range tests {
        if got := compareText( tc.ours, tc.theirs, tc.limit ); got != tc.equal {
            t.Errorf( "compareText(%q, %q, %d) = %v", tc.ours, tc.theirs,
                      tc.limit, got )
        }
    }
}

func TestCompareFloat( t *testing.T ) {
    tests := []struct {
        a, b    float64
        equal   bool
    }{
        { 0, 0, true },
        { 2.8, 28.0 / 10.0, true },
        { 1.0 / 60, 0.0166667, true },
        { 2.8, 2.9, false },
        { 0, 1e-9, false },
        { -1, 1, false },
    }
    for _, tc := range tests {
        if got := compareFloat( tc.a, tc.b ); got != tc.equal {
            t.Errorf( "compareFloat(%g, %g) = %v", tc.a, tc.b, got )
        }
    }
}

func TestJPEGStream( t *testing.T ) {
    p := payload( "Canon", 1 )
    s, err := jpegStream( nil, p )
    if err != nil {
        t.Fatalf( "jpegStream: %v", err )
    }
    if ! bytes.HasPrefix( s, []byte{ 0xff, 0xd8, 0xff, 0xe1 } ) ||
       int(binary.BigEndian.Uint16( s[4:] )) != len(p) + 2 ||
       ! bytes.Equal( s[6:6+len(p)], p ) {
        t.Errorf( "stream % x", s )
    }

    file := []byte{ 0xff, 0xd8, 0xff, 0xd9 }
    if s, _ := jpegStream( file, p ); &s[0] != &file[0] {
        t.Errorf( "JPEG file not used as is" )
    }
    if _, err := jpegStream( nil, make( []byte, 70000 ) ); err == nil {
        t.Errorf( "oversized payload accepted" )
    }
}

func TestRun( t *testing.T ) {
    p := payload( "Canon", 6 )
    d, err := exiftrace.Decode( p, nil )
    if err != nil {
        t.Fatalf( "Decode: %v", err )
    }
    r, err := Run( nil, p, d )
    if err != nil {
        t.Fatalf( "Run: %v", err )
    }
    if e, ok := r.Failures[rwcSource]; ok {
        t.Fatalf( "%s failed: %v", rwcSource, e )
    }
    for _, m := range r.Mismatches {
        if m.Source == rwcSource {
            t.Errorf( "mismatch %+v", m )
        }
    }
    // Make, Orientation, FNumber
    if r.Compared < 3 {
        t.Errorf( "%d fields compared", r.Compared )
    }
}

func TestRunRejected( t *testing.T ) {
    d, _ := exiftrace.Decode( []byte( "not exif" ), nil )
    if _, err := Run( nil, nil, d ); err == nil {
        t.Errorf( "rejected payload compared" )
    }
    if _, err := Run( nil, nil, nil ); err == nil {
        t.Errorf( "nil Desc compared" )
    }
}

func TestReportFormat( t *testing.T ) {
    r := &Report{ Compared: 4 }
    r.add( "Camera make", "Canon", "Nikon", rwcSource )
    r.fail( jrmSource, errFake )
    var out bytes.Buffer
    n, err := r.Format( &out )
    if err != nil || n != out.Len() {
        t.Fatalf( "Format %d %v", n, err )
    }
    for _, s := range []string{
        "Cross-check: 4 fields compared, 1 mismatches\n",
        "  Camera make        \"Canon\" vs \"Nikon\" (rwcarlsen/goexif)\n",
        "  jrm-1535/exif failed: fake\n",
    } {
        if ! strings.Contains( out.String(), s ) {
            t.Errorf( "missing %q in:\n%s", s, out.String() )
        }
    }
    if r.OK() {
        t.Errorf( "OK with a mismatch" )
    }
}

type fakeError struct{}

func (fakeError) Error( ) string { return "fake" }

var errFake error = fakeError{}

func TestGuard( t *testing.T ) {
    err := guard( func( ) error { panic( "boom" ) } )
    if err == nil || ! strings.Contains( err.Error(), "boom" ) {
        t.Errorf( "guard: %v", err )
    }
}

func TestReferenceTooShort( t *testing.T ) {
    var out bytes.Buffer
    if err := Reference( &out, []byte( "Exif" ) ); err == nil {
        t.Errorf( "short payload described:\n%s", out.String() )
    }
}
