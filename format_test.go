package exiftrace

import (
    "encoding/binary"
    "strings"
    "testing"
)

func TestFormatWidth( t *testing.T ) {
    tests := []struct {
        f       Format
        width   int
        valid   bool
        text    bool
    }{
        { FmtNone, 0, false, false },
        { FmtByte, 1, true, false },
        { FmtString, 1, true, true },
        { FmtUShort, 2, true, false },
        { FmtULong, 4, true, false },
        { FmtURational, 8, true, false },
        { FmtSByte, 1, true, false },
        { FmtUndefined, 1, true, true },
        { FmtSShort, 2, true, false },
        { FmtSLong, 4, true, false },
        { FmtSRational, 8, true, false },
        { FmtSingle, 4, true, false },
        { FmtDouble, 8, true, false },
        { Format(13), 0, false, false },
        { Format(0xffff), 0, false, false },
    }
    for _, tc := range tests {
        if tc.f.Width() != tc.width || tc.f.IsValid() != tc.valid ||
           tc.f.IsText() != tc.text {
            t.Errorf( "%s: width %d valid %v text %v", tc.f,
                      tc.f.Width(), tc.f.IsValid(), tc.f.IsText() )
        }
    }
    if FmtSRational.String() != "srational" || Format(20).String() != "format(20)" {
        t.Errorf( "format names %s %s", FmtSRational, Format(20) )
    }
}

func testValue( f Format, count uint32, data []byte ) value {
    v := value{ format: f, count: count, data: data, raw: data,
                order: binary.BigEndian }
    if len(data) < 4 {
        v.raw = append( append( []byte{}, data... ), make( []byte, 4 - len(data) )... )
        v.data = v.raw[:len(data)]
    }
    return v
}

func TestValueNumbers( t *testing.T ) {
    tests := []struct {
        name        string
        v           value
        expected    string
        float       float64
    }{
        { "bytes", testValue( FmtByte, 3, []byte{ 0x01, 0xab, 0xff } ), "01,ab,ff", 1 },
        { "sbyte", testValue( FmtSByte, 1, []byte{ 0xff } ), "ff", -1 },
        { "ushort", testValue( FmtUShort, 2, []byte{ 0xff, 0xff, 0, 2 } ), "65535,2", 65535 },
        { "sshort", testValue( FmtSShort, 1, []byte{ 0xff, 0xfe } ), "-2", -2 },
        { "ulong as signed", testValue( FmtULong, 1, []byte{ 0xff, 0xff, 0xff, 0xff } ),
          "-1", 4294967295 },
        { "slong", testValue( FmtSLong, 1, []byte{ 0, 0, 1, 0 } ), "256", 256 },
        { "rational", testValue( FmtURational, 1, []byte{ 0, 0, 0, 1, 0, 0, 0, 3 } ),
          "1/3", 1.0 / 3 },
        { "srational", testValue( FmtSRational, 1,
                                  []byte{ 0xff, 0xff, 0xff, 0xfd, 0, 0, 0, 2 } ),
          "-3/2", -1.5 },
        { "zero denominator", testValue( FmtURational, 1, make( []byte, 8 ) ), "0/0", 0 },
        { "single", testValue( FmtSingle, 1, []byte{ 0x3f, 0xc0, 0, 0 } ), "1.500000", 1.5 },
        { "double", testValue( FmtDouble, 1,
                               []byte{ 0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18 } ),
          "3.141593", 3.141592653589793 },
        { "string", testValue( FmtString, 3, []byte( "ab\x00" ) ), "'ab.'", 0 },
    }
    for _, tc := range tests {
        t.Run( tc.name, func( t *testing.T ) {
            if s := tc.v.render( quoteText ); s != tc.expected {
                t.Errorf( "render %q expected %q", s, tc.expected )
            }
            if f := tc.v.float(); ! approx( f, tc.float ) {
                t.Errorf( "float %f expected %f", f, tc.float )
            }
        } )
    }
}

func TestValueNumbersEllipsis( t *testing.T ) {
    data := make( []byte, 0, 24 )
    for i := 1; i <= 12; i++ {
        data = binary.BigEndian.AppendUint16( data, uint16(i) )
    }
    v := testValue( FmtUShort, 12, data )
    if s := v.numbers(); s != "1,2,3,4,5,6,7,8,9,10..." {
        t.Errorf( "numbers %q", s )
    }
}

func TestQuoteText( t *testing.T ) {
    if s := quoteText( []byte( "a\tb\x00\x80" ) ); s != "'a.b..'" {
        t.Errorf( "quoteText %q", s )
    }
    exactly := strings.Repeat( "y", _maxPlainText )
    if s := quoteText( []byte( exactly ) ); s != "'" + exactly + "'" {
        t.Errorf( "text of %d bytes elided", _maxPlainText )
    }
}

func TestLongTextElision( t *testing.T ) {
    s := strings.Repeat( "abcdefghij", 30 )
    b := newExifBuilder( bothOrders[0].order )
    ifd0 := b.dir( 0, b.ascii( 0x010e, s ) )
    b.setFirst( ifd0 )
    d, err := Decode( b.payload(), nil )
    if err != nil {
        t.Fatalf( "Decode: %v", err )
    }

    quoted := s[:_textHead] + _textElision + s[len(s)+1-_textTail:] + "."
    if len(quoted) != 123 {
        t.Fatalf( "bad expectation length %d", len(quoted) )
    }
    line := "        ImageDescription [ 301 ] = '" + quoted + "'\n"
    if ! strings.Contains( d.Trace(), line ) {
        t.Errorf( "trace lacks %q:\n%s", line, d.Trace() )
    }
}

func TestTraceTagLines( t *testing.T ) {
    b := newExifBuilder( bothOrders[0].order )
    ifd0 := b.dir( 0,
        b.short( 0x0102, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12 ),
        b.short( 0x9999, 7 ),
        b.double( 0x9998, 0.25 ),
        b.ascii( 0x0131, "fw" ) )
    b.setFirst( ifd0 )
    d, _ := Decode( b.payload(), nil )
    for _, line := range []string{
        "        BitsPerSample [ 12 ] = 1,2,3,4,5,6,7,8,9,10...\n",
        "        Unknown Tag 9999 Value = 7\n",
        "        Unknown Tag 9998 Value = 0.250000\n",
        "        Software = 'fw.'\n",
    } {
        if ! strings.Contains( d.Trace(), line ) {
            t.Errorf( "trace lacks %q:\n%s", line, d.Trace() )
        }
    }
}

func TestIndentation( t *testing.T ) {
    if indentation( 2 ) != "        " || indentation( -1 ) != "" {
        t.Errorf( "indentation" )
    }
    if len( indentation( 100 ) ) != 4 * _maxIndent {
        t.Errorf( "indentation is not capped" )
    }
}
