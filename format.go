package exiftrace

import (
    "encoding/binary"
    "fmt"
    "math"
    "strconv"
    "strings"
)

// Format is the type of a directory entry value, as stored in the entry.
type Format uint16

const (
    FmtNone Format = iota       // invalid
    FmtByte                     // unsigned 8-bit
    FmtString                   // ASCII, NUL terminated
    FmtUShort                   // unsigned 16-bit
    FmtULong                    // unsigned 32-bit
    FmtURational                // two unsigned 32-bit: numerator, denominator
    FmtSByte                    // signed 8-bit
    FmtUndefined                // opaque bytes, usually text
    FmtSShort                   // signed 16-bit
    FmtSLong                    // signed 32-bit
    FmtSRational                // two signed 32-bit: numerator, denominator
    FmtSingle                   // IEEE 754 32-bit
    FmtDouble                   // IEEE 754 64-bit
    _FORMAT_N                   // last entry + 1 to size arrays
)

var formatWidths = [_FORMAT_N]int{ 0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8 }

var formatNames = [_FORMAT_N]string{ "none", "byte", "string", "ushort",
                                     "ulong", "urational", "sbyte",
                                     "undefined", "sshort", "slong",
                                     "srational", "single", "double" }

// IsValid returns false for format codes outside of the EXIF enumeration
func (f Format) IsValid( ) bool {
    return f > FmtNone && f < _FORMAT_N
}

// Width returns the size in bytes of one component of the format, or 0 if
// the format is invalid.
func (f Format) Width( ) int {
    if ! f.IsValid() {
        return 0
    }
    return formatWidths[f]
}

// IsText returns true for the formats rendered as quoted text
func (f Format) IsText( ) bool {
    return f == FmtString || f == FmtUndefined
}

func (f Format) String( ) string {
    if f < _FORMAT_N {
        return formatNames[f]
    }
    return "format(" + strconv.Itoa( int(f) ) + ")"
}

const (
    _maxNumbers     = 10        // numeric elements rendered before "..."
    _maxPlainText   = 125       // longer text is elided in the middle
    _textHead       = 60        // bytes kept before the elision
    _textTail       = 56        // bytes kept after the elision
    _textElision    = "  ...  "
)

// value is a resolved directory entry value. data holds exactly count
// components; raw is the storage the value was read from, which for inline
// values is always the 4-byte entry field.
type value struct {
    format  Format
    count   uint32
    at      int                 // absolute address of data in the payload
    data    []byte
    raw     []byte
    order   binary.ByteOrder
}

func (v value)element( i int ) ([]byte, bool) {
    w := v.format.Width()
    if w == 0 || i < 0 || (i+1) * w > len(v.raw) {
        return nil, false
    }
    return v.raw[i*w:(i+1)*w], true
}

func (v value)offset( ) uint32 {
    if len(v.raw) < 4 {
        return 0
    }
    return v.order.Uint32( v.raw )
}

func (v value)rational( b []byte ) (int32, int32) {
    return int32(v.order.Uint32( b )), int32(v.order.Uint32( b[4:] ))
}

// floatAt converts component i to a float64. Rationals with a zero
// denominator convert to 0.
func (v value)floatAt( i int ) float64 {
    b, ok := v.element( i )
    if ! ok {
        return 0
    }
    switch v.format {
    case FmtByte:
        return float64( b[0] )
    case FmtSByte:
        return float64( int8(b[0]) )
    case FmtUShort:
        return float64( v.order.Uint16( b ) )
    case FmtSShort:
        return float64( int16(v.order.Uint16( b )) )
    case FmtULong:
        return float64( v.order.Uint32( b ) )
    case FmtSLong:
        return float64( int32(v.order.Uint32( b )) )
    case FmtURational, FmtSRational:
        num, den := v.rational( b )
        if den == 0 {
            return 0
        }
        return float64(num) / float64(den)
    case FmtSingle:
        return float64( math.Float32frombits( v.order.Uint32( b ) ) )
    case FmtDouble:
        return math.Float64frombits( v.order.Uint64( b ) )
    }
    return 0
}

// float converts the first component.
func (v value)float( ) float64 {
    return v.floatAt( 0 )
}

func (v value)number( b []byte ) string {
    switch v.format {
    case FmtByte, FmtSByte:
        return fmt.Sprintf( "%02x", b[0] )
    case FmtUShort:
        return strconv.Itoa( int(v.order.Uint16( b )) )
    case FmtSShort:
        return strconv.Itoa( int(int16(v.order.Uint16( b ))) )
    case FmtULong, FmtSLong:
        return strconv.Itoa( int(int32(v.order.Uint32( b ))) )
    case FmtURational, FmtSRational:
        num, den := v.rational( b )
        return fmt.Sprintf( "%d/%d", num, den )
    case FmtSingle:
        return fmt.Sprintf( "%f", math.Float32frombits( v.order.Uint32( b ) ) )
    case FmtDouble:
        return fmt.Sprintf( "%f", math.Float64frombits( v.order.Uint64( b ) ) )
    }
    return fmt.Sprintf( "Unknown format %d", v.format )
}

// numbers renders the components comma separated, stopping with "..." once
// ten components have been written.
func (v value)numbers( ) string {
    var sb strings.Builder
    w := v.format.Width()
    if w == 0 {
        return ""
    }
    n := len(v.data) / w
    for i := 0; i < n; i++ {
        if i > 0 {
            sb.WriteByte( ',' )
        }
        sb.WriteString( v.number( v.data[i*w:(i+1)*w] ) )
        if i + 1 >= _maxNumbers {
            sb.WriteString( "..." )
            break
        }
    }
    return sb.String()
}

func writePrintable( sb *strings.Builder, b []byte ) {
    for _, c := range b {
        if c >= 32 && c < 127 {
            sb.WriteByte( c )
        } else {
            sb.WriteByte( '.' )
        }
    }
}

// quoteText renders textual values between single quotes. Text longer than
// 125 bytes keeps its first 60 and last 56 bytes around a fixed elision.
func quoteText( b []byte ) string {
    var sb strings.Builder
    sb.WriteByte( '\'' )
    if len(b) > _maxPlainText {
        writePrintable( &sb, b[:_textHead] )
        sb.WriteString( _textElision )
        writePrintable( &sb, b[len(b)-_textTail:] )
    } else {
        writePrintable( &sb, b )
    }
    sb.WriteByte( '\'' )
    return sb.String()
}

func (v value)render( quote func( []byte ) string ) string {
    if v.format.IsText() {
        return quote( v.data )
    }
    return v.numbers()
}
