package exiftrace

import (
    "bytes"
    "fmt"
    "io"
    "math"
)

// Rotation is the image orientation, as coded in the Orientation tag.
type Rotation int
const (
    Undefined Rotation = iota
    Normal              // row 0 top, col 0 left
    FlipHorizontal      // row 0 top, col 0 right
    Rotate180           // row 0 bottom, col 0 right
    FlipVertical        // row 0 bottom, col 0 left
    Transpose           // row 0 left, col 0 top
    Rotate90            // row 0 right, col 0 top
    Transverse          // row 0 right, col 0 bottom
    Rotate270           // row 0 left, col 0 bottom
)

var rotationNames = [...]string{ "undefined", "normal", "flip horizontal",
                                 "rotate 180", "flip vertical", "transpose",
                                 "rotate 90", "transverse", "rotate 270" }

func (r Rotation) String( ) string {
    if r >= Undefined && r <= Rotate270 {
        return rotationNames[r]
    }
    return fmt.Sprintf( "rotation(%d)", int(r) )
}

// MarshalText makes JSON output readable
func (r Rotation) MarshalText( ) ([]byte, error) {
    return []byte( r.String() ), nil
}

func (r *Rotation) UnmarshalText( text []byte ) error {
    for i, name := range rotationNames {
        if string(text) == name {
            *r = Rotation(i)
            return nil
        }
    }
    return fmt.Errorf( "UnmarshalText: unknown rotation %q", text )
}

// Bounds of the text fields, in bytes
const (
    MaxMakeLen      = 31
    MaxModelLen     = 39
    MaxDateLen      = 19
    MaxCommentLen   = 199
)

// Metadata holds the values extracted from the recognized tags.
type Metadata struct {
    CameraMake              string
    CameraModel             string
    DateTime                string
    DateTimeOriginal        string
    DateTimeDigitized       string
    Comments                string

    ExposureTime            float64     // seconds
    ApertureFNumber         float64
    FocalLength             float64     // mm
    Distance                float64     // subject distance, m
    ExposureBias            float64
    ISOEquivalent           int
    FlashUsed               bool
    Orientation             Rotation

    XResolution             float64
    YResolution             float64
    ResolutionUnit          int

    SensorWidth             float64     // mm, derived from focal plane
    FocalLength35mmEquiv    int         // mm

    Whitebalance            int
    LightSource             int
    MeteringMode            int
    ExposureProgram         int

    GPS                     *GPSInfo    `json:",omitempty"`
}

// boundedText copies at most limit bytes of b, stopping at the first NUL.
func boundedText( b []byte, limit int ) string {
    if len(b) > limit {
        b = b[:limit]
    }
    if i := bytes.IndexByte( b, 0 ); i >= 0 {
        b = b[:i]
    }
    return string(b)
}

// userComment drops the trailing space padding and, for ASCII comments, the
// 8-byte character code header. It returns false for an ASCII comment made
// only of padding, which must not replace a previous comment.
func userComment( b []byte ) (string, bool) {
    b = bytes.TrimRight( b, " " )
    if ! bytes.HasPrefix( b, []byte( "ASCII" ) ) {
        return boundedText( b, MaxCommentLen ), true
    }
    for a := 5; a < 10 && a < len(b); a++ {
        if c := b[a]; c != 0 && c != ' ' {
            return boundedText( b[a:], MaxCommentLen ), true
        }
    }
    return "", false
}

// focal plane resolution unit in millimeters
func focalPlaneUnits( code int ) float64 {
    switch code {
    case 1: return 25.4         // inch
    case 2: return 25.4         // meter in theory, inch in practice
    case 3: return 10           // centimeter
    case 4: return 1            // millimeter
    case 5: return .001         // micrometer
    }
    return 0
}

// extract updates the metadata from one generic entry.
func (d *Desc)extract( tag uint16, v value ) {
    m := &d.meta
    switch tag {
    case _Make:
        m.CameraMake = boundedText( v.data, MaxMakeLen )
    case _Model:
        m.CameraModel = boundedText( v.data, MaxModelLen )
    case _DateTimeOriginal:
        m.DateTimeOriginal = boundedText( v.data, MaxDateLen )
    case _DateTimeDigitized:
        m.DateTimeDigitized = boundedText( v.data, MaxDateLen )
    case _DateTime:
        m.DateTime = boundedText( v.data, MaxDateLen )
    case _UserComment:
        if c, ok := userComment( v.data ); ok {
            m.Comments = c
        }

    case _FNumber:
        m.ApertureFNumber = v.float()
    case _ApertureValue, _MaxApertureValue:
        if m.ApertureFNumber == 0 {
            m.ApertureFNumber = math.Exp( v.float() * math.Ln2 * 0.5 )
        }
    case _FocalLength:
        m.FocalLength = v.float()
    case _SubjectDistance:
        m.Distance = v.float()
    case _ExposureTime:
        m.ExposureTime = v.float()
    case _ShutterSpeedValue:
        if m.ExposureTime == 0 {
            m.ExposureTime = 1 / math.Exp( v.float() * math.Ln2 )
        }
    case _Flash:
        m.FlashUsed = int( v.float() ) & 1 != 0

    case _ResolutionUnit:
        if m.ResolutionUnit == 0 {
            m.ResolutionUnit = int( v.float() )
        }
    case _XResolution:
        if m.XResolution == 0 {
            m.XResolution = v.float()
        }
    case _YResolution:
        if m.YResolution == 0 {
            m.YResolution = v.float()
        }

    case _Orientation:
        o := int( v.float() )
        if o < int(Normal) || o > int(Rotate270) {
            d.warn( newWarning( OrientationInvalid, int(tag), v.format, v.at,
                                fmt.Sprintf( "orientation %d", o ) ) )
            m.Orientation = Undefined
        } else {
            m.Orientation = Rotation(o)
        }
    case _ExifImageWidth, _ExifImageLength:
        // the largest, in case the image was rotated to portrait
        if w := int( v.float() ); w > d.exifImageWidth {
            d.exifImageWidth = w
        }
    case _FocalPlaneXResolution:
        d.focalPlaneXRes = v.float()
    case _FocalPlaneResolutionUnit:
        d.focalPlaneUnits = focalPlaneUnits( int( v.float() ) )

    case _ExposureBiasValue:
        m.ExposureBias = v.float()
    case _WhiteBalance:
        m.Whitebalance = int( v.float() )
    case _LightSource:
        m.LightSource = int( v.float() )
    case _MeteringMode:
        m.MeteringMode = int( v.float() )
    case _ExposureProgram:
        m.ExposureProgram = int( v.float() )
    case _ExposureIndex:
        if m.ISOEquivalent == 0 {
            m.ISOEquivalent = int( v.float() )
        }
    case _ISOSpeedRatings:
        iso := int( v.float() )
        if iso < 50 {       // old cameras
            iso *= 200
        }
        m.ISOEquivalent = iso
    case _FocalLengthIn35mmFilm:
        m.FocalLength35mmEquiv = int( v.float() )
    }
}

// derive computes what needs the whole walk: sensor width and 35mm focal
// length equivalent, and the signed GPS position.
func (d *Desc)derive( ) {
    m := &d.meta
    if d.focalPlaneXRes != 0 {
        m.SensorWidth = float64(d.exifImageWidth) * d.focalPlaneUnits / d.focalPlaneXRes
        if m.FocalLength != 0 && m.FocalLength35mmEquiv == 0 && m.SensorWidth != 0 {
            m.FocalLength35mmEquiv = int( m.FocalLength / m.SensorWidth * 36 + 0.5 )
        }
    }
    d.deriveGPS( )
}

// FormatMetadata writes a summary of the extracted metadata.
func (d *Desc)FormatMetadata( w io.Writer ) (int, error) {
    cw := newCumulativeWriter( w )
    m := &d.meta

    text := func( label, s string ) {
        if s != "" {
            cw.format( "%-17s: %s\n", label, s )
        }
    }
    text( "Camera make", m.CameraMake )
    text( "Camera model", m.CameraModel )
    text( "Date/Time", m.DateTimeOriginal )
    if m.DateTimeOriginal == "" {
        text( "Date/Time", m.DateTime )
    }
    if m.Orientation != Undefined {
        cw.format( "%-17s: %s\n", "Orientation", m.Orientation )
    }
    if m.XResolution != 0 {
        cw.format( "%-17s: %.0f x %.0f (unit %d)\n", "Resolution",
                   m.XResolution, m.YResolution, m.ResolutionUnit )
    }
    if m.FlashUsed {
        cw.format( "%-17s: Yes\n", "Flash used" )
    }
    if m.FocalLength != 0 {
        cw.format( "%-17s: %4.1fmm", "Focal length", m.FocalLength )
        if m.FocalLength35mmEquiv != 0 {
            cw.format( "  (35mm equivalent: %dmm)", m.FocalLength35mmEquiv )
        }
        cw.format( "\n" )
    }
    if m.SensorWidth != 0 {
        cw.format( "%-17s: %4.2fmm\n", "Sensor width", m.SensorWidth )
    }
    if m.ExposureTime != 0 {
        cw.format( "%-17s: %6.3f s", "Exposure time", m.ExposureTime )
        if m.ExposureTime <= 0.5 {
            cw.format( "  (1/%d)", int( 0.5 + 1 / m.ExposureTime ) )
        }
        cw.format( "\n" )
    }
    if m.ApertureFNumber != 0 {
        cw.format( "%-17s: f/%3.1f\n", "Aperture", m.ApertureFNumber )
    }
    if m.Distance != 0 {
        if m.Distance < 0 {
            cw.format( "%-17s: Infinite\n", "Focus dist." )
        } else {
            cw.format( "%-17s: %4.2fm\n", "Focus dist.", m.Distance )
        }
    }
    if m.ISOEquivalent != 0 {
        cw.format( "%-17s: %2d\n", "ISO equiv.", m.ISOEquivalent )
    }
    if m.ExposureBias != 0 {
        cw.format( "%-17s: %4.2f\n", "Exposure bias", m.ExposureBias )
    }
    if m.GPS != nil && m.GPS.HasPosition {
        cw.format( "%-17s: %.6f, %.6f", "GPS position", m.GPS.Latitude, m.GPS.Longitude )
        if m.GPS.HasAltitude {
            cw.format( ", %.1fm", m.GPS.Altitude )
        }
        cw.format( "\n" )
    }
    text( "Comment", m.Comments )
    if d.hasThumb {
        cw.format( "%-17s: %d bytes @%#x\n", "Thumbnail", d.thumb.Length, d.thumb.Offset )
    }
    return cw.result()
}
