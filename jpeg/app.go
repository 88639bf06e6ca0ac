package jpeg

// support for JPEG app1 (Exif, XMP) and other application segments

import (
    "bytes"
    "fmt"
    "io"
)

const (
    _APP1_EXIF = iota
    _APP1_XMP
)

var (
    exifIdentifier  = []byte( "Exif\x00\x00" )
    xmpIdentifier   = []byte( "http://ns.adobe.com/xap/1.0/\x00" )
)

func markerAPP1discriminator( header []byte ) int {
    if bytes.HasPrefix( header, exifIdentifier ) {
        return _APP1_EXIF
    }
    if bytes.HasPrefix( header, xmpIdentifier ) {
        return _APP1_XMP
    }
    return -1
}

type exifSeg struct {
    size    int
}

func (es *exifSeg)format( w io.Writer ) (int, error) {
    return fmt.Fprintf( w, "APP1 Exif:\n  payload %d bytes\n", es.size )
}

type xmpSeg struct {
    packet  []byte
}

func (xs *xmpSeg)format( w io.Writer ) (int, error) {
    return fmt.Fprintf( w, "APP1 XMP:\n  packet %d bytes\n", len(xs.packet) )
}

func (jpg *Desc) app1( marker, sLen uint ) error {
    if jpg.state != _APPLICATION {
        jpg.warn( "jpeg: application segment after tables", "marker",
                  getJPEGmarkerName(marker), "state", jpg.getJPEGStateName() )
    }
    data := jpg.segmentData( sLen )
    switch markerAPP1discriminator( data ) {
    case _APP1_EXIF:
        if jpg.exif != nil {
            jpg.warn( "jpeg: multiple Exif segments, keeping the first",
                      "offset", jpg.offset )
            jpg.addSeg( nil, marker, sLen )
            return nil
        }
        jpg.exif = data
        jpg.addSeg( &exifSeg{ len(data) }, marker, sLen )
    case _APP1_XMP:
        packet := data[len(xmpIdentifier):]
        if jpg.xmp == nil {
            jpg.xmp = packet
        }
        jpg.addSeg( &xmpSeg{ packet }, marker, sLen )
    default:
        jpg.appN( marker, sLen )
    }
    return nil
}

// identifier returns the NUL terminated string starting most application
// segments, or "" if there is none.
func identifier( data []byte ) string {
    const maxIdentifier = 32
    if len(data) > maxIdentifier {
        data = data[:maxIdentifier]
    }
    i := bytes.IndexByte( data, 0 )
    if i <= 0 {
        return ""
    }
    for _, c := range data[:i] {
        if c < 32 || c >= 127 {
            return ""
        }
    }
    return string( data[:i] )
}

type appSeg struct {
    marker  uint
    id      string
    size    int
}

func (as *appSeg)format( w io.Writer ) (int, error) {
    cw := newCumulativeWriter( w )
    cw.format( "%s:\n", getJPEGmarkerName( as.marker ) )
    if as.id != "" {
        cw.format( "  identifier %q\n", as.id )
    }
    cw.format( "  %d bytes\n", as.size )
    return cw.result()
}

// appN records an application segment that is not interpreted.
func (jpg *Desc) appN( marker, sLen uint ) {
    data := jpg.segmentData( sLen )
    jpg.addSeg( &appSeg{ marker, identifier( data ), len(data) }, marker, sLen )
}
