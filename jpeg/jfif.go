package jpeg

// support for JPEG app0 (JFIF)

import (
    "bytes"
    "fmt"
    "io"
)

const (                             // Image resolution units (prefixed with _ to avoid being documented)
    _DOTS_PER_ARBITRARY_UNIT = 0    // undefined unit
    _DOTS_PER_INCH = 1              // DPI
    _DOTS_PER_CM = 2                // DPCM Dots per centimeter
)

func getUnitsString( units int ) (string, string) {
    switch units {
    case _DOTS_PER_ARBITRARY_UNIT: return "dots per abitrary unit", "dp?"
    case _DOTS_PER_INCH:           return "dots per inch", "dpi"
    case _DOTS_PER_CM:             return "dots per centimeter", "dpcm"
    }
    return "Unknown units", ""
}

const (
    _APP0_JFIF = iota
    _APP0_JFXX
)

func markerAPP0discriminator( h5 []byte ) int {
    if bytes.Equal( h5, []byte( "JFIF\x00" ) ) { return _APP0_JFIF }
    if bytes.Equal( h5, []byte( "JFXX\x00" ) ) { return _APP0_JFXX }
    return -1
}

const (
    _THUMBNAIL_BASELINE = 0x10
    _THUMBNAIL_PALETTE  = 0x11
    _THUMBNAIL_RGB      = 0x12
)

const _jfifHeaderSize = 14     // identifier to thumbnail dimensions

// JFIF is the content of the APP0 JFIF header and of its optional extension.
type JFIF struct {
    Major, Minor    uint8
    Units           uint8       // 0 no unit (aspect ratio), 1 dpi, 2 dpcm
    XDensity        uint16
    YDensity        uint16
    ThumbWidth      uint8
    ThumbHeight     uint8
    Extension       uint8       // JFXX thumbnail code, 0 if no extension
}

func (j *JFIF)format( w io.Writer ) (int, error) {
    cw := newCumulativeWriter( w )
    cw.format( "APP0 JFIF:\n" )
    cw.format( "  JFIF Version %d.%02d\n", j.Major, j.Minor )
    units, symb := getUnitsString( int(j.Units) )
    cw.format( "  size in %s (%s)\n", units, symb )
    cw.format( "  density %d,%d %s\n", j.XDensity, j.YDensity, symb )
    cw.format( "  thumbnail %d,%d pixels\n", j.ThumbWidth, j.ThumbHeight )
    switch j.Extension {
    case 0:
    case _THUMBNAIL_BASELINE:
        cw.format( "  JFIF extension: thumbnail encoded according to ITU-T T.81 | ISO/IEC 10918-1 baseline process\n" )
    case _THUMBNAIL_PALETTE:
        cw.format( "  JFIF extension: thumbnail encoded as 1 byte per pixel in 256 entry RGB palette\n" )
    case _THUMBNAIL_RGB:
        cw.format( "  JFIF extension: thumbnail encoded as RGB (3 bytes per pixel)\n" )
    default:
        cw.format( "  JFIF extension: unknown code 0x%02x\n", j.Extension )
    }
    return cw.result()
}

func (jpg *Desc) app0( marker, sLen uint ) error {
    if jpg.state != _APPLICATION {
        jpg.warn( "jpeg: application segment after tables", "marker",
                  getJPEGmarkerName(marker), "state", jpg.getJPEGStateName() )
    }
    data := jpg.segmentData( sLen )
    appType := -1
    if len(data) >= 5 {
        appType = markerAPP0discriminator( data[:5] )
    }

    switch appType {
    case _APP0_JFIF:
        if jpg.jfif != nil {
            jpg.warn( "jpeg: multiple APP0 JFIF segments", "offset", jpg.offset )
            jpg.addSeg( nil, marker, sLen )
            return nil
        }
        if len(data) < _jfifHeaderSize {
            return fmt.Errorf( "app0: Wrong APP0 (JFIF) header (invalid length %d)", sLen )
        }
        j := &JFIF{ Major: data[5], Minor: data[6], Units: data[7],
                    XDensity: uint16(data[8]) << 8 + uint16(data[9]),
                    YDensity: uint16(data[10]) << 8 + uint16(data[11]),
                    ThumbWidth: data[12], ThumbHeight: data[13] }
        rgb := 3 * uint(j.ThumbWidth) * uint(j.ThumbHeight)
        if uint(len(data)) != _jfifHeaderSize + rgb {
            jpg.warn( "jpeg: APP0 JFIF thumbnail size mismatch", "length", sLen,
                      "thumbnail", rgb )
        }
        jpg.jfif = j
        jpg.addSeg( j, marker, sLen )

    case _APP0_JFXX:
        if jpg.jfif == nil {
            jpg.warn( "jpeg: APP0 extension does not follow APP0 (JFIF)" )
        } else if jpg.app0Extension {
            jpg.warn( "jpeg: multiple APP0 extensions" )
        } else if len(data) > 5 {
            jpg.jfif.Extension = data[5]
        }
        jpg.app0Extension = true
        jpg.addSeg( nil, marker, sLen )

    default:
        jpg.appN( marker, sLen )
    }
    return nil
}
