// Package jpeg scans the segments of a JPEG file, from SOI to the first scan,
// in order to find the metadata it carries: JFIF, Exif, XMP and comments.
// The entropy-coded image data is never decoded.
package jpeg

import (
    "errors"
    "fmt"
    "io"
    "log/slog"
    "os"
)

/*  ISO/IEC 10918-1:1993 defines JPEG document structure:

A JPEG document must start with 0xffd8 (Start Of Image) and end with 0xffd9
(End Of Image):
    0xffd8 <JPEG data> 0xffd9

    SOI <optional tables> SOFn <optional tables><frame> EOI

        Optional tables may appear immediately after SOI or immediately after
        frame header SOFn. They are:
            Application data (APP0 to APP15): ususally APP0 for JFIF, APP1 for
            Exif or XMP, none required in a minimum JPEG file.
            Quantization Table (DQT), Huffman Table (DHT), Arithmetic Coding
            Table (DAC), Define Restart Interval (DRI), Comment (COM).

        Each segment but SOI, EOI and RSTn is made of a 2-byte marker, a 2-byte
        big endian length (including itself, not the marker) and data.

    All metadata precede the first Start Of Scan (SOS), after which the
    entropy-coded data follows. Scanning stops there.
*/

const (                         // JPEG parsing state
    _INIT = iota                // expecting SOI
    _APPLICATION                // from _INIT after SOI, expecting APPn
    _FRAME                      // from _APPLICATION after any other table
    _SCAN                       // from _FRAME after SOFn, expecting tables or SOS
    _FINAL                      // after SOS or EOI
)

/* State transitions
 _INIT        -> _APPLICATION   transition on SOI
 _APPLICATION -> _FRAME         transition on any table other than APPn
 _FRAME       -> _SCAN          transition on SOFn
 _SCAN        -> _FINAL         transition on SOS
 any          -> _FINAL         transition on EOI
*/

var stateNames = [...]string {
    "initial", "application", "frame", "scan", "final" }

func (jpg *Desc) getJPEGStateName( ) string {
    if jpg.state > _FINAL {
        return "Unknown state"
    }
    return stateNames[ jpg.state ]
}

const (                 // JPEG Marker Definitions

    _TEM   = 0xff01     // Temporary use in arithmetic coding

    _SOF0  = 0xffc0     // Start Of Frame Huffman-coding frames (Baseline DCT)
    _SOF1  = 0xffc1     // Start Of Frame Huffman-coding frames (Extended Sequential DCT)
    _SOF2  = 0xffc2     // Start Of Frame Huffman-coding frames (Progressive DCT)
    _SOF3  = 0xffc3     // Start Of Frame Huffman-coding frames (Lossless / sequential)
    _DHT   = 0xffc4     // Define Huffman Table
    _SOF5  = 0xffc5     // Start Of Frame Differential Huffman-coding frames (Sequential DCT)
    _SOF6  = 0xffc6     // Start Of Frame Differential Huffman-coding frames (Progressive DCT)
    _SOF7  = 0xffc7     // Start Of Frame Differential Huffman-coding frames (Lossless)
    _JPG   = 0xffc8     // Reserved for JPEG extensions
    _SOF9  = 0xffc9     // Start Of Frame Arithmetic-coding frames (Extended sequential DCT)
    _SOF10 = 0xffca     // Start Of Frame Arithmetic-coding frames (Progressive DCT)
    _SOF11 = 0xffcb     // Start Of Frame Arithmetic-coding frames (Lossless / sequential)
    _DAC   = 0xffcc     // Define Arithmetic Coding Table
    _SOF13 = 0xffcd     // Start Of Frame Differential Arithmetic-coding frames (Sequential DCT)
    _SOF14 = 0xffce     // Start Of Frame Differential Arithmetic-coding frames (Progressive DCT)
    _SOF15 = 0xffcf     // Start Of Frame Differential Arithmetic-coding frames (Lossless)

    _RST0  = 0xffd0     // ReStarT #0
    _RST7  = 0xffd7     // ReStarT #7
    _SOI   = 0xffd8     // Start Of Image
    _EOI   = 0xffd9     // End Of Image
    _SOS   = 0xffda     // Start Of Scan
    _DQT   = 0xffdb     // Define Quantization Table
    _DNL   = 0xffdc     // Define Number of lines
    _DRI   = 0xffdd     // Define Restart Interval
    _DHP   = 0xffde     // Define Hierarchical Progression
    _EXP   = 0xffdf     // Expand reference image

    _APP0  = 0xffe0     // Application Vendor Specific #0 (JFIF)
    _APP1  = 0xffe1     // Application Vendor Specific #1 (Exif, XMP)
    _APP15 = 0xffef     // Application Vendor Specific #15

    _COM   = 0xfffe     // Comment (text)
)

var markerNames = [...]string {
    "SOF0 Baseline DCT",
    "SOF1 Extended Sequential DCT",
    "SOF2 Progressive DCT",
    "SOF3 Lossless",
    "DHT Define Huffman Table",
    "SOF5 Differential Sequential DCT",
    "SOF6 Differential Progressive DCT",
    "SOF7 Differential Lossless",
    "JPG Reserved for JPEG extensions",
    "SOF9 Arithmetic Extended Sequential DCT",
    "SOF10 Arithmetic Progressive DCT",
    "SOF11 Arithmetic Lossless",
    "DAC Define Arithmetic Coding Table",
    "SOF13 Differential Arithmetic Sequential DCT",
    "SOF14 Differential Arithmetic Progressive DCT",
    "SOF15 Differential Arithmetic Lossless",

    "RST0 ReStarT #0", "RST1 ReStarT #1", "RST2 ReStarT #2", "RST3 ReStarT #3",
    "RST4 ReStarT #4", "RST5 ReStarT #5", "RST6 ReStarT #6", "RST7 ReStarT #7",
    "SOI Start Of Image",
    "EOI End Of Image",
    "SOS Start Of Scan",
    "DQT Define Quantization Table",
    "DNL Define Number of lines",
    "DRI Define Restart Interval",
    "DHP Define Hierarchical Progression",
    "EXP Expand reference image",

    "APP0 (JFIF)",
    "APP1 (Exif, XMP)",
    "APP2 (ICC)",
    "APP3 (META)",
    "APP4", "APP5", "APP6", "APP7", "APP8", "APP9", "APP10", "APP11",
    "APP12 (Picture Info, Ducky)",
    "APP13 (Photoshop IRB)",
    "APP14 (Adobe)",
    "APP15",

    "RES0", "RES1", "RES2", "RES3", "RES4", "RES5", "RES6",
    "RES7", "RES8", "RES9", "RES10", "RES11", "RES12", "RES13",

    "COM Comment",
}

func getJPEGmarkerName( marker uint ) string {
    if marker == _TEM { return "TEM Temporary use in arithmetic coding" }
    if marker < _SOF0 || marker > _COM { return "RES Reserved Marker" }

    return markerNames[ marker - _SOF0 ]
}

func isMarkerSOFn( marker uint ) bool {
    if marker < _SOF0 || marker > _SOF15 { return false }
    if marker == _DHT || marker == _JPG || marker == _DAC { return false }
    return true
}

// ErrNoExif is returned by Desc.Exif when the file has no Exif APP1 segment.
var ErrNoExif = errors.New( "jpeg: no Exif APP1 segment" )

func jpgForwardError( prefix string, err error ) error {
    return fmt.Errorf( prefix + ": %w", err )
}

// Control defines how parsing is done and reported.
type Control struct {
    Warn        bool            // warn about inconsistencies as they are seen
    Markers     bool            // show JPEG markers as they are parsed
    Out         io.Writer       // marker output, os.Stdout if nil
    Logger      *slog.Logger    // warning logger, slog.Default() if nil
}

// Segment describes one segment as found in the file. Offset is the marker
// offset and Length the segment length following the marker.
type Segment struct {
    Marker      uint
    Name        string
    Offset      uint
    Length      uint
}

type segmenter interface {
    format( w io.Writer ) (int, error)
}

// cumulative formatted writer
type cumulativeWriter struct {
    w       io.Writer
    count   int
    err     error
}
func newCumulativeWriter( w io.Writer ) *cumulativeWriter {
    cw := new( cumulativeWriter )
    cw.w = w
    return cw
}
func (cw *cumulativeWriter)format( f string, a ...interface{} ) {
    if cw.err != nil {
        return
    }
    n, err := fmt.Fprintf( cw.w, f, a... )
    cw.err = err
    cw.count += n
}
func (cw *cumulativeWriter)result( ) (int, error) {
    return cw.count, cw.err
}

// Desc is the result of scanning a JPEG file
type Desc struct {
    data            []byte      // raw data file
    offset          uint        // current offset in raw data file
    state           int         // INIT, APPLICATION, FRAME, SCAN, FINAL
    app0Extension   bool        // APP0 followed by APP0 extension

    segments        []segmenter // segments in order they have occured
    found           []Segment

    jfif            *JFIF
    frame           *Frame
    exif            []byte      // first Exif payload, from "Exif\0\0"
    xmp             []byte      // first XMP packet
    comments        []string

                    Control     // what to print during parsing
}

func (jpg *Desc)addSeg( seg segmenter, marker, sLen uint ) {
    if seg != nil {
        jpg.segments = append( jpg.segments, seg )
    }
    jpg.found = append( jpg.found, Segment{ marker, getJPEGmarkerName( marker ),
                                            jpg.offset, sLen } )
}

func (jpg *Desc)printMarker( marker, sLen, offset uint ) {
    if jpg.Markers {
        out := jpg.Out
        if out == nil {
            out = os.Stdout
        }
        fmt.Fprintf( out, "Marker 0x%x, len %d, offset 0x%x (%s)\n",
                     marker, sLen, offset, getJPEGmarkerName(marker) )
    }
}

func (jpg *Desc)warn( msg string, args ...any ) {
    if jpg.Warn {
        logger := jpg.Logger
        if logger == nil {
            logger = slog.Default()
        }
        logger.Warn( msg, args... )
    }
}

// segmentData returns the data following the marker and length of the
// segment at the current offset.
func (jpg *Desc)segmentData( sLen uint ) []byte {
    return jpg.data[jpg.offset+4:jpg.offset+2+sLen]
}

// Parse scans jpeg data from SOI to the first SOS and records the segments
// found on the way.
//
// It returns a tuple: a pointer to a Desc containing segment definitions and
// an error. In all cases, nil error or not, the returned Desc is usable (but
// wont be complete in case of error).
func Parse( data []byte, toDo *Control ) ( *Desc, error ) {

    jpg := new( Desc )   // initially in INIT state (0)
    if toDo != nil {
        jpg.Control = *toDo
    }
    jpg.data = data

    if len(data) < 4 || data[0] != 0xff || data[1] != 0xd8 {
        return jpg, fmt.Errorf( "Parse: Wrong signature for a JPEG file" )
    }

    tLen := uint(len(data))
markerLoop:
    for i := uint(0); i < tLen; {
        if i + 2 > tLen {
            return jpg, fmt.Errorf( "Parse: truncated marker at offset 0x%x", i )
        }
        marker := uint(data[i]) << 8 + uint(data[i+1])
        sLen := uint(0)       // case of a segment without any data
        jpg.offset = i

        if marker == 0xffff {
            i++             // fill byte
            continue
        }
        if marker < _TEM {
            return jpg, fmt.Errorf( "Parse: invalid marker 0x%x at offset 0x%x",
                                    marker, i )
        }

        switch marker {

        case _SOI:            // no data, no length
            jpg.printMarker( marker, sLen, i )
            if jpg.state != _INIT {
                return jpg, fmt.Errorf( "Parse: Wrong sequence %s in state %s",
                                        getJPEGmarkerName(marker), jpg.getJPEGStateName() )
            }
            jpg.addSeg( nil, marker, sLen )
            jpg.state = _APPLICATION
            i += 2
            continue

        case _EOI:
            jpg.printMarker( marker, sLen, i )
            jpg.addSeg( nil, marker, sLen )
            jpg.state = _FINAL
            break markerLoop

        case _RST0, _RST0+1, _RST0+2, _RST0+3, _RST0+4, _RST0+5, _RST0+6, _RST7:
            jpg.printMarker( marker, sLen, i )
            return jpg, fmt.Errorf( "Parse: Marker %s should not happen in top level segments",
                                    getJPEGmarkerName(marker) )
        }

        if jpg.state == _INIT {
            return jpg, fmt.Errorf( "Parse: %s before SOI", getJPEGmarkerName(marker) )
        }
        // all other cases have data following marker & length
        if i + 4 > tLen {
            return jpg, fmt.Errorf( "Parse: truncated %s segment", getJPEGmarkerName(marker) )
        }
        sLen = uint(data[i+2]) << 8 + uint(data[i+3])
        jpg.printMarker( marker, sLen, i )
        if sLen < 2 || i + 2 + sLen > tLen {
            return jpg, fmt.Errorf( "Parse: %s segment length %d beyond end of data",
                                    getJPEGmarkerName(marker), sLen )
        }

        transitionToFrame := true
        var err error
        switch {
        case marker == _APP0:
            err = jpg.app0( marker, sLen )
            transitionToFrame = false
        case marker == _APP1:
            err = jpg.app1( marker, sLen )
            transitionToFrame = false
        case marker > _APP1 && marker <= _APP15:
            jpg.appN( marker, sLen )
            transitionToFrame = false

        case isMarkerSOFn( marker ):
            err = jpg.startOfFrame( marker, sLen )

        case marker == _SOS:
            jpg.addSeg( nil, marker, sLen )
            jpg.state = _FINAL
            break markerLoop

        case marker == _COM:
            jpg.commentSegment( marker, sLen )
            transitionToFrame = false

        case marker == _DHT, marker == _DQT, marker == _DAC, marker == _DRI,
             marker == _DNL, marker == _DHP, marker == _EXP:
            jpg.addSeg( nil, marker, sLen )

        default:    // All JPEG extensions and reserved markers (_JPG, _TEM, _RESn)
            jpg.warn( "jpeg: unexpected marker", "marker", getJPEGmarkerName(marker),
                      "offset", i )
            jpg.addSeg( nil, marker, sLen )
        }
        if err != nil { return jpg, jpgForwardError( "Parse", err ) }
        if jpg.state == _APPLICATION && transitionToFrame {
            jpg.state = _FRAME
        }
        i += sLen + 2
    }
    return jpg, nil
}

// Exif returns the first Exif payload, starting with its "Exif\0\0" marker.
// It is a slice of the data given to Parse.
func (jpg *Desc) Exif( ) ([]byte, error) {
    if jpg.exif == nil {
        return nil, ErrNoExif
    }
    return jpg.exif, nil
}

// JFIF returns the JFIF header, if the file starts with one.
func (jpg *Desc) JFIF( ) (*JFIF, bool) {
    return jpg.jfif, jpg.jfif != nil
}

// Frame returns the first frame header, if it was reached.
func (jpg *Desc) Frame( ) (*Frame, bool) {
    return jpg.frame, jpg.frame != nil
}

// Comments returns the text of all COM segments.
func (jpg *Desc) Comments( ) []string {
    return jpg.comments
}

// HasXMP returns true if an XMP packet was found in an APP1 segment.
func (jpg *Desc) HasXMP( ) bool {
    return jpg.xmp != nil
}

// XMP returns the first XMP packet, or nil.
func (jpg *Desc) XMP( ) []byte {
    return jpg.xmp
}

// Segments returns all segments in the order they were found.
func (jpg *Desc) Segments( ) []Segment {
    return jpg.found
}

// FormatSegments prints out the segments carrying metadata.
func (jpg *Desc) FormatSegments( w io.Writer ) (n int, err error) {
    var np int
    for _, s := range jpg.segments {
        np, err = s.format( w )
        n += np
        if err != nil {
            return
        }
    }
    return
}

/*
    Read reads a JPEG file in memory, and parses its content. The argument path
    is the existing file path. The argument toDo provides information about how
    to report parsing.

    It returns a tuple: a pointer to a Desc containing the segment
    definitions and an error. If the file cannot be read the returned Desc
    is nil.
*/
func Read( path string, toDo *Control ) ( *Desc, error ) {
    data, err := os.ReadFile( path )
    if err != nil {
        return nil, fmt.Errorf( "Read: Unable to read file %s: %w", path, err )
    }
    return Parse( data, toDo )
}
