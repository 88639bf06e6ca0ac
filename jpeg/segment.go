package jpeg

import (
    "fmt"
    "io"
)

const (
    _fixedFrameHeaderSize   = 8     // length, precision, lines, samples, n components
    _frameComponentSpecSize = 3
)

// Component is one image component as defined in the frame header.
type Component struct {
    Id, HSF, VSF, QS uint8
}

// Frame is the frame header (SOFn) preceding the first scan.
type Frame struct {
    Marker          uint
    Precision       uint8       // bits per sample
    Lines           uint16      // 0 if defined later by DNL
    SamplesPerLine  uint16
    Components      []Component
}

// Encoding returns the frame encoding process, from its SOFn marker.
func (f *Frame)Encoding( ) string {
    return getJPEGmarkerName( f.Marker )
}

func (f *Frame)format( w io.Writer ) (int, error) {
    cw := newCumulativeWriter( w )
    cw.format( "Frame %s:\n", f.Encoding() )
    cw.format( "  Lines: %d, Samples/Line: %d, sample precision: %d-bit, components: %d\n",
               f.Lines, f.SamplesPerLine, f.Precision, len(f.Components) )
    for i, c := range f.Components {
        cw.format( "    Component #%d Id %d Sampling factors H:V=%d:%d, Quantization selector %d\n",
                   i, c.Id, c.HSF, c.VSF, c.QS )
    }
    return cw.result()
}

func (jpg *Desc) startOfFrame( marker uint, sLen uint ) error {

    if jpg.state != _FRAME && jpg.state != _APPLICATION {
        return fmt.Errorf( "startOfFrame: Wrong sequence %s in state %s",
                           getJPEGmarkerName(marker), jpg.getJPEGStateName() )
    }
    if sLen < _fixedFrameHeaderSize {
        return fmt.Errorf( "startOfFrame: Wrong SOF%d header (len %d)", marker & 0x0f, sLen )
    }
    data := jpg.segmentData( sLen )
    nComponents := uint(data[5])
    if sLen < _fixedFrameHeaderSize + (nComponents * _frameComponentSpecSize) {
        return fmt.Errorf( "startOfFrame: Wrong SOF%d header (len %d for %d components)",
                           marker & 0x0f, sLen, nComponents )
    }

    frm := &Frame{ Marker: marker, Precision: data[0],
                   Lines: uint16(data[1]) << 8 + uint16(data[2]),
                   SamplesPerLine: uint16(data[3]) << 8 + uint16(data[4]) }
    offset := uint(6)
    for i := uint(0); i < nComponents; i++ {
        hSF := data[offset+1]
        frm.Components = append( frm.Components,
                                 Component{ data[offset], hSF >> 4, hSF & 0x0f,
                                            data[offset+2] } )
        offset += _frameComponentSpecSize
    }

    jpg.frame = frm
    jpg.state = _SCAN
    jpg.addSeg( frm, marker, sLen )
    return nil
}

// -------------- comment segment

type comSeg struct {
    text    []byte
}

func (c *comSeg)format( w io.Writer ) (n int, err error) {
    n, err = fmt.Fprintf( w, "Comment:\n  \"%s\"\n", string(c.text) )
    if err != nil { err = fmt.Errorf( "format: %w", err ) }
    return
}

func (jpg *Desc)commentSegment( marker, sLen uint ) {
    c := &comSeg{ text: jpg.segmentData( sLen ) }
    jpg.comments = append( jpg.comments, string(c.text) )
    jpg.addSeg( c, marker, sLen )
}
