package exiftrace

import (
    "encoding/binary"
    "math"
)

// testEntry is one directory entry to lay out. When forced is set, offset
// is written as is and data is not stored.
type testEntry struct {
    tag     uint16
    format  Format
    count   uint32
    data    []byte
    offset  uint32
    forced  bool
}

type testOrder interface {
    binary.ByteOrder
    binary.AppendByteOrder
}

// exifBuilder lays out a TIFF structure. Directories must be added children
// first, so that their offsets are known when parents point to them.
type exifBuilder struct {
    order   testOrder
    buf     []byte          // TIFF relative: buf[0] is the byte order mark
}

func newExifBuilder( order testOrder ) *exifBuilder {
    b := &exifBuilder{ order: order }
    if order == testOrder(binary.BigEndian) {
        b.buf = append( b.buf, 'M', 'M' )
    } else {
        b.buf = append( b.buf, 'I', 'I' )
    }
    b.buf = order.AppendUint16( b.buf, _tiffIdentifier )
    b.buf = order.AppendUint32( b.buf, _minFirstOffset )
    return b
}

func (b *exifBuilder)setFirst( offset uint32 ) {
    b.order.PutUint32( b.buf[4:], offset )
}

func (b *exifBuilder)setIdentifier( id uint16 ) {
    b.order.PutUint16( b.buf[2:], id )
}

func (b *exifBuilder)blob( data []byte ) uint32 {
    if len(b.buf) & 1 != 0 {
        b.buf = append( b.buf, 0 )
    }
    off := uint32(len(b.buf))
    b.buf = append( b.buf, data... )
    return off
}

// dir appends a directory followed by its out of line values and returns its
// offset.
func (b *exifBuilder)dir( next uint32, entries ...testEntry ) uint32 {
    if len(b.buf) & 1 != 0 {
        b.buf = append( b.buf, 0 )
    }
    start := len(b.buf)
    valueAt := start + 2 + _entrySize * len(entries) + _linkSize
    b.buf = append( b.buf, make( []byte, valueAt - start )... )

    b.order.PutUint16( b.buf[start:], uint16(len(entries)) )
    for i, e := range entries {
        p := b.buf[start + 2 + _entrySize * i:]
        b.order.PutUint16( p, e.tag )
        b.order.PutUint16( p[2:], uint16(e.format) )
        b.order.PutUint32( p[4:], e.count )
        switch {
        case e.forced:
            b.order.PutUint32( p[8:], e.offset )
        case len(e.data) <= 4:
            copy( p[8:12], e.data )
        default:
            // blob may move b.buf, p must not be used after it
            off := b.blob( e.data )
            b.order.PutUint32( b.buf[start + 2 + _entrySize * i + 8:], off )
        }
    }
    b.order.PutUint32( b.buf[valueAt-_linkSize:], next )
    return uint32(start)
}

// patchCount overwrites the entry count of the directory at offset.
func (b *exifBuilder)patchCount( offset uint32, count uint16 ) {
    b.order.PutUint16( b.buf[offset:], count )
}

func (b *exifBuilder)length( ) uint32 {
    return uint32(len(b.buf))
}

func (b *exifBuilder)payload( ) []byte {
    return append( []byte(_exifMarker), b.buf... )
}

func (b *exifBuilder)ascii( tag uint16, s string ) testEntry {
    return testEntry{ tag: tag, format: FmtString, count: uint32(len(s)+1),
                      data: append( []byte(s), 0 ) }
}

func (b *exifBuilder)undefined( tag uint16, data []byte ) testEntry {
    return testEntry{ tag: tag, format: FmtUndefined, count: uint32(len(data)),
                      data: data }
}

func (b *exifBuilder)bytes( tag uint16, vs ...byte ) testEntry {
    return testEntry{ tag: tag, format: FmtByte, count: uint32(len(vs)),
                      data: vs }
}

func (b *exifBuilder)short( tag uint16, vs ...uint16 ) testEntry {
    var data []byte
    for _, v := range vs {
        data = b.order.AppendUint16( data, v )
    }
    return testEntry{ tag: tag, format: FmtUShort, count: uint32(len(vs)),
                      data: data }
}

func (b *exifBuilder)long( tag uint16, vs ...uint32 ) testEntry {
    var data []byte
    for _, v := range vs {
        data = b.order.AppendUint32( data, v )
    }
    return testEntry{ tag: tag, format: FmtULong, count: uint32(len(vs)),
                      data: data }
}

// rational takes numerator, denominator pairs.
func (b *exifBuilder)rational( tag uint16, nds ...uint32 ) testEntry {
    var data []byte
    for _, v := range nds {
        data = b.order.AppendUint32( data, v )
    }
    return testEntry{ tag: tag, format: FmtURational, count: uint32(len(nds)/2),
                      data: data }
}

func (b *exifBuilder)double( tag uint16, v float64 ) testEntry {
    data := b.order.AppendUint64( nil, math.Float64bits( v ) )
    return testEntry{ tag: tag, format: FmtDouble, count: 1, data: data }
}

// pointer returns an entry holding the offset of a sub-directory.
func (b *exifBuilder)pointer( tag uint16, offset uint32 ) testEntry {
    return b.long( tag, offset )
}

func forcedOffset( e testEntry, offset uint32 ) testEntry {
    e.forced, e.offset = true, offset
    return e
}

// bothOrders runs a builder based test for each byte order.
var bothOrders = []struct {
    name    string
    order   testOrder
}{
    { "Intel", binary.LittleEndian },
    { "Motorola", binary.BigEndian },
}

func approx( a, b float64 ) bool {
    return math.Abs( a - b ) <= 1e-6 * math.Max( 1, math.Abs( b ) )
}
