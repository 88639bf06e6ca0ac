package exiftrace

import (
    "bytes"
    "strings"
    "testing"
)

var thumbData = []byte{ 0xff, 0xd8, 0xff, 0xdb, 1, 2, 3, 4, 5, 6, 0xff, 0xd9 }

func thumbPayload( order testOrder, length uint32 ) []byte {
    b := newExifBuilder( order )
    thumb := b.blob( thumbData )
    ifd1 := b.dir( 0,
        b.long( _ThumbnailOffset, thumb ),
        b.long( _ThumbnailLength, length ) )
    ifd0 := b.dir( ifd1, b.ascii( _Make, "Canon" ) )
    b.setFirst( ifd0 )
    return b.payload()
}

func TestThumbnail( t *testing.T ) {
    for _, bo := range bothOrders {
        t.Run( bo.name, func( t *testing.T ) {
            payload := thumbPayload( bo.order, uint32(len(thumbData)) )
            d, err := Decode( payload, nil )
            if err != nil {
                t.Fatalf( "Decode: %v", err )
            }
            th, ok := d.Thumbnail()
            if ! ok {
                t.Fatalf( "no thumbnail" )
            }
            if th.Offset != _originOffset + _headerSize || th.Length != len(thumbData) {
                t.Errorf( "thumbnail %+v", th )
            }
            data := d.ThumbnailData()
            if ! bytes.Equal( data, thumbData ) {
                t.Errorf( "thumbnail data % x", data )
            }
            // a slice of the payload, not a copy
            if &data[0] != &payload[th.Offset] {
                t.Errorf( "thumbnail data is a copy" )
            }
            if ! strings.Contains( d.Trace(), "    Continued Entries [ 2 ] = {\n" ) {
                t.Errorf( "trace:\n%s", d.Trace() )
            }
            if d.LastReferenced() <= th.Offset {
                t.Errorf( "last referenced %d", d.LastReferenced() )
            }
        } )
    }
}

func TestThumbnailRejected( t *testing.T ) {
    tests := []struct {
        name    string
        length  uint32
    }{
        { "zero length", 0 },
        { "beyond payload", 0x10000 },
    }
    for _, tc := range tests {
        t.Run( tc.name, func( t *testing.T ) {
            d, _ := Decode( thumbPayload( bothOrders[0].order, tc.length ), nil )
            if _, ok := d.Thumbnail(); ok {
                t.Errorf( "unexpected thumbnail" )
            }
            if d.ThumbnailData() != nil {
                t.Errorf( "unexpected thumbnail data" )
            }
        } )
    }
}
