package exiftrace

import (
    "bytes"
    "strings"
    "testing"
)

func gpsPayload( order testOrder, entries func( b *exifBuilder ) []testEntry ) []byte {
    b := newExifBuilder( order )
    gps := b.dir( 0, entries( b )... )
    ifd0 := b.dir( 0, b.ascii( _Make, "Canon" ), b.pointer( _GpsIFD, gps ) )
    b.setFirst( ifd0 )
    return b.payload()
}

func TestGPSPosition( t *testing.T ) {
    for _, bo := range bothOrders {
        t.Run( bo.name, func( t *testing.T ) {
            payload := gpsPayload( bo.order, func( b *exifBuilder ) []testEntry {
                return []testEntry{
                    b.ascii( _GPSLatitudeRef, "S" ),
                    b.rational( _GPSLatitude, 33, 1, 51, 1, 3540, 100 ),
                    b.ascii( _GPSLongitudeRef, "E" ),
                    b.rational( _GPSLongitude, 151, 1, 12, 1, 3000, 100 ),
                    b.bytes( _GPSAltitudeRef, 1 ),
                    b.rational( _GPSAltitude, 50, 1 ),
                    b.ascii( _GPSDateStamp, "2021:05:01" ),
                }
            } )
            d, err := Decode( payload, nil )
            if err != nil {
                t.Fatalf( "Decode: %v", err )
            }
            if d.Err() != nil {
                t.Fatalf( "warnings %v", d.Err() )
            }
            g := d.Metadata().GPS
            if g == nil || ! g.HasPosition || ! g.HasAltitude {
                t.Fatalf( "GPS info %+v", g )
            }
            if ! approx( g.Latitude, -33.859833333 ) || ! approx( g.Longitude, 151.208333333 ) {
                t.Errorf( "position %f %f", g.Latitude, g.Longitude )
            }
            if g.Altitude != -50 {
                t.Errorf( "altitude %f", g.Altitude )
            }
            if g.DateStamp != "2021:05:01" {
                t.Errorf( "date stamp %q", g.DateStamp )
            }
            // Metadata returns a copy
            d.Metadata().GPS.Latitude = 0
            if d.Metadata().GPS.Latitude == 0 {
                t.Errorf( "GPS info is shared" )
            }

            var out bytes.Buffer
            d.FormatMetadata( &out )
            if ! strings.Contains( out.String(), "GPS position     : -33.859833, 151.208333, -50.0m\n" ) {
                t.Errorf( "summary:\n%s", out.String() )
            }
        } )
    }
}

func TestGPSTrace( t *testing.T ) {
    payload := gpsPayload( bothOrders[0].order, func( b *exifBuilder ) []testEntry {
        return []testEntry{
            b.bytes( 0x00, 2, 2, 0, 0 ),
            b.ascii( _GPSLatitudeRef, "N" ),
            b.rational( _GPSLatitude, 48, 1, 51, 1, 0, 1 ),
            b.short( 0x0042, 9 ),
        }
    } )
    d, _ := Decode( payload, nil )
    for _, line := range []string{
        "        GPS Info Entries [ 4 ] = {\n",
        "            GPS VersionID [ 4 ] = 02,02,00,00\n",
        "            GPS LatitudeRef = 'N.'\n",
        "            GPS Latitude [ 3 ] = 48/1,51/1,0/1\n",
        "            GPS 0042 = 9\n",
        "        };\n",
    } {
        if ! strings.Contains( d.Trace(), line ) {
            t.Errorf( "trace lacks %q:\n%s", line, d.Trace() )
        }
    }
    // latitude alone is not a position
    if g := d.Metadata().GPS; g == nil || g.HasPosition {
        t.Errorf( "GPS info %+v", g )
    }
}

func TestGPSMalformed( t *testing.T ) {
    b := newExifBuilder( bothOrders[1].order )
    gps := b.dir( 0, b.ascii( _GPSLatitudeRef, "N" ) )
    ifd0 := b.dir( 0, b.pointer( _GpsIFD, gps ) )
    b.setFirst( ifd0 )
    b.patchCount( gps, 0x1000 )

    d, _ := Decode( b.payload(), nil )
    ws := d.Warnings()
    if len(ws) != 1 || ws[0].Kind != DirectoryMalformed || ws[0].Tag != _GpsIFD {
        t.Fatalf( "warnings %v", ws )
    }
    if d.Metadata().GPS != nil {
        t.Errorf( "GPS info from a malformed directory" )
    }

    b = newExifBuilder( bothOrders[1].order )
    ifd0 = b.dir( 0, b.pointer( _GpsIFD, 0x10000 ) )
    b.setFirst( ifd0 )
    d, _ = Decode( b.payload(), nil )
    if d.CountWarnings( EntryMalformed ) != 1 {
        t.Errorf( "warnings %v", d.Warnings() )
    }
}
