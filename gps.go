package exiftrace

import (
    "fmt"
)

// GPSInfo is the position recorded in the GPS directory. Latitude and
// Longitude are signed decimal degrees, negative south and west.
type GPSInfo struct {
    Latitude    float64
    Longitude   float64
    HasPosition bool
    Altitude    float64     // meters, negative below sea level
    HasAltitude bool
    DateStamp   string      `json:",omitempty"`
}

// gpsState collects the GPS values as they are found, since references may
// come after the values they qualify.
type gpsState struct {
    seen        bool
    latRef      byte
    lonRef      byte
    altRef      int
    lat, lon    float64
    alt         float64
    hasLat      bool
    hasLon      bool
    hasAlt      bool
    date        string
}

// degrees converts a degree, minute, second triplet of rationals.
func degrees( v value ) float64 {
    var deg float64
    scale := 1.0
    for i := 0; i < 3 && i < int(v.count); i++ {
        deg += v.floatAt( i ) / scale
        scale *= 60
    }
    return deg
}

func refByte( v value ) byte {
    if len(v.data) == 0 {
        return 0
    }
    return v.data[0]
}

func (d *Desc)extractGPS( tag uint16, v value ) {
    g := &d.gps
    switch tag {
    case _GPSLatitudeRef:
        g.latRef = refByte( v )
    case _GPSLatitude:
        g.lat, g.hasLat = degrees( v ), true
    case _GPSLongitudeRef:
        g.lonRef = refByte( v )
    case _GPSLongitude:
        g.lon, g.hasLon = degrees( v ), true
    case _GPSAltitudeRef:
        g.altRef = int( v.float() )
    case _GPSAltitude:
        g.alt, g.hasAlt = v.float(), true
    case _GPSDateStamp:
        g.date = boundedText( v.data, len(v.data) )
    }
}

func (d *Desc)deriveGPS( ) {
    g := &d.gps
    if ! g.seen {
        return
    }
    info := &GPSInfo{ DateStamp: g.date }
    if g.hasLat && g.hasLon {
        info.HasPosition = true
        info.Latitude, info.Longitude = g.lat, g.lon
        if g.latRef == 'S' {
            info.Latitude = -info.Latitude
        }
        if g.lonRef == 'W' {
            info.Longitude = -info.Longitude
        }
    }
    if g.hasAlt {
        info.HasAltitude = true
        info.Altitude = g.alt
        if g.altRef == 1 {
            info.Altitude = -info.Altitude
        }
    }
    d.meta.GPS = info
}

// walkGPS processes the GPS directory at absolute address start. GPS tags
// never point to other directories, so there is no recursion.
func (d *Desc)walkGPS( start, level int ) {
    if ! d.admit( start ) {
        return
    }
    count, dirEnd, ok := d.directoryEnd( start )
    if ! ok {
        return
    }
    if dirEnd > d.end {
        d.warn( newWarning( DirectoryMalformed, _GpsIFD, FmtNone, start,
                            fmt.Sprintf( "%d GPS entries overrun payload", count ) ) )
        return
    }
    if dirEnd > d.lastRefd {
        d.lastRefd = dirEnd
    }
    d.gps.seen = true

    d.trace.format( "%sGPS Info Entries [ %d ] = {\n", indentation( level ), count )
    for i := 0; i < count; i++ {
        tag, v, ok := d.readEntry( start + 2 + _entrySize * i )
        if ! ok {
            continue
        }
        if end := v.at + len(v.data); end > d.lastRefd {
            d.lastRefd = end
        }
        d.traceTagged( level + 1, "GPS ", gpsTags, tag, v, quoteText )
        d.extractGPS( tag, v )
    }
    d.trace.format( "%s};\n", indentation( level ) )
}
