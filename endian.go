package exiftrace

import (
    "encoding/binary"
)

// reader gives bounds-checked, byte order aware access to the payload.
// Addresses are absolute indexes into data, never pointers.
type reader struct {
    data    []byte
    order   binary.ByteOrder
}

func (r *reader)inBounds( at, size int ) bool {
    return at >= 0 && size >= 0 && at <= len(r.data) && size <= len(r.data) - at
}

func (r *reader)u16( at int ) (uint16, bool) {
    if ! r.inBounds( at, 2 ) {
        return 0, false
    }
    return r.order.Uint16( r.data[at:] ), true
}

func (r *reader)u32( at int ) (uint32, bool) {
    if ! r.inBounds( at, 4 ) {
        return 0, false
    }
    return r.order.Uint32( r.data[at:] ), true
}

func (r *reader)bytes( at, size int ) ([]byte, bool) {
    if ! r.inBounds( at, size ) {
        return nil, false
    }
    return r.data[at:at+size:at+size], true
}

func getByteOrderName( order binary.ByteOrder ) string {
    if order == binary.BigEndian {
        return "Motorola"
    }
    return "Intel"
}
