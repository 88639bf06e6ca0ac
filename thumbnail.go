package exiftrace

// setThumbnail records the thumbnail found in one directory, if both its
// offset and length were given and it fits in the payload.
func (d *Desc)setThumbnail( offset, length uint32 ) {
    if offset == 0 || length == 0 {
        return
    }
    if uint64(offset) + uint64(length) > uint64(d.length()) {
        return
    }
    d.thumb = Thumbnail{ Offset: d.base + int(offset), Length: int(length) }
    d.hasThumb = true
}

// Thumbnail returns the location of the embedded thumbnail in the payload,
// and false if there is none.
func (d *Desc)Thumbnail( ) (Thumbnail, bool) {
    return d.thumb, d.hasThumb
}

// ThumbnailData returns the thumbnail bytes as a slice of the payload given
// to Decode (not a copy), or nil if there is no thumbnail.
func (d *Desc)ThumbnailData( ) []byte {
    if ! d.hasThumb {
        return nil
    }
    b, _ := d.bytes( d.thumb.Offset, d.thumb.Length )
    return b
}
