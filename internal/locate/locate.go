// Package locate finds the Exif payload in an image file.
package locate

import (
    "bytes"
    "errors"
    "fmt"

    exif "github.com/dsoprea/go-exif/v3"

    "github.com/jrm-1535/exiftrace/jpeg"
)

// Source tells where a payload was found.
type Source int
const (
    Passthrough Source = iota       // the data was already an Exif payload
    JPEG                            // APP1 segment of a JPEG file
    Search                          // TIFF header found by scanning the data
)

func (s Source) String( ) string {
    switch s {
    case Passthrough: return "exif"
    case JPEG:        return "jpeg"
    case Search:      return "search"
    }
    return fmt.Sprintf( "source(%d)", int(s) )
}

// ErrNotFound is returned when the data holds no Exif payload. It wraps the
// error given by the container parser, either jpeg.ErrNoExif or the
// dsoprea ErrNoExif.
var ErrNotFound = errors.New( "locate: no Exif payload" )

var exifMarker = []byte( "Exif\x00\x00" )

type notFound struct {
    cause   error
}

func (e *notFound) Error( ) string {
    return ErrNotFound.Error() + ": " + e.cause.Error()
}

func (e *notFound) Is( target error ) bool {
    return target == ErrNotFound
}

func (e *notFound) Unwrap( ) error {
    return e.cause
}

// Exif returns the Exif payload found in data, starting with the 6-byte
// "Exif\0\0" marker. For JPEG files the payload is a slice of data, it is a
// new buffer otherwise.
//
// A JPEG file that cannot be parsed completely still yields its Exif payload
// if the APP1 segment was seen before the error.
func Exif( data []byte, ctl *jpeg.Control ) (payload []byte, source Source, err error) {
    if bytes.HasPrefix( data, exifMarker ) {
        return data, Passthrough, nil
    }
    if len(data) >= 2 && data[0] == 0xff && data[1] == 0xd8 {
        return fromJPEG( data, ctl )
    }
    return search( data )
}

func fromJPEG( data []byte, ctl *jpeg.Control ) ([]byte, Source, error) {
    jpg, perr := jpeg.Parse( data, ctl )
    payload, err := jpg.Exif()
    if err == nil {
        return payload, JPEG, nil
    }
    if perr != nil {
        return nil, JPEG, fmt.Errorf( "Exif: %w", perr )
    }
    return nil, JPEG, &notFound{ err }
}

func search( data []byte ) (payload []byte, source Source, err error) {
    defer func( ) {
        if r := recover(); r != nil {
            payload, source = nil, Search
            err = fmt.Errorf( "Exif: search failed: %v", r )
        }
    }()
    raw, err := exif.SearchAndExtractExif( data )
    if err != nil {
        if errors.Is( err, exif.ErrNoExif ) {
            return nil, Search, &notFound{ err }
        }
        return nil, Search, fmt.Errorf( "Exif: %w", err )
    }
    payload = make( []byte, 0, len(exifMarker) + len(raw) )
    payload = append( payload, exifMarker... )
    payload = append( payload, raw... )
    return payload, Search, nil
}
