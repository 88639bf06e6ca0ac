// Command exiftrace prints the EXIF trace and metadata of image files.
//
//  exiftrace [flags] file...
//
// Each file may be a JPEG file, any file holding a TIFF structure, or a raw
// Exif payload starting with "Exif\0\0".
package main

import (
    "encoding/json"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "os"

    "github.com/jrm-1535/exiftrace"
    "github.com/jrm-1535/exiftrace/internal/crosscheck"
    "github.com/jrm-1535/exiftrace/internal/locate"
    "github.com/jrm-1535/exiftrace/jpeg"
)

type options struct {
    quiet       bool
    json        bool
    markers     bool
    thumb       string
    check       bool
    ref         bool
    loops       bool
    maxDirs     int
    verbose     bool
}

func parseArgs( args []string, stderr io.Writer ) (*options, []string, error) {
    opts := new( options )
    fs := flag.NewFlagSet( "exiftrace", flag.ContinueOnError )
    fs.SetOutput( stderr )
    fs.BoolVar( &opts.quiet, "q", false, "do not print the trace" )
    fs.BoolVar( &opts.json, "json", false, "print metadata as JSON" )
    fs.BoolVar( &opts.markers, "markers", false, "print JPEG markers" )
    fs.StringVar( &opts.thumb, "thumb", "", "write the thumbnail to `path`" )
    fs.BoolVar( &opts.check, "check", false, "compare with reference decoders" )
    fs.BoolVar( &opts.ref, "ref", false, "print the reference decoder description" )
    fs.BoolVar( &opts.loops, "loops", false, "skip directories already visited" )
    fs.IntVar( &opts.maxDirs, "max-dirs", 0, "maximum number of directories (0 for default)" )
    fs.BoolVar( &opts.verbose, "v", false, "verbose logging" )
    fs.Usage = func( ) {
        fmt.Fprintf( fs.Output(), "usage: exiftrace [flags] file...\n" )
        fs.PrintDefaults()
    }
    if err := fs.Parse( args ); err != nil {
        return nil, nil, err
    }
    if fs.NArg() == 0 {
        fs.Usage()
        return nil, nil, fmt.Errorf( "no file given" )
    }
    if opts.thumb != "" && fs.NArg() > 1 {
        return nil, nil, fmt.Errorf( "-thumb requires a single file" )
    }
    return opts, fs.Args(), nil
}

type jsonReport struct {
    File        string
    Source      string
    ByteOrder   string
    Metadata    exiftrace.Metadata
    Thumbnail   *exiftrace.Thumbnail    `json:",omitempty"`
    Warnings    []string                `json:",omitempty"`
}

type tracer struct {
    *options
    stdout      io.Writer
    logger      *slog.Logger
}

func (t *tracer) file( path string ) error {
    data, err := os.ReadFile( path )
    if err != nil {
        return err
    }
    jc := &jpeg.Control{ Warn: true, Markers: t.markers, Out: t.stdout,
                         Logger: t.logger }
    payload, source, err := locate.Exif( data, jc )
    if err != nil {
        return err
    }
    t.logger.Debug( "exif payload", "file", path, "source", source.String(),
                    "length", len(payload) )

    ctl := &exiftrace.Control{ Warn: t.verbose, Logger: t.logger,
                               DetectLoops: t.loops, MaxDirectories: t.maxDirs }
    if ! t.quiet && ! t.json {
        ctl.Sink = t.stdout
    }
    d, err := exiftrace.Decode( payload, ctl )
    if err != nil {
        return err
    }

    if t.json {
        err = t.printJSON( path, source, d )
    } else {
        err = t.printText( d )
    }
    if err != nil {
        return err
    }
    if t.thumb != "" {
        if err = writeThumbnail( t.thumb, d ); err != nil {
            return err
        }
    }
    if t.ref {
        if err = crosscheck.Reference( t.stdout, payload ); err != nil {
            t.logger.Warn( "reference decoder failed", "file", path, "error", err )
        }
    }
    if t.check {
        r, err := crosscheck.Run( data, payload, d )
        if err != nil {
            return err
        }
        if _, err = r.Format( t.stdout ); err != nil {
            return err
        }
    }
    return nil
}

func (t *tracer) printJSON( path string, source locate.Source, d *exiftrace.Desc ) error {
    r := jsonReport{ File: path, Source: source.String(),
                     ByteOrder: d.ByteOrder().String(), Metadata: d.Metadata() }
    if th, ok := d.Thumbnail(); ok {
        r.Thumbnail = &th
    }
    for _, w := range d.Warnings() {
        r.Warnings = append( r.Warnings, w.Error() )
    }
    enc := json.NewEncoder( t.stdout )
    enc.SetIndent( "", "  " )
    return enc.Encode( r )
}

func (t *tracer) printText( d *exiftrace.Desc ) error {
    ws := d.Warnings()
    if len(ws) > 0 {
        if _, err := fmt.Fprintf( t.stdout, "%d warnings:\n", len(ws) ); err != nil {
            return err
        }
        for _, w := range ws {
            if _, err := fmt.Fprintf( t.stdout, "  %v\n", &w ); err != nil {
                return err
            }
        }
    }
    _, err := d.FormatMetadata( t.stdout )
    return err
}

func writeThumbnail( path string, d *exiftrace.Desc ) error {
    data := d.ThumbnailData()
    if data == nil {
        return fmt.Errorf( "writeThumbnail: no thumbnail" )
    }
    if err := os.WriteFile( path, data, 0644 ); err != nil {
        return fmt.Errorf( "writeThumbnail: %w", err )
    }
    return nil
}

func run( args []string, stdout, stderr io.Writer ) int {
    opts, files, err := parseArgs( args, stderr )
    if err != nil {
        if err != flag.ErrHelp {
            fmt.Fprintf( stderr, "exiftrace: %v\n", err )
        }
        return 2
    }
    level := slog.LevelWarn
    if opts.verbose {
        level = slog.LevelDebug
    }
    t := &tracer{ options: opts, stdout: stdout,
                  logger: slog.New( slog.NewTextHandler( stderr,
                                      &slog.HandlerOptions{ Level: level } ) ) }
    status := 0
    for _, path := range files {
        if err := t.file( path ); err != nil {
            t.logger.Error( "failed", "file", path, "error", err )
            status = 1
        }
    }
    return status
}

func main() {
    os.Exit( run( os.Args[1:], os.Stdout, os.Stderr ) )
}
