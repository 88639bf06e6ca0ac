package exiftrace

// Tags with a specific role during the walk or in metadata extraction
const (
    _XResolution                = 0x011a
    _YResolution                = 0x011b
    _ResolutionUnit             = 0x0128
    _Make                       = 0x010f
    _Model                      = 0x0110
    _Orientation                = 0x0112
    _DateTime                   = 0x0132
    _ThumbnailOffset            = 0x0201    // JPEGInterchangeFormat
    _ThumbnailLength            = 0x0202    // JPEGInterchangeFormatLength
    _ExposureTime               = 0x829a
    _FNumber                    = 0x829d
    _ExifIFD                    = 0x8769
    _ExposureProgram            = 0x8822
    _GpsIFD                     = 0x8825
    _ISOSpeedRatings            = 0x8827
    _DateTimeOriginal           = 0x9003
    _DateTimeDigitized          = 0x9004
    _ShutterSpeedValue          = 0x9201
    _ApertureValue              = 0x9202
    _ExposureBiasValue          = 0x9204
    _MaxApertureValue           = 0x9205
    _SubjectDistance            = 0x9206
    _MeteringMode               = 0x9207
    _LightSource                = 0x9208
    _Flash                      = 0x9209
    _FocalLength                = 0x920a
    _MakerNote                  = 0x927c
    _UserComment                = 0x9286
    _ExifImageWidth             = 0xa002
    _ExifImageLength            = 0xa003
    _InteropIFD                 = 0xa005
    _FocalPlaneXResolution      = 0xa20e
    _FocalPlaneResolutionUnit   = 0xa210
    _ExposureIndex              = 0xa215
    _WhiteBalance               = 0xa403
    _FocalLengthIn35mmFilm      = 0xa405
)

// GPS tags, in their own namespace
const (
    _GPSLatitudeRef             = 0x01
    _GPSLatitude                = 0x02
    _GPSLongitudeRef            = 0x03
    _GPSLongitude               = 0x04
    _GPSAltitudeRef             = 0x05
    _GPSAltitude                = 0x06
    _GPSDateStamp               = 0x1d
)

type tagName struct {
    code    uint16
    name    string
}

// tagTable is an ordered name table for one tag namespace.
type tagTable struct {
    names   []tagName
    index   map[uint16]string
}

func newTagTable( names []tagName ) *tagTable {
    t := &tagTable{ names: names, index: make( map[uint16]string, len(names) ) }
    for _, tn := range names {
        if _, dup := t.index[tn.code]; ! dup {
            t.index[tn.code] = tn.name
        }
    }
    return t
}

func (t *tagTable)lookup( code uint16 ) (string, bool) {
    name, ok := t.index[code]
    return name, ok
}

var exifTags = newTagTable( []tagName{
    { 0x0001, "InteropIndex" },
    { 0x0002, "InteropVersion" },
    { 0x0100, "ImageWidth" },
    { 0x0101, "ImageLength" },
    { 0x0102, "BitsPerSample" },
    { 0x0103, "Compression" },
    { 0x0106, "PhotometricInterpretation" },
    { 0x010a, "FillOrder" },
    { 0x010d, "DocumentName" },
    { 0x010e, "ImageDescription" },
    { 0x010f, "Make" },
    { 0x0110, "Model" },
    { 0x0111, "StripOffsets" },
    { 0x0112, "Orientation" },
    { 0x0115, "SamplesPerPixel" },
    { 0x0116, "RowsPerStrip" },
    { 0x0117, "StripByteCounts" },
    { 0x011a, "XResolution" },
    { 0x011b, "YResolution" },
    { 0x011c, "PlanarConfiguration" },
    { 0x0128, "ResolutionUnit" },
    { 0x012d, "TransferFunction" },
    { 0x0131, "Software" },
    { 0x0132, "DateTime" },
    { 0x013b, "Artist" },
    { 0x013e, "WhitePoint" },
    { 0x013f, "PrimaryChromaticities" },
    { 0x0156, "TransferRange" },
    { 0x0200, "JPEGProc" },
    { 0x0201, "ThumbnailOffset" },
    { 0x0202, "ThumbnailLength" },
    { 0x0211, "YCbCrCoefficients" },
    { 0x0212, "YCbCrSubSampling" },
    { 0x0213, "YCbCrPositioning" },
    { 0x0214, "ReferenceBlackWhite" },
    { 0x1001, "RelatedImageWidth" },
    { 0x1002, "RelatedImageLength" },
    { 0x828d, "CFARepeatPatternDim" },
    { 0x828e, "CFAPattern" },
    { 0x828f, "BatteryLevel" },
    { 0x8298, "Copyright" },
    { 0x829a, "ExposureTime" },
    { 0x829d, "FNumber" },
    { 0x83bb, "IPTC/NAA" },
    { 0x8769, "ExifOffset" },
    { 0x8773, "InterColorProfile" },
    { 0x8822, "ExposureProgram" },
    { 0x8824, "SpectralSensitivity" },
    { 0x8825, "GPSInfo" },
    { 0x8827, "ISOSpeedRatings" },
    { 0x8828, "OECF" },
    { 0x9000, "ExifVersion" },
    { 0x9003, "DateTimeOriginal" },
    { 0x9004, "DateTimeDigitized" },
    { 0x9101, "ComponentsConfiguration" },
    { 0x9102, "CompressedBitsPerPixel" },
    { 0x9201, "ShutterSpeedValue" },
    { 0x9202, "ApertureValue" },
    { 0x9203, "BrightnessValue" },
    { 0x9204, "ExposureBiasValue" },
    { 0x9205, "MaxApertureValue" },
    { 0x9206, "SubjectDistance" },
    { 0x9207, "MeteringMode" },
    { 0x9208, "LightSource" },
    { 0x9209, "Flash" },
    { 0x920a, "FocalLength" },
    { 0x920b, "FlashEnergy" },
    { 0x920c, "SpatialFrequencyResponse" },
    { 0x920e, "FocalPlaneXResolution" },
    { 0x920f, "FocalPlaneYResolution" },
    { 0x9210, "FocalPlaneResolutionUnit" },
    { 0x9214, "SubjectLocation" },
    { 0x9215, "ExposureIndex" },
    { 0x9217, "SensingMethod" },
    { 0x927c, "MakerNote" },
    { 0x9286, "UserComment" },
    { 0x9290, "SubSecTime" },
    { 0x9291, "SubSecTimeOriginal" },
    { 0x9292, "SubSecTimeDigitized" },
    { 0xa000, "FlashPixVersion" },
    { 0xa001, "ColorSpace" },
    { 0xa002, "ExifImageWidth" },
    { 0xa003, "ExifImageLength" },
    { 0xa004, "RelatedAudioFile" },
    { 0xa005, "InteroperabilityOffset" },
    { 0xa20b, "FlashEnergy" },
    { 0xa20c, "SpatialFrequencyResponse" },
    { 0xa20e, "FocalPlaneXResolution" },
    { 0xa20f, "FocalPlaneYResolution" },
    { 0xa210, "FocalPlaneResolutionUnit" },
    { 0xa214, "SubjectLocation" },
    { 0xa215, "ExposureIndex" },
    { 0xa217, "SensingMethod" },
    { 0xa300, "FileSource" },
    { 0xa301, "SceneType" },
    { 0xa302, "CFA Pattern" },
    { 0xa401, "CustomRendered" },
    { 0xa402, "ExposureMode" },
    { 0xa403, "WhiteBalance" },
    { 0xa404, "DigitalZoomRatio" },
    { 0xa405, "FocalLengthIn35mmFilm" },
    { 0xa406, "SceneCaptureType" },
    { 0xa407, "GainControl" },
    { 0xa408, "Contrast" },
    { 0xa409, "Saturation" },
    { 0xa40a, "Sharpness" },
    { 0xa40c, "SubjectDistanceRange" },
    { 0xa420, "UniqueImageID" },
} )

var gpsTags = newTagTable( []tagName{
    { 0x00, "VersionID" },
    { 0x01, "LatitudeRef" },
    { 0x02, "Latitude" },
    { 0x03, "LongitudeRef" },
    { 0x04, "Longitude" },
    { 0x05, "AltitudeRef" },
    { 0x06, "Altitude" },
    { 0x07, "TimeStamp" },
    { 0x08, "Satellites" },
    { 0x09, "Status" },
    { 0x0a, "MeasureMode" },
    { 0x0b, "DOP" },
    { 0x0c, "SpeedRef" },
    { 0x0d, "Speed" },
    { 0x0e, "TrackRef" },
    { 0x0f, "Track" },
    { 0x10, "ImgDirectionRef" },
    { 0x11, "ImgDirection" },
    { 0x12, "MapDatum" },
    { 0x13, "DestLatitudeRef" },
    { 0x14, "DestLatitude" },
    { 0x15, "DestLongitudeRef" },
    { 0x16, "DestLongitude" },
    { 0x17, "DestBearingRef" },
    { 0x18, "DestBearing" },
    { 0x19, "DestDistanceRef" },
    { 0x1a, "DestDistance" },
    { 0x1b, "ProcessingMethod" },
    { 0x1c, "AreaInformation" },
    { 0x1d, "DateStamp" },
    { 0x1e, "Differential" },
    { 0x1f, "HPositioningError" },
} )

var canonTags = newTagTable( []tagName{
    { 0x0001, "CameraSettings" },
    { 0x0002, "FocalLength" },
    { 0x0003, "FlashInfo" },
    { 0x0004, "ShotInfo" },
    { 0x0005, "Panorama" },
    { 0x0006, "ImageType" },
    { 0x0007, "FirmwareVersion" },
    { 0x0008, "FileNumber" },
    { 0x0009, "OwnerName" },
    { 0x000a, "UnknownD30" },
    { 0x000c, "SerialNumber" },
    { 0x000d, "CameraInfo" },
    { 0x000e, "FileLength" },
    { 0x000f, "CustomFunctions" },
    { 0x0010, "ModelID" },
    { 0x0011, "MovieInfo" },
    { 0x0012, "AFInfo" },
    { 0x0013, "ThumbnailImageValidArea" },
    { 0x0015, "SerialNumberFormat" },
    { 0x001a, "SuperMacro" },
    { 0x001c, "DateStampMode" },
    { 0x001d, "MyColors" },
    { 0x001e, "FirmwareRevision" },
    { 0x0023, "Categories" },
    { 0x0024, "FaceDetect1" },
    { 0x0025, "FaceDetect2" },
    { 0x0026, "AFInfo2" },
    { 0x0028, "ImageUniqueID" },
    { 0x0081, "RawDataOffset" },
    { 0x0083, "OriginalDecisionDataOffset" },
    { 0x0090, "CustomFunctions1D" },
    { 0x0091, "PersonalFunctions" },
    { 0x0092, "PersonalFunctionValues" },
    { 0x0093, "FileInfo" },
    { 0x0094, "AFPointsInFocus1D" },
    { 0x0095, "LensModel" },
    { 0x0096, "InternalSerialNumber" },
    { 0x0097, "DustRemovalData" },
    { 0x0099, "CustomFunctions2" },
    { 0x00a0, "ProcessingInfo" },
    { 0x00a9, "WhiteBalanceTable" },
    { 0x00aa, "MeasuredColor" },
    { 0x00b4, "ColorSpace" },
    { 0x00b6, "PreviewImageInfo" },
    { 0x00d0, "VRDOffset" },
    { 0x00e0, "SensorInfo" },
    { 0x4001, "ColorData" },
} )
