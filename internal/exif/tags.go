package exif

import (
	"fmt"
	"strings"
)

// Directory identifies the metadata segment (IFD) a tag belongs to.
type Directory int

const (
	// DirPrimary is the 0th IFD describing the main image.
	DirPrimary Directory = iota

	// DirExif is the Exif sub-IFD (capture settings).
	DirExif

	// DirGPS is the GPS sub-IFD (location data).
	DirGPS

	// DirInterop is the Interoperability sub-IFD.
	DirInterop

	// DirThumbnail is the 1st IFD describing the embedded thumbnail.
	DirThumbnail
)

// directories lists every Directory in resolution precedence order.
var directories = []Directory{DirPrimary, DirExif, DirGPS, DirInterop, DirThumbnail}

// String returns the directory name for display.
func (d Directory) String() string {
	switch d {
	case DirPrimary:
		return "Primary"
	case DirExif:
		return "Exif"
	case DirGPS:
		return "GPS"
	case DirInterop:
		return "Interoperability"
	case DirThumbnail:
		return "Thumbnail"
	}
	return "Unknown"
}

// Pointer tags linking IFD0 to the sub-IFDs.
const (
	tagExifOffset    = 0x8769
	tagGPSInfo       = 0x8825
	tagInteropOffset = 0xA005

	tagThumbOffset = 0x0201 // JPEGInterchangeFormat
	tagThumbLength = 0x0202 // JPEGInterchangeFormatLength
)

// tagNames is the forward TagID -> TagName table, covering the standard
// EXIF 2.3 tag ontology across all five directories.
//
// GPS and Interoperability reuse low numeric IDs (0x0001, 0x0002). The
// table keeps the GPS names for those IDs, matching the directory
// resolution precedence below which also favors GPS.
var tagNames = map[uint16]string{
	// IFD0 (primary image)
	0x0100: "ImageWidth",
	0x0101: "ImageLength",
	0x0102: "BitsPerSample",
	0x0103: "Compression",
	0x0106: "PhotometricInterpretation",
	0x010E: "ImageDescription",
	0x010F: "Make",
	0x0110: "Model",
	0x0112: "Orientation",
	0x0115: "SamplesPerPixel",
	0x011A: "XResolution",
	0x011B: "YResolution",
	0x011C: "PlanarConfiguration",
	0x0128: "ResolutionUnit",
	0x012D: "TransferFunction",
	0x0131: "Software",
	0x0132: "DateTime",
	0x013B: "Artist",
	0x013E: "WhitePoint",
	0x013F: "PrimaryChromaticities",
	0x0211: "YCbCrCoefficients",
	0x0212: "YCbCrSubSampling",
	0x0213: "YCbCrPositioning",
	0x0214: "ReferenceBlackWhite",
	0x8298: "Copyright",
	0x8769: "ExifOffset",
	0x8825: "GPSInfo",

	// IFD1 (thumbnail)
	0x0201: "JPEGInterchangeFormat",
	0x0202: "JPEGInterchangeFormatLength",

	// Exif sub-IFD
	0x829A: "ExposureTime",
	0x829D: "FNumber",
	0x8822: "ExposureProgram",
	0x8824: "SpectralSensitivity",
	0x8827: "ISOSpeedRatings",
	0x9000: "ExifVersion",
	0x9003: "DateTimeOriginal",
	0x9004: "DateTimeDigitized",
	0x9101: "ComponentsConfiguration",
	0x9102: "CompressedBitsPerPixel",
	0x9201: "ShutterSpeedValue",
	0x9202: "ApertureValue",
	0x9203: "BrightnessValue",
	0x9204: "ExposureBiasValue",
	0x9205: "MaxApertureValue",
	0x9206: "SubjectDistance",
	0x9207: "MeteringMode",
	0x9208: "LightSource",
	0x9209: "Flash",
	0x920A: "FocalLength",
	0x9214: "SubjectArea",
	0x927C: "MakerNote",
	0x9286: "UserComment",
	0x9290: "SubsecTime",
	0x9291: "SubsecTimeOriginal",
	0x9292: "SubsecTimeDigitized",
	0xA000: "FlashpixVersion",
	0xA001: "ColorSpace",
	0xA002: "PixelXDimension",
	0xA003: "PixelYDimension",
	0xA004: "RelatedSoundFile",
	0xA005: "InteroperabilityOffset",
	0xA20B: "FlashEnergy",
	0xA20E: "FocalPlaneXResolution",
	0xA20F: "FocalPlaneYResolution",
	0xA210: "FocalPlaneResolutionUnit",
	0xA214: "SubjectLocation",
	0xA215: "ExposureIndex",
	0xA217: "SensingMethod",
	0xA300: "FileSource",
	0xA301: "SceneType",
	0xA302: "CFAPattern",
	0xA401: "CustomRendered",
	0xA402: "ExposureMode",
	0xA403: "WhiteBalance",
	0xA404: "DigitalZoomRatio",
	0xA405: "FocalLengthIn35mmFilm",
	0xA406: "SceneCaptureType",
	0xA407: "GainControl",
	0xA408: "Contrast",
	0xA409: "Saturation",
	0xA40A: "Sharpness",
	0xA40C: "SubjectDistanceRange",
	0xA420: "ImageUniqueID",
	0xA430: "CameraOwnerName",
	0xA431: "BodySerialNumber",
	0xA432: "LensSpecification",
	0xA433: "LensMake",
	0xA434: "LensModel",
	0xA435: "LensSerialNumber",

	// GPS sub-IFD
	0x0000: "GPSVersionID",
	0x0001: "GPSLatitudeRef",
	0x0002: "GPSLatitude",
	0x0003: "GPSLongitudeRef",
	0x0004: "GPSLongitude",
	0x0005: "GPSAltitudeRef",
	0x0006: "GPSAltitude",
	0x0007: "GPSTimeStamp",
	0x0008: "GPSSatellites",
	0x0009: "GPSStatus",
	0x000A: "GPSMeasureMode",
	0x000B: "GPSDOP",
	0x000C: "GPSSpeedRef",
	0x000D: "GPSSpeed",
	0x000E: "GPSTrackRef",
	0x000F: "GPSTrack",
	0x0010: "GPSImgDirectionRef",
	0x0011: "GPSImgDirection",
	0x0012: "GPSMapDatum",
	0x0013: "GPSDestLatitudeRef",
	0x0014: "GPSDestLatitude",
	0x0015: "GPSDestLongitudeRef",
	0x0016: "GPSDestLongitude",
	0x0017: "GPSDestBearingRef",
	0x0018: "GPSDestBearing",
	0x0019: "GPSDestDistanceRef",
	0x001A: "GPSDestDistance",
	0x001B: "GPSProcessingMethod",
	0x001C: "GPSAreaInformation",
	0x001D: "GPSDateStamp",
	0x001E: "GPSDifferential",

	// Interoperability sub-IFD
	0x1000: "RelatedImageFileFormat",
	0x1001: "RelatedImageWidth",
	0x1002: "RelatedImageLength",
}

// nameToID is the precomputed inverse of tagNames, keyed by lowercased
// name so resolution is case-insensitive.
var nameToID = func() map[string]uint16 {
	m := make(map[string]uint16, len(tagNames))
	for id, name := range tagNames {
		m[strings.ToLower(name)] = id
	}
	return m
}()

// Static membership sets backing directory assignment. An ID present in
// more than one set resolves to the earliest directory in precedence
// order (Primary, Exif, GPS, Interoperability, Thumbnail).
var directorySets = map[Directory]map[uint16]struct{}{
	DirPrimary:   idSet(0x0100, 0x0101, 0x0102, 0x0103, 0x0106, 0x010E, 0x010F, 0x0110, 0x0112, 0x0115, 0x011A, 0x011B, 0x011C, 0x0128, 0x012D, 0x0131, 0x0132, 0x013B, 0x013E, 0x013F, 0x0211, 0x0212, 0x0213, 0x0214, 0x8298, 0x8769, 0x8825),
	DirExif:      idSet(0x829A, 0x829D, 0x8822, 0x8824, 0x8827, 0x9000, 0x9003, 0x9004, 0x9101, 0x9102, 0x9201, 0x9202, 0x9203, 0x9204, 0x9205, 0x9206, 0x9207, 0x9208, 0x9209, 0x920A, 0x9214, 0x927C, 0x9286, 0x9290, 0x9291, 0x9292, 0xA000, 0xA001, 0xA002, 0xA003, 0xA004, 0xA005, 0xA20B, 0xA20E, 0xA20F, 0xA210, 0xA214, 0xA215, 0xA217, 0xA300, 0xA301, 0xA302, 0xA401, 0xA402, 0xA403, 0xA404, 0xA405, 0xA406, 0xA407, 0xA408, 0xA409, 0xA40A, 0xA40C, 0xA420, 0xA430, 0xA431, 0xA432, 0xA433, 0xA434, 0xA435),
	DirGPS:       gpsSet(),
	DirInterop:   idSet(0x0001, 0x0002, 0x1000, 0x1001, 0x1002),
	DirThumbnail: idSet(0x0201, 0x0202),
}

func idSet(ids ...uint16) map[uint16]struct{} {
	s := make(map[uint16]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func gpsSet() map[uint16]struct{} {
	s := make(map[uint16]struct{}, 0x1F)
	for id := uint16(0x0000); id <= 0x001E; id++ {
		s[id] = struct{}{}
	}
	return s
}

// TagName returns the dictionary name for a tag ID.
func TagName(id uint16) (string, bool) {
	name, ok := tagNames[id]
	return name, ok
}

// DisplayName returns the dictionary name for a tag ID, or the raw
// identifier formatted as "0xNNNN" when the dictionary doesn't know it.
func DisplayName(id uint16) string {
	if name, ok := tagNames[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", id)
}

// ResolveName maps a tag name (case-insensitive) to its numeric ID and
// owning directory. The boolean is false for unknown names.
//
// Example:
//
//	id, dir, ok := exif.ResolveName("Artist")
//	// id == 0x013B, dir == exif.DirPrimary, ok == true
func ResolveName(name string) (uint16, Directory, bool) {
	id, ok := nameToID[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, DirPrimary, false
	}
	return id, DirectoryOf(id), true
}

// DirectoryOf assigns a tag ID to its directory.
//
// Membership is checked against the five static sets in precedence
// order; IDs in none of them fall back to Primary. The fallback means
// vendor-specific tags land in the primary IFD, which may misfile them;
// that matches the tool's historical behavior and is intentional.
func DirectoryOf(id uint16) Directory {
	for _, dir := range directories {
		if _, ok := directorySets[dir][id]; ok {
			return dir
		}
	}
	return DirPrimary
}
