package constants

import "strings"

// FileTypes holds the allowed values for the format of an extraction input.
var FileTypes = []string{"PDF", "IMAGE", "TXT"}

const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	TXT   = "TXT"
)

// AllowedExtensions holds the default allowed file extensions for batch runs.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its processing format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "tif", "tiff", "bmp":
		return IMAGE
	case "txt":
		return TXT
	default:
		return ""
	}
}
