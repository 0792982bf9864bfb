package utils

import (
	"mime"
	"net/http"
)

// DetectMime analyzes a byte slice to determine its MIME type.
// It returns "application/octet-stream" if identification fails.
func DetectMime(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data)
}

// ExtensionForMime converts a MIME type to its first standard extension,
// defaulting to ".bin".
func ExtensionForMime(mimeType string) string {
	// The mime package maps image/jpeg to ".jfif" first on some platforms;
	// pin the common image types so generated filenames stay predictable.
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
