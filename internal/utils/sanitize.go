package utils

import (
	"path"
	"strings"
)

// BaseName reduces an uploaded file name to its last segment. Browsers on
// Windows may send the full client path with backslashes.
func BaseName(filename string) string {
	clean := strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/"))
	if clean == "" || strings.HasSuffix(clean, "/") {
		return ""
	}
	base := path.Base(clean)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}

// DownloadName is the file name offered in Content-Disposition for key.
func DownloadName(key string) string {
	if name := BaseName(key); name != "" {
		return name
	}
	return "download"
}
