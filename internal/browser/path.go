package browser

import "strings"

const (
	separator = "/"
	homeTitle = "Home"

	// SentinelName is the zero-byte object written to materialize an empty folder.
	SentinelName = ".keep"
)

// Breadcrumbs returns the trail from the root to prefix. Empty segments
// (trailing or doubled slashes) are skipped.
func Breadcrumbs(prefix string) []BreadcrumbItem {
	items := []BreadcrumbItem{{Title: homeTitle, Path: ""}}

	path := ""
	for _, part := range strings.Split(prefix, separator) {
		if part == "" {
			continue
		}
		path += part + separator
		items = append(items, BreadcrumbItem{Title: part, Path: path})
	}
	return items
}

func ChildPrefix(prefix, folderName string) string {
	if prefix == "" {
		return folderName + separator
	}
	return prefix + folderName + separator
}

func sentinelKey(folderPath string) string {
	return folderPath + SentinelName
}
