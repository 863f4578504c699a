package browser

import "bucket-browser/internal/media"

// FilterMedia keeps the files that belong in the slideshow.
func FilterMedia(items []Entry) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.Kind == File && media.IsMedia(item.Name) {
			out = append(out, item)
		}
	}
	return out
}

// IndexOf returns the position of fullPath in items, or 0 when absent so a
// slideshow always has a starting slide.
func IndexOf(items []Entry, fullPath string) int {
	for i, item := range items {
		if item.FullPath == fullPath {
			return i
		}
	}
	return 0
}
