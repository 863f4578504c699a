package media

import (
	"path"
	"strings"
)

type Category string

const (
	Image    Category = "image"
	Video    Category = "video"
	Audio    Category = "audio"
	Document Category = "document"
	Code     Category = "code"
	Text     Category = "text"
	Archive  Category = "archive"
	Other    Category = "other"
)

// Checked in order: "ogg" is a video before it is audio.
var categories = []struct {
	category   Category
	extensions []string
}{
	{Image, []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "svg", "ico"}},
	{Video, []string{"mp4", "webm", "ogg", "avi", "mov", "mkv"}},
	{Audio, []string{"mp3", "wav", "ogg", "flac", "aac"}},
	{Document, []string{"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx"}},
	{Code, []string{"js", "ts", "tsx", "jsx", "py", "java", "c", "cpp", "h", "go", "rs"}},
	{Text, []string{"txt", "md", "json", "xml", "yaml", "yml", "csv"}},
	{Archive, []string{"zip", "rar", "7z", "tar", "gz"}},
}

var previewable = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "webp": true, "svg": true,
	"pdf": true,
	"txt": true, "md": true, "json": true, "xml": true, "html": true, "css": true,
	"js": true, "ts": true, "tsx": true, "jsx": true,
	"mp4": true, "webm": true, "ogg": true,
	"mp3": true, "wav": true,
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

func CategoryOf(name string) Category {
	ext := Extension(name)
	if ext == "" {
		return Other
	}
	for _, c := range categories {
		for _, e := range c.extensions {
			if e == ext {
				return c.category
			}
		}
	}
	return Other
}

func IsPreviewable(name string) bool {
	return previewable[Extension(name)]
}

// IsMedia reports whether name is shown in the image/video slideshow.
func IsMedia(name string) bool {
	c := CategoryOf(name)
	return c == Image || c == Video
}
