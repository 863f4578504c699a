package browser

import (
	"encoding/json"
	"fmt"
	"time"
)

type Kind int

const (
	File Kind = iota
	Folder
)

func (k Kind) String() string {
	if k == Folder {
		return "folder"
	}
	return "file"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "file":
		*k = File
	case "folder":
		*k = Folder
	default:
		return fmt.Errorf("unknown entry type %q", s)
	}
	return nil
}

// Entry is one item of a folder listing. FullPath is the object key for a
// file and the key prefix (ending in "/") for a folder.
type Entry struct {
	Name         string     `json:"name"`
	Kind         Kind       `json:"type"`
	Size         *int64     `json:"size,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	FullPath     string     `json:"path"`
}

type BreadcrumbItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}
