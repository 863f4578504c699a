package browser

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bucket-browser/internal/storage"
)

// Lister is the slice of the storage capability the resolver needs.
type Lister interface {
	List(ctx context.Context, prefix string) (*storage.Listing, error)
}

type ListOptions struct {
	// HideSentinels drops folder sentinel objects (".keep") from the result.
	HideSentinels bool
}

// List resolves the virtual folder at prefix into folders and files one
// level below it. Folders come first; each group is ordered by a
// locale-aware comparison of Name. The result is rebuilt from the backend
// on every call.
func List(ctx context.Context, lister Lister, prefix string, opts ListOptions) ([]Entry, error) {
	listing, err := lister.List(ctx, prefix)
	if err != nil {
		return nil, wrap(ErrListingFailed, fmt.Sprintf("prefix %q", prefix), err)
	}

	items := make([]Entry, 0, len(listing.CommonPrefixes)+len(listing.Objects))
	seen := make(map[string]bool, len(listing.CommonPrefixes))

	for _, p := range listing.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(p, prefix), separator)
		if name == "" || seen[p] {
			continue
		}
		seen[p] = true
		items = append(items, Entry{Name: name, Kind: Folder, FullPath: p})
	}

	for _, obj := range listing.Objects {
		if seen[obj.Key] {
			continue
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" {
			continue
		}
		if opts.HideSentinels && name == SentinelName {
			continue
		}
		size := obj.Size
		modified := obj.LastModified
		items = append(items, Entry{
			Name:         name,
			Kind:         File,
			Size:         &size,
			LastModified: &modified,
			FullPath:     obj.Key,
		})
	}

	sortEntries(items)
	return items, nil
}

func sortEntries(items []Entry) {
	// A collator keeps scratch buffers, so each sort gets its own.
	col := collate.New(language.Und)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Kind != b.Kind {
			return a.Kind == Folder
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
}
