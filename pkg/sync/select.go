package sync

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/stall"
)

// Select resolves selectors against the local paths of the store. No
// selectors selects every entry. Selectors are resolved in order and the
// first one that matches nothing fails with *models.UnknownEntryError.
// A selector naming a local path exactly selects that entry; otherwise
// selectors containing glob metacharacters match with doublestar semantics.
func Select(store *stall.Store, selectors []string) ([]models.Entry, error) {
	if len(selectors) == 0 {
		entries := make([]models.Entry, 0, store.Len())
		for entry := range store.Entries() {
			entries = append(entries, entry)
		}
		return entries, nil
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	var entries []models.Entry
	add := func(entry models.Entry) {
		if seen.Add(entry.Local) {
			entries = append(entries, entry)
		}
	}

	for _, selector := range selectors {
		if entry, ok := store.EntryLocal(selector); ok {
			add(entry)
			continue
		}
		if !isGlob(selector) {
			return nil, &models.UnknownEntryError{Path: selector}
		}

		pattern := filepath.ToSlash(platform.NormalizePath(selector))
		matched := false
		for entry := range store.Entries() {
			ok, err := doublestar.Match(pattern, filepath.ToSlash(entry.Local))
			if err != nil {
				return nil, &models.UnknownEntryError{Path: selector}
			}
			if ok {
				matched = true
				add(entry)
			}
		}
		if !matched {
			return nil, &models.UnknownEntryError{Path: selector}
		}
	}

	return entries, nil
}

func isGlob(selector string) bool {
	return strings.ContainsAny(selector, "*?[{")
}
