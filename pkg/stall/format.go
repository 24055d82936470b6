package stall

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/models"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding a store was read from
type Format string

const (
	// FormatStructured is the YAML document written by the store
	FormatStructured Format = "structured"
	// FormatList is a plain list of remote paths, one per line
	FormatList Format = "list"
)

const storeFileVersion = 1

// document is the structured on-disk representation
type document struct {
	Version int            `yaml:"version"`
	Entries []models.Entry `yaml:"entries"`
}

// decode detects the encoding of data and parses it. The structured form is
// attempted first; any failure falls back to the line list.
func decode(data []byte) (*Index, Format, error) {
	index, structuredErr := decodeStructured(data)
	if structuredErr == nil {
		return index, FormatStructured, nil
	}

	index, err := decodeList(data)
	if err != nil {
		return nil, "", fmt.Errorf("not a structured store (%v) nor a file list: %w", structuredErr, err)
	}
	return index, FormatList, nil
}

func decodeStructured(data []byte) (*Index, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}

	if doc.Version > storeFileVersion {
		return nil, fmt.Errorf("store file version %d is newer than supported version %d", doc.Version, storeFileVersion)
	}

	index := NewIndex()
	for _, entry := range doc.Entries {
		if _, err := index.Insert(entry.Local, entry.Remote); err != nil {
			return nil, err
		}
	}
	return index, nil
}

// decodeList reads one remote path per line. Blank lines and lines starting
// with // or # are ignored. The local path is the remote's file name.
func decodeList(data []byte) (*Index, error) {
	index := NewIndex()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		name, err := platform.FileName(line)
		if err != nil {
			return nil, err
		}
		if _, err := index.Insert(name, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}
	return index, nil
}

// encode writes the structured representation
func encode(w io.Writer, index *Index) error {
	doc := document{Version: storeFileVersion, Entries: []models.Entry{}}
	for entry := range index.All() {
		doc.Entries = append(doc.Entries, entry)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}
	return enc.Close()
}
