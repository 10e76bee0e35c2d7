package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLookup matches every *LookupError via errors.Is.
var ErrLookup = errors.New("registry lookup failed")

// LookupError carries the package name and the underlying failure.
type LookupError struct {
	Package string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("Failed to fetch data for %s. \n%v", e.Package, e.Err)
}

func (e *LookupError) Unwrap() []error { return []error{ErrLookup, e.Err} }

func lookupErr(pkg string, format string, v ...any) *LookupError {
	return &LookupError{Package: pkg, Err: fmt.Errorf(format, v...)}
}

// Metadata is the subset of a registry record the UI shows.
// Raw is the full decoded record; nil when only the description was fetched.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	License     string
	Modified    time.Time
	Raw         map[string]any
}

// Client looks up the latest published metadata for a package.
type Client interface {
	Lookup(ctx context.Context, name string) (*Metadata, error)
}

// Detail selects how much of the record a client fetches.
type Detail int

const (
	DetailFull        Detail = iota // full JSON record
	DetailDescription               // description field only, as plain text
)

// packageRecord is the shape shared by `npm view --json` and the
// registry's /<name>/latest document.
type packageRecord struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Homepage    string          `json:"homepage"`
	License     json.RawMessage `json:"license"`
	Time        json.RawMessage `json:"time"`
}

// decodeRecord parses a full record. npm prints an array when a range
// matches more than one version; the last entry is the newest.
func decodeRecord(pkg string, data []byte) (*Metadata, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, lookupErr(pkg, "empty response")
	}

	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, lookupErr(pkg, "malformed response: %w", err)
		}
		if len(list) == 0 {
			return nil, lookupErr(pkg, "no versions returned")
		}
		data = list[len(list)-1]
	}

	var rec packageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, lookupErr(pkg, "malformed response: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, lookupErr(pkg, "malformed response: %w", err)
	}
	if rec.Version == "" {
		return nil, lookupErr(pkg, "response has no version field")
	}

	meta := &Metadata{
		Name:        rec.Name,
		Version:     rec.Version,
		Description: rec.Description,
		Homepage:    rec.Homepage,
		License:     licenseText(rec.License),
		Modified:    modifiedTime(rec.Time),
		Raw:         raw,
	}
	if meta.Name == "" {
		meta.Name = pkg
	}
	return meta, nil
}

// licenseText accepts both the SPDX string and the legacy {"type": ...} form.
func licenseText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Type
	}
	return ""
}

// modifiedTime reads time.modified from an `npm view --json` record.
// The /latest document has no time map, so this is zero there.
func modifiedTime(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var times map[string]string
	if err := json.Unmarshal(raw, &times); err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, times["modified"])
	if err != nil {
		return time.Time{}
	}
	return t
}
