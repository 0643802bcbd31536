// Package catalog owns the CSV-encoded catalog index: a fixed 12-column
// format with no quoting or escaping. Field values must not contain commas or
// newlines; that is a documented constraint of the live format, enforced as a
// validation rule on entries, not worked around in the codec.
package catalog

import (
	"fmt"
	"strings"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/models"
)

// Header is the canonical catalog header row
const Header = "id,name,restype,repo_owner,repo_name,repo_commit_hash,icon,cover,tags,device_vendors,devices,paid_type"

const columnCount = 12

// Parse decodes catalog CSV text into entries. Rows with fewer than 12
// columns are dropped, matching the live catalog's tolerant reader.
func Parse(csv string) []models.CatalogEntry {
	var rows []string
	for _, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	var entries []models.CatalogEntry
	for _, row := range rows[1:] {
		entry, ok := ParseRow(row)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseRow decodes a single data row
func ParseRow(row string) (models.CatalogEntry, bool) {
	cols := strings.Split(row, ",")
	if len(cols) < columnCount {
		return models.CatalogEntry{}, false
	}
	return models.CatalogEntry{
		ID:             cols[0],
		Name:           cols[1],
		Restype:        cols[2],
		RepoOwner:      cols[3],
		RepoName:       cols[4],
		RepoCommitHash: cols[5],
		Icon:           cols[6],
		Cover:          cols[7],
		Tags:           cols[8],
		DeviceVendors:  cols[9],
		Devices:        cols[10],
		PaidType:       cols[11],
	}, true
}

// RowString encodes one entry as a data row
func RowString(entry models.CatalogEntry) string {
	return strings.Join([]string{
		entry.ID,
		entry.Name,
		entry.Restype,
		entry.RepoOwner,
		entry.RepoName,
		entry.RepoCommitHash,
		entry.Icon,
		entry.Cover,
		entry.Tags,
		entry.DeviceVendors,
		entry.Devices,
		entry.PaidType,
	}, ",")
}

// Serialize encodes entries under the canonical header
func Serialize(entries []models.CatalogEntry) string {
	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, Header)
	for _, entry := range entries {
		rows = append(rows, RowString(entry))
	}
	return strings.Join(rows, "\n")
}

// UpsertRow replaces any existing row for the entry's id and appends the new
// row, keeping the original header (or the canonical one when absent). Row
// removal matches on the "id," prefix for compatibility with the live
// catalog's merge behavior.
func UpsertRow(csv string, entry models.CatalogEntry) string {
	var rows []string
	for _, line := range strings.Split(csv, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			rows = append(rows, line)
		}
	}

	header := Header
	var dataRows []string
	if len(rows) > 0 {
		if rows[0] != "" {
			header = rows[0]
		}
		dataRows = rows[1:]
	}

	prefix := entry.ID + ","
	filtered := make([]string, 0, len(dataRows)+1)
	for _, row := range dataRows {
		if strings.HasPrefix(row, prefix) {
			continue
		}
		filtered = append(filtered, row)
	}
	filtered = append(filtered, RowString(entry))

	return header + "\n" + strings.Join(filtered, "\n")
}

// ValidateEntry rejects field values the unescaped CSV format cannot carry
func ValidateEntry(entry models.CatalogEntry) error {
	fields := map[string]string{
		"id":               entry.ID,
		"name":             entry.Name,
		"restype":          entry.Restype,
		"repo_owner":       entry.RepoOwner,
		"repo_name":        entry.RepoName,
		"repo_commit_hash": entry.RepoCommitHash,
		"icon":             entry.Icon,
		"cover":            entry.Cover,
		"tags":             entry.Tags,
		"device_vendors":   entry.DeviceVendors,
		"devices":          entry.Devices,
		"paid_type":        entry.PaidType,
	}
	for name, value := range fields {
		if strings.ContainsAny(value, ",\r\n") {
			return aberrors.Validation("catalog.bad_field",
				fmt.Sprintf("catalog field %q must not contain commas or newlines", name))
		}
	}
	if strings.TrimSpace(entry.ID) == "" {
		return aberrors.Validation("catalog.missing_id", "catalog entry id must not be empty")
	}
	return nil
}
