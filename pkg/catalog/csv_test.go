package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralsight/abcc-cli/pkg/models"
)

func sampleEntry(id string) models.CatalogEntry {
	return models.CatalogEntry{
		ID:             id,
		Name:           "Orbit Face",
		Restype:        "watchface",
		RepoOwner:      "alice",
		RepoName:       "astrobox-resource-orbit",
		RepoCommitHash: "abc123",
		Icon:           "media/icon.png",
		Cover:          "media/cover.png",
		Tags:           "minimal;dark",
		DeviceVendors:  "xiaomi",
		Devices:        "miwatch-s3",
		PaidType:       "free",
	}
}

func TestParseRoundTrip(t *testing.T) {
	entries := []models.CatalogEntry{sampleEntry("a"), sampleEntry("b")}
	csv := Serialize(entries)

	parsed := Parse(csv)
	assert.Equal(t, entries, parsed)
}

func TestParseDropsShortRows(t *testing.T) {
	csv := Header + "\n" +
		"only,three,cols\n" +
		RowString(sampleEntry("ok")) + "\n"

	parsed := Parse(csv)
	require.Len(t, parsed, 1)
	assert.Equal(t, "ok", parsed[0].ID)
}

func TestParseEmptyAndHeaderOnly(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse(Header))
	assert.Nil(t, Parse(Header+"\n\n"))
}

func TestParseToleratesCRLF(t *testing.T) {
	csv := Header + "\r\n" + RowString(sampleEntry("a")) + "\r\n"

	parsed := Parse(csv)
	require.Len(t, parsed, 1)
	assert.Equal(t, "a", parsed[0].ID)
}

func TestUpsertRowAppendsNewEntry(t *testing.T) {
	csv := Serialize([]models.CatalogEntry{sampleEntry("existing")})

	updated := UpsertRow(csv, sampleEntry("fresh"))

	parsed := Parse(updated)
	require.Len(t, parsed, 2)
	assert.Equal(t, "existing", parsed[0].ID)
	assert.Equal(t, "fresh", parsed[1].ID)
}

func TestUpsertRowReplacesMatchingID(t *testing.T) {
	old := sampleEntry("theme-1")
	other := sampleEntry("theme-2")
	csv := Serialize([]models.CatalogEntry{old, other})

	changed := old
	changed.Name = "Orbit Face v2"
	changed.RepoCommitHash = "def456"
	updated := UpsertRow(csv, changed)

	parsed := Parse(updated)
	require.Len(t, parsed, 2)
	assert.Equal(t, "theme-2", parsed[0].ID)
	assert.Equal(t, "theme-1", parsed[1].ID)
	assert.Equal(t, "Orbit Face v2", parsed[1].Name)
	assert.Equal(t, "def456", parsed[1].RepoCommitHash)
}

func TestUpsertRowIsIdempotent(t *testing.T) {
	csv := Serialize([]models.CatalogEntry{sampleEntry("x")})
	entry := sampleEntry("x")

	once := UpsertRow(csv, entry)
	twice := UpsertRow(once, entry)
	assert.Equal(t, once, twice)
	assert.Len(t, Parse(twice), 1)
}

func TestUpsertRowKeepsExistingHeader(t *testing.T) {
	legacyHeader := "id,name,restype,repo_owner,repo_name,repo_commit_hash,icon,cover,tags,device_vendors,devices,paid_type,extra"
	csv := legacyHeader + "\n" + RowString(sampleEntry("a"))

	updated := UpsertRow(csv, sampleEntry("b"))
	assert.True(t, strings.HasPrefix(updated, legacyHeader+"\n"))
}

func TestUpsertRowEmptyDocumentGetsCanonicalHeader(t *testing.T) {
	updated := UpsertRow("", sampleEntry("a"))

	lines := strings.Split(updated, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
}

func TestUpsertRowPrefixDoesNotMatchLongerIDs(t *testing.T) {
	long := sampleEntry("theme-10")
	csv := Serialize([]models.CatalogEntry{long})

	updated := UpsertRow(csv, sampleEntry("theme-1"))

	parsed := Parse(updated)
	require.Len(t, parsed, 2)
	assert.Equal(t, "theme-10", parsed[0].ID)
	assert.Equal(t, "theme-1", parsed[1].ID)
}

func TestValidateEntry(t *testing.T) {
	assert.NoError(t, ValidateEntry(sampleEntry("ok")))

	withComma := sampleEntry("ok")
	withComma.Name = "nice, isn't it"
	assert.Error(t, ValidateEntry(withComma))

	withNewline := sampleEntry("ok")
	withNewline.Tags = "line\nbreak"
	assert.Error(t, ValidateEntry(withNewline))

	assert.Error(t, ValidateEntry(sampleEntry("")))
	assert.Error(t, ValidateEntry(sampleEntry("   ")))
}
