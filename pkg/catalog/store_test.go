package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/models"
)

func testPublishConfig() models.PublishConfig {
	return models.PublishConfig{
		ManifestFileName:  "manifest_v2.json",
		MediaDirectory:    "media",
		DownloadsDir:      "downloads",
		DefaultBranch:     "main",
		RepoNamePrefix:    "astrobox-resource-",
		UpstreamRepoOwner: "AstralSightStudios",
		UpstreamRepoName:  "ABRepo-TestEnv",
		TargetPrRepoOwner: "AstralSightStudios",
		TargetPrRepoName:  "ABRepo-TestEnv",
		CatalogFilePath:   "index_v2.csv",
	}
}

// fakeCatalogForge serves just enough of the forge API for the propose flow
type fakeCatalogForge struct {
	catalogCSV string
	catalogSHA string

	createdBranch string
	branchBaseSHA string
	putBody       map[string]interface{}
}

func (f *fakeCatalogForge) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /repos/AstralSightStudios/ABRepo-TestEnv/forks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":           "ABRepo-TestEnv",
			"default_branch": "main",
			"owner":          map[string]string{"login": "alice"},
		})
	})

	mux.HandleFunc("GET /repos/AstralSightStudios/ABRepo-TestEnv/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": map[string]string{"sha": "upstream-head"},
		})
	})

	mux.HandleFunc("POST /repos/alice/ABRepo-TestEnv/git/refs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.createdBranch = strings.TrimPrefix(body["ref"], "refs/heads/")
		f.branchBaseSHA = body["sha"]
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	})

	mux.HandleFunc("GET /repos/alice/ABRepo-TestEnv/contents/index_v2.csv", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"path":    "index_v2.csv",
			"sha":     f.catalogSHA,
			"content": base64.StdEncoding.EncodeToString([]byte(f.catalogCSV)),
		})
	})

	mux.HandleFunc("PUT /repos/alice/ABRepo-TestEnv/contents/index_v2.csv", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.putBody = body
		json.NewEncoder(w).Encode(map[string]interface{}{
			"commit":  map[string]string{"sha": "new-commit"},
			"content": map[string]string{"sha": "new-blob"},
		})
	})

	return httptest.NewServer(mux)
}

func TestProposeChange(t *testing.T) {
	fake := &fakeCatalogForge{
		catalogCSV: Serialize([]models.CatalogEntry{sampleEntry("other")}),
		catalogSHA: "catalog-blob",
	}
	server := fake.server(t)
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	store := NewStore(client, testPublishConfig(), nil)
	store.now = func() time.Time { return time.UnixMilli(1712345678901) }

	proposal, err := store.ProposeChange(context.Background(), sampleEntry("orbit"))
	require.NoError(t, err)

	assert.Equal(t, "alice", proposal.ForkOwner)
	assert.Equal(t, "ABRepo-TestEnv", proposal.ForkRepo)
	assert.Equal(t, "astrobox-submit-1712345678901", proposal.Branch)

	assert.Equal(t, "astrobox-submit-1712345678901", fake.createdBranch)
	assert.Equal(t, "upstream-head", fake.branchBaseSHA)

	require.NotNil(t, fake.putBody)
	assert.Equal(t, "Add orbit to catalog", fake.putBody["message"])
	assert.Equal(t, "catalog-blob", fake.putBody["sha"])
	assert.Equal(t, "astrobox-submit-1712345678901", fake.putBody["branch"])

	raw, err := base64.StdEncoding.DecodeString(fake.putBody["content"].(string))
	require.NoError(t, err)
	parsed := Parse(string(raw))
	require.Len(t, parsed, 2)
	assert.Equal(t, "other", parsed[0].ID)
	assert.Equal(t, "orbit", parsed[1].ID)
}

func TestProposeChangeRejectsInvalidEntry(t *testing.T) {
	client := forge.NewClient("http://unused.invalid", "token", nil)
	store := NewStore(client, testPublishConfig(), nil)

	bad := sampleEntry("orbit")
	bad.Name = "has, comma"
	_, err := store.ProposeChange(context.Background(), bad)
	assert.Error(t, err)
}

func TestUpdateEntryOnBranch(t *testing.T) {
	fake := &fakeCatalogForge{
		catalogCSV: Serialize([]models.CatalogEntry{sampleEntry("orbit")}),
		catalogSHA: "blob-1",
	}
	server := fake.server(t)
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	store := NewStore(client, testPublishConfig(), nil)

	changed := sampleEntry("orbit")
	changed.RepoCommitHash = "updated-sha"
	err := store.UpdateEntryOnBranch(context.Background(), "alice", "ABRepo-TestEnv", "astrobox-submit-1", changed)
	require.NoError(t, err)

	assert.Equal(t, "Update orbit in catalog", fake.putBody["message"])
	assert.Equal(t, "blob-1", fake.putBody["sha"])

	raw, err := base64.StdEncoding.DecodeString(fake.putBody["content"].(string))
	require.NoError(t, err)
	parsed := Parse(string(raw))
	require.Len(t, parsed, 1)
	assert.Equal(t, "updated-sha", parsed[0].RepoCommitHash)
}

func TestFetchEntries(t *testing.T) {
	csv := Serialize([]models.CatalogEntry{sampleEntry("a"), sampleEntry("b")})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/AstralSightStudios/ABRepo-TestEnv/contents/index_v2.csv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		json.NewEncoder(w).Encode(map[string]string{
			"path":    "index_v2.csv",
			"sha":     "blob-sha",
			"content": base64.StdEncoding.EncodeToString([]byte(csv)),
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	store := NewStore(client, testPublishConfig(), nil)

	snapshot, err := store.FetchEntries(context.Background(), FetchOptions{})
	require.NoError(t, err)

	assert.Len(t, snapshot.Entries, 2)
	assert.Equal(t, "blob-sha", snapshot.SHA)
	assert.Equal(t, "AstralSightStudios", snapshot.Owner)
	assert.Equal(t, "main", snapshot.Ref)
}

func TestBuildEntryDedupesDevices(t *testing.T) {
	entry := BuildEntry(BuildEntryInput{
		Repo: models.RepoInfo{
			Owner:     "alice",
			Name:      "astrobox-resource-orbit",
			CommitSHA: "sha-1",
		},
		IconPath:  "media/icon.png",
		CoverPath: "media/cover.png",
		Tags:      []string{"minimal", "dark"},
		Devices: []models.DeviceSelection{
			{ID: "miwatch-s3", Vendor: "xiaomi"},
			{ID: "miwatch-s4", Vendor: "xiaomi"},
			{ID: "miwatch-s3", Vendor: "xiaomi"},
		},
		ItemID:   "  orbit  ",
		ItemName: "Orbit Face",
		Restype:  "watchface",
		PaidType: "free",
	})

	assert.Equal(t, "orbit", entry.ID)
	assert.Equal(t, "sha-1", entry.RepoCommitHash)
	assert.Equal(t, "minimal;dark", entry.Tags)
	assert.Equal(t, "xiaomi", entry.DeviceVendors)
	assert.Equal(t, "miwatch-s3;miwatch-s4", entry.Devices)
}
