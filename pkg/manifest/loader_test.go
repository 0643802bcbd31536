package manifest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/forge"
	"github.com/astralsight/abcc-cli/pkg/models"
)

func loaderEntry() models.CatalogEntry {
	return models.CatalogEntry{
		ID:             "com.example.orbit",
		Name:           "Orbit Face",
		RepoOwner:      "alice",
		RepoName:       "astrobox-resource-com-example-orbit",
		RepoCommitHash: "pinned-sha",
	}
}

func loaderConfig() models.PublishConfig {
	return models.PublishConfig{
		ManifestFileName: "manifest_v2.json",
		DefaultBranch:    "main",
	}
}

func manifestServer(t *testing.T, doc models.ManifestDocument, wantRef *string) *httptest.Server {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alice/astrobox-resource-com-example-orbit/contents/manifest_v2.json",
		func(w http.ResponseWriter, r *http.Request) {
			*wantRef = r.URL.Query().Get("ref")
			fmt.Fprintf(w, `{"path":"manifest_v2.json","sha":"blob-1","content":"%s"}`,
				base64.StdEncoding.EncodeToString(raw))
		})
	return httptest.NewServer(mux)
}

func TestFetchForCatalogEntryUsesPinnedCommit(t *testing.T) {
	doc := models.ManifestDocument{
		Item: models.ManifestItem{ID: "com.example.orbit", Name: "Orbit Face"},
		Downloads: map[string]models.ManifestPackage{
			"miwatch-s3": {Version: "1.0", FileName: "downloads/orbit.abp"},
		},
	}
	var gotRef string
	server := manifestServer(t, doc, &gotRef)
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	result, err := FetchForCatalogEntry(context.Background(), client, loaderConfig(), loaderEntry(), "")
	require.NoError(t, err)

	assert.Equal(t, "pinned-sha", gotRef)
	assert.Equal(t, "com.example.orbit", result.Manifest.Item.ID)
	assert.Equal(t, "blob-1", result.SHA)
	assert.Equal(t, "alice", result.Repo.Owner)
	assert.Equal(t, "main", result.Repo.Branch)
}

func TestFetchForCatalogEntryRefOverride(t *testing.T) {
	doc := models.ManifestDocument{Item: models.ManifestItem{ID: "com.example.orbit"}}
	var gotRef string
	server := manifestServer(t, doc, &gotRef)
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	_, err := FetchForCatalogEntry(context.Background(), client, loaderConfig(), loaderEntry(), "feature-branch")
	require.NoError(t, err)
	assert.Equal(t, "feature-branch", gotRef)
}

func TestFetchForCatalogEntryFallsBackToDefaultBranch(t *testing.T) {
	doc := models.ManifestDocument{Item: models.ManifestItem{ID: "com.example.orbit"}}
	var gotRef string
	server := manifestServer(t, doc, &gotRef)
	defer server.Close()

	entry := loaderEntry()
	entry.RepoCommitHash = ""

	client := forge.NewClient(server.URL, "token", nil)
	_, err := FetchForCatalogEntry(context.Background(), client, loaderConfig(), entry, "")
	require.NoError(t, err)
	assert.Equal(t, "main", gotRef)
}

func TestFetchForCatalogEntryRejectsInvalidManifest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alice/astrobox-resource-com-example-orbit/contents/manifest_v2.json",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"path":"manifest_v2.json","sha":"blob-1","content":"%s"}`,
				base64.StdEncoding.EncodeToString([]byte("not json")))
		})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	_, err := FetchForCatalogEntry(context.Background(), client, loaderConfig(), loaderEntry(), "")
	require.Error(t, err)
	assert.True(t, aberrors.IsType(err, aberrors.ErrorTypeValidation))
}

func TestFetchForCatalogEntryPropagatesNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := forge.NewClient(server.URL, "token", nil)
	_, err := FetchForCatalogEntry(context.Background(), client, loaderConfig(), loaderEntry(), "")
	require.Error(t, err)
	assert.True(t, forge.IsNotFound(err))
}

func TestBuildRawFileURL(t *testing.T) {
	url := BuildRawFileURL("https://raw.githubusercontent.com/", "alice", "repo", "pinned-sha", "downloads/orbit face.abp")
	assert.Equal(t, "https://raw.githubusercontent.com/alice/repo/pinned-sha/downloads/orbit%20face.abp", url)
}
