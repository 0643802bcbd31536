package forge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
)

func TestDoRequiresToken(t *testing.T) {
	client := NewClient("http://unused.invalid", "", nil)

	_, err := client.GetRepo(context.Background(), "alice", "repo")
	require.Error(t, err)
	assert.True(t, aberrors.IsType(err, aberrors.ErrorTypePrecondition))
}

func TestDoSendsAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":           "repo",
			"default_branch": "main",
			"owner":          map[string]string{"login": "alice"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", nil)
	repo, err := client.GetRepo(context.Background(), "alice", "repo")
	require.NoError(t, err)
	assert.Equal(t, "alice", repo.Owner)
	assert.Equal(t, "main", repo.Branch)
}

func TestDoSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", nil)
	_, err := client.GetRepo(context.Background(), "alice", "repo")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "rate limited")
}

func TestCreateOrGetUserRepoFallsBackWhenNameTaken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"message":"name already exists on this account"}]}`))
	})
	mux.HandleFunc("GET /repos/alice/taken", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":           "taken",
			"default_branch": "main",
			"owner":          map[string]string{"login": "alice"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "token", nil)
	repo, err := client.CreateOrGetUserRepo(context.Background(), "alice", "taken", "", "main")
	require.NoError(t, err)
	assert.Equal(t, "taken", repo.Name)
	assert.Equal(t, "alice", repo.Owner)
}

func TestCreateOrGetUserRepoPropagatesOtherErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", nil)
	_, err := client.CreateOrGetUserRepo(context.Background(), "alice", "repo", "", "main")
	assert.Error(t, err)
}

func TestGetFileSHAMissingFileIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", nil)
	sha, err := client.GetFileSHA(context.Background(), "alice", "repo", "missing.txt", "main")
	require.NoError(t, err)
	assert.Empty(t, sha)
}

func TestFileContentDecodeStripsNewlines(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello catalog"))
	wrapped := encoded[:10] + "\n" + encoded[10:] + "\n"

	file := &FileContent{Content: wrapped}
	data, err := file.Decode()
	require.NoError(t, err)
	assert.Equal(t, "hello catalog", string(data))
}

func TestPutFileSendsSHAGuard(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"commit":  map[string]string{"sha": "c1"},
			"content": map[string]string{"sha": "b1"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", nil)
	res, err := client.PutFile(context.Background(), "alice", "repo", "media/icon.png", PutFileInput{
		Message: "Update icon",
		Content: []byte("data"),
		SHA:     "old-blob",
		Branch:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", res.CommitSHA)

	assert.Equal(t, "old-blob", got["sha"])
	assert.Equal(t, "main", got["branch"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("data")), got["content"])
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: 404}))
	assert.False(t, IsNotFound(&APIError{StatusCode: 500}))

	assert.True(t, IsAlreadyExists(&APIError{StatusCode: 409}))
	assert.True(t, IsAlreadyExists(&APIError{StatusCode: 422, Body: "name already exists"}))
	assert.False(t, IsAlreadyExists(&APIError{StatusCode: 422, Body: "something else"}))

	assert.True(t, IsConflict(&APIError{StatusCode: 409}))
	assert.True(t, IsConflict(&APIError{StatusCode: 422, Body: "sha does not match"}))
	assert.False(t, IsConflict(&APIError{StatusCode: 404}))

	assert.False(t, IsNotFound(context.Canceled))
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "media/ic%20on.png", escapePath("media/ic on.png"))
	assert.Equal(t, "manifest_v2.json", escapePath("manifest_v2.json"))
}
