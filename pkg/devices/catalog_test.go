package devices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devicesPayloadJSON = `{
	"xiaomi": {
		"s3": {"id": "miwatch-s3", "name": "Xiaomi Watch S3"},
		"s4": {"id": "miwatch-s4", "name": "Xiaomi Watch S4"},
		"s3-alias": {"id": "miwatch-s3", "name": "Duplicate S3"}
	},
	"amazfit": {
		"bip": {"id": "amazfit-bip", "name": ""}
	}
}`

func catalogServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Write([]byte(devicesPayloadJSON))
	}))
}

func TestLoadOptionsParsesAndSorts(t *testing.T) {
	server := catalogServer(t, nil)
	defer server.Close()

	resolver := NewResolver(server.URL)
	options, err := resolver.LoadOptions(context.Background())
	require.NoError(t, err)

	// Vendors in lexical order, device keys in lexical order within each.
	require.Len(t, options, 3)
	assert.Equal(t, "amazfit-bip", options[0].ID)
	assert.Equal(t, "miwatch-s3", options[1].ID)
	assert.Equal(t, "miwatch-s4", options[2].ID)

	// Missing name falls back to the id; duplicate ids keep the first entry.
	assert.Equal(t, "amazfit-bip", options[0].Name)
	assert.Equal(t, "Xiaomi Watch S3", options[1].Name)
	assert.Equal(t, "xiaomi", options[1].Vendor)
}

func TestLoadOptionsCachesResult(t *testing.T) {
	var hits int32
	server := catalogServer(t, &hits)
	defer server.Close()

	resolver := NewResolver(server.URL)
	_, err := resolver.LoadOptions(context.Background())
	require.NoError(t, err)
	_, err = resolver.LoadOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLoadOptionsEmptyCatalogIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	resolver := NewResolver(server.URL)
	_, err := resolver.LoadOptions(context.Background())
	assert.Error(t, err)
}

func TestLoadOptionsHTTPErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL)
	_, err := resolver.LoadOptions(context.Background())
	assert.Error(t, err)
}

func TestVendorOf(t *testing.T) {
	server := catalogServer(t, nil)
	defer server.Close()

	resolver := NewResolver(server.URL)
	vendor, err := resolver.VendorOf(context.Background(), "miwatch-s4")
	require.NoError(t, err)
	assert.Equal(t, "xiaomi", vendor)

	vendor, err = resolver.VendorOf(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, vendor)
}

func TestResolveName(t *testing.T) {
	names := map[string]string{
		"miwatch-s3": "Xiaomi Watch S3",
	}

	assert.Equal(t, "Xiaomi Watch S3", ResolveName(names, "raw", "miwatch-s3"))
	assert.Equal(t, "Xiaomi Watch S3", ResolveName(names, "miwatch-s3", ""))
	assert.Equal(t, "raw name", ResolveName(names, "raw name", "unknown"))
}
