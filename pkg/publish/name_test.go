package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRepoName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"com.example.app", "astrobox-resource-com-example-app"},
		{"Orbit Face!", "astrobox-resource-orbit-face"},
		{"already-safe_name", "astrobox-resource-already-safe_name"},
		{"--leading and trailing--", "astrobox-resource-leading-and-trailing"},
		{"多字节名字", "astrobox-resource-submission"},
		{"", "astrobox-resource-submission"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildRepoName("astrobox-resource-", tt.slug), "slug %q", tt.slug)
	}
}

func TestResolveRepoName(t *testing.T) {
	assert.Equal(t, "astrobox-resource-com.example.app",
		ResolveRepoName("astrobox-resource-", "com.example.app", "fallback"))
	assert.Equal(t, "astrobox-resource-my-app",
		ResolveRepoName("astrobox-resource-", "My App", "fallback"))
	assert.Equal(t, "fallback",
		ResolveRepoName("astrobox-resource-", "", "fallback"))
}
