package models

import "encoding/json"

// ManifestDocument is the publishable unit stored as manifest_v2.json inside
// the resource's own repository. It is written wholesale on each publish or
// update, never partially patched.
type ManifestDocument struct {
	Item      ManifestItem               `json:"item"`
	Links     []ManifestLink             `json:"links"`
	Downloads map[string]ManifestPackage `json:"downloads"`
	Ext       json.RawMessage            `json:"ext,omitempty"`
}

// ManifestItem describes the resource itself
type ManifestItem struct {
	ID          string           `json:"id"`
	Restype     string           `json:"restype"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Preview     []string         `json:"preview"`
	Icon        string           `json:"icon"`
	Cover       string           `json:"cover"`
	Author      []ManifestAuthor `json:"author"`
}

// ManifestAuthor credits a resource author
type ManifestAuthor struct {
	Name          string `json:"name"`
	BindABAccount bool   `json:"bindABAccount"`
}

// ManifestLink is an external link shown on the resource page
type ManifestLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

// ManifestPackage maps a device/platform id to its downloadable package
type ManifestPackage struct {
	Version  string `json:"version"`
	FileName string `json:"file_name"`
}

// RepoInfo identifies a per-resource repository and the last commit produced
// by an upload batch. CommitSHA must be set before a pull request referencing
// the repository may be opened.
type RepoInfo struct {
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	Branch    string `json:"branch"`
	HTMLURL   string `json:"html_url,omitempty"`
	CommitSHA string `json:"commit_sha,omitempty"`
}
