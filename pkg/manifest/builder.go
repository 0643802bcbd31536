// Package manifest builds the manifest_v2.json document and its asset upload
// descriptors from structured user input. Building is pure: no I/O, and
// malformed caller input degrades to defensive defaults instead of errors.
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/astralsight/abcc-cli/pkg/models"
)

// AssetInput is one user-supplied media or package file
type AssetInput struct {
	ID   string
	Name string
	Data []byte
	// PathOverride pins the asset to an existing repo path (used when editing
	// and re-using previously uploaded media).
	PathOverride string
	SkipUpload   bool
}

// DownloadInput is one per-device package row
type DownloadInput struct {
	PlatformID   string
	Version      string
	File         *AssetInput
	PathOverride string
	SkipUpload   bool
}

// BuildInput is everything the builder consumes
type BuildInput struct {
	ItemID            string
	ItemName          string
	Description       string
	ResourceType      models.ResourceType
	Previews          []AssetInput
	Icon              *AssetInput
	Cover             *AssetInput
	UsePreviewAsCover bool
	CoverPreviewID    string
	Authors           []models.ManifestAuthor
	Links             []models.ManifestLink
	Downloads         []DownloadInput
	Ext               json.RawMessage
	MediaDirectory    string
	DownloadsDir      string
}

// AssetDescriptor is one planned upload. SkipUpload means the asset already
// exists unchanged at that path and must not be re-uploaded.
type AssetDescriptor struct {
	Path       string
	Data       []byte
	SkipUpload bool
}

// DownloadAsset is a package upload with its platform attribution
type DownloadAsset struct {
	AssetDescriptor
	PlatformID string
	Version    string
}

// BuildResult is the manifest document plus the upload plan
type BuildResult struct {
	ManifestJSON   []byte
	Document       models.ManifestDocument
	PreviewAssets  []AssetDescriptor
	IconAsset      *AssetDescriptor
	CoverAsset     *AssetDescriptor
	DownloadAssets []DownloadAsset
	IconPath       string
	CoverPath      string
	PreviewPaths   []string
}

// Build deterministically computes asset paths ({mediaDir}/{name} for media,
// {downloadsDir}/{name} for packages, unless overridden), resolves the cover,
// drops authors/links with empty required fields and download rows without
// both a platform id and a file, and renders the manifest document.
func Build(input BuildInput) (*BuildResult, error) {
	mediaDir := strings.TrimRight(input.MediaDirectory, "/")
	downloadsDir := strings.TrimRight(input.DownloadsDir, "/")

	mediaPath := func(asset AssetInput) string {
		if asset.PathOverride != "" {
			return asset.PathOverride
		}
		return mediaDir + "/" + asset.Name
	}

	previewAssets := make([]AssetDescriptor, 0, len(input.Previews))
	previewPathByID := make(map[string]string, len(input.Previews))
	for _, preview := range input.Previews {
		path := mediaPath(preview)
		previewAssets = append(previewAssets, AssetDescriptor{
			Path:       path,
			Data:       preview.Data,
			SkipUpload: preview.SkipUpload,
		})
		key := preview.ID
		if key == "" {
			key = preview.Name
		}
		previewPathByID[key] = path
	}
	previewPaths := make([]string, len(previewAssets))
	for i, asset := range previewAssets {
		previewPaths[i] = asset.Path
	}

	var iconAsset *AssetDescriptor
	if input.Icon != nil {
		iconAsset = &AssetDescriptor{
			Path:       mediaPath(*input.Icon),
			Data:       input.Icon.Data,
			SkipUpload: input.Icon.SkipUpload,
		}
	}

	var coverAsset *AssetDescriptor
	if !input.UsePreviewAsCover && input.Cover != nil {
		coverAsset = &AssetDescriptor{
			Path:       mediaPath(*input.Cover),
			Data:       input.Cover.Data,
			SkipUpload: input.Cover.SkipUpload,
		}
	}

	coverPath := ""
	if input.UsePreviewAsCover {
		key := input.CoverPreviewID
		if key == "" && len(input.Previews) > 0 {
			first := input.Previews[0]
			key = first.ID
			if key == "" {
				key = first.Name
			}
		}
		coverPath = previewPathByID[key]
	} else if coverAsset != nil {
		coverPath = coverAsset.Path
	}

	var downloadAssets []DownloadAsset
	for _, row := range input.Downloads {
		platformID := strings.TrimSpace(row.PlatformID)
		if platformID == "" || row.File == nil {
			continue
		}
		path := row.File.PathOverride
		if path == "" {
			path = row.PathOverride
		}
		if path == "" {
			path = downloadsDir + "/" + row.File.Name
		}
		skip := row.File.SkipUpload || row.SkipUpload
		downloadAssets = append(downloadAssets, DownloadAsset{
			AssetDescriptor: AssetDescriptor{
				Path:       path,
				Data:       row.File.Data,
				SkipUpload: skip,
			},
			PlatformID: platformID,
			Version:    strings.TrimSpace(row.Version),
		})
	}

	downloads := make(map[string]models.ManifestPackage, len(downloadAssets))
	for _, asset := range downloadAssets {
		downloads[asset.PlatformID] = models.ManifestPackage{
			Version:  asset.Version,
			FileName: asset.Path,
		}
	}

	authors := make([]models.ManifestAuthor, 0, len(input.Authors))
	for _, author := range input.Authors {
		name := strings.TrimSpace(author.Name)
		if name == "" {
			continue
		}
		authors = append(authors, models.ManifestAuthor{
			Name:          name,
			BindABAccount: author.BindABAccount,
		})
	}

	links := make([]models.ManifestLink, 0, len(input.Links))
	for _, link := range input.Links {
		title := strings.TrimSpace(link.Title)
		url := strings.TrimSpace(link.URL)
		icon := strings.TrimSpace(link.Icon)
		if title == "" && url == "" && icon == "" {
			continue
		}
		links = append(links, models.ManifestLink{Title: title, URL: url, Icon: icon})
	}

	iconPath := ""
	if iconAsset != nil {
		iconPath = iconAsset.Path
	}

	doc := models.ManifestDocument{
		Item: models.ManifestItem{
			ID:          strings.TrimSpace(input.ItemID),
			Restype:     string(input.ResourceType),
			Name:        strings.TrimSpace(input.ItemName),
			Description: strings.TrimSpace(input.Description),
			Preview:     previewPaths,
			Icon:        iconPath,
			Cover:       coverPath,
			Author:      authors,
		},
		Links:     links,
		Downloads: downloads,
		Ext:       input.Ext,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	return &BuildResult{
		ManifestJSON:   data,
		Document:       doc,
		PreviewAssets:  previewAssets,
		IconAsset:      iconAsset,
		CoverAsset:     coverAsset,
		DownloadAssets: downloadAssets,
		IconPath:       iconPath,
		CoverPath:      coverPath,
		PreviewPaths:   previewPaths,
	}, nil
}
