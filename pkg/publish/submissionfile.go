package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
	"github.com/astralsight/abcc-cli/pkg/assets"
	"github.com/astralsight/abcc-cli/pkg/manifest"
	"github.com/astralsight/abcc-cli/pkg/models"
)

// FileRef points at a local file to upload, or at a path already present in
// the resource repository (keep: true skips the upload).
type FileRef struct {
	Path     string `yaml:"path"`
	RepoPath string `yaml:"repo_path"`
	Keep     bool   `yaml:"keep"`
}

// DownloadSpec is one per-device package row of a submission file
type DownloadSpec struct {
	Device   string `yaml:"device"`
	Version  string `yaml:"version"`
	File     string `yaml:"file"`
	RepoPath string `yaml:"repo_path"`
	Keep     bool   `yaml:"keep"`
}

// AuthorSpec credits one author
type AuthorSpec struct {
	Name          string `yaml:"name"`
	BindABAccount bool   `yaml:"bind_ab_account"`
}

// LinkSpec is one external link
type LinkSpec struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

// SubmissionFile is the YAML description of one resource submission
type SubmissionFile struct {
	ID                string         `yaml:"id"`
	Name              string         `yaml:"name"`
	Description       string         `yaml:"description"`
	Restype           string         `yaml:"restype"`
	Tags              []string       `yaml:"tags"`
	PaidType          string         `yaml:"paid_type"`
	Previews          []FileRef      `yaml:"previews"`
	Icon              *FileRef       `yaml:"icon"`
	Cover             *FileRef       `yaml:"cover"`
	UsePreviewAsCover bool           `yaml:"use_preview_as_cover"`
	CoverPreview      string         `yaml:"cover_preview"`
	Authors           []AuthorSpec   `yaml:"authors"`
	Links             []LinkSpec     `yaml:"links"`
	Downloads         []DownloadSpec `yaml:"downloads"`
	Ext               interface{}    `yaml:"ext"`
}

// LoadSubmissionFile parses a submission YAML and resolves its file
// references relative to the file's directory into a manifest build input.
// Icons are normalized to the catalog's standard size before upload.
func LoadSubmissionFile(path string, cfg models.PublishConfig) (*manifest.BuildInput, []models.DeviceSelection, *SubmissionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read submission file: %w", err)
	}

	var spec SubmissionFile
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse submission file: %w", err)
	}

	baseDir := filepath.Dir(path)

	loadRef := func(ref FileRef) (manifest.AssetInput, error) {
		asset := manifest.AssetInput{
			Name:         filepath.Base(ref.Path),
			PathOverride: ref.RepoPath,
			SkipUpload:   ref.Keep,
		}
		if ref.Keep {
			if ref.RepoPath == "" {
				return asset, aberrors.Validation("publish.keep_without_path",
					"a kept asset needs repo_path to locate it")
			}
			asset.Name = filepath.Base(ref.RepoPath)
			return asset, nil
		}
		content, err := os.ReadFile(filepath.Join(baseDir, ref.Path))
		if err != nil {
			return asset, fmt.Errorf("failed to read asset %s: %w", ref.Path, err)
		}
		asset.Data = content
		return asset, nil
	}

	input := &manifest.BuildInput{
		ItemID:            spec.ID,
		ItemName:          spec.Name,
		Description:       spec.Description,
		ResourceType:      models.ResourceType(spec.Restype),
		UsePreviewAsCover: spec.UsePreviewAsCover,
		CoverPreviewID:    spec.CoverPreview,
		MediaDirectory:    cfg.MediaDirectory,
		DownloadsDir:      cfg.DownloadsDir,
	}

	for _, ref := range spec.Previews {
		asset, err := loadRef(ref)
		if err != nil {
			return nil, nil, nil, err
		}
		asset.ID = ref.Path
		input.Previews = append(input.Previews, asset)
	}

	if spec.Icon != nil {
		asset, err := loadRef(*spec.Icon)
		if err != nil {
			return nil, nil, nil, err
		}
		if len(asset.Data) > 0 {
			normalized, err := assets.NormalizeIcon(asset.Data)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("icon %s: %w", spec.Icon.Path, err)
			}
			asset.Data = normalized
		}
		input.Icon = &asset
	}

	if spec.Cover != nil {
		asset, err := loadRef(*spec.Cover)
		if err != nil {
			return nil, nil, nil, err
		}
		input.Cover = &asset
	}

	for _, author := range spec.Authors {
		input.Authors = append(input.Authors, models.ManifestAuthor{
			Name:          author.Name,
			BindABAccount: author.BindABAccount,
		})
	}
	for _, link := range spec.Links {
		input.Links = append(input.Links, models.ManifestLink{
			Title: link.Title,
			URL:   link.URL,
			Icon:  link.Icon,
		})
	}

	var selections []models.DeviceSelection
	for _, row := range spec.Downloads {
		download := manifest.DownloadInput{
			PlatformID:   row.Device,
			Version:      row.Version,
			PathOverride: row.RepoPath,
			SkipUpload:   row.Keep,
		}
		if row.Keep {
			download.File = &manifest.AssetInput{
				Name:         filepath.Base(row.RepoPath),
				PathOverride: row.RepoPath,
				SkipUpload:   true,
			}
		} else if row.File != "" {
			content, err := os.ReadFile(filepath.Join(baseDir, row.File))
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to read package %s: %w", row.File, err)
			}
			download.File = &manifest.AssetInput{
				Name: filepath.Base(row.File),
				Data: content,
			}
		}
		input.Downloads = append(input.Downloads, download)
		if row.Device != "" {
			selections = append(selections, models.DeviceSelection{ID: row.Device})
		}
	}

	if spec.Ext != nil {
		ext, err := json.Marshal(spec.Ext)
		if err != nil {
			return nil, nil, nil, aberrors.Wrap(aberrors.ErrorTypeValidation, "publish.bad_ext",
				"ext must convert to valid JSON", err)
		}
		input.Ext = ext
	}

	return input, selections, &spec, nil
}
