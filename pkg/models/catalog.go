package models

// ResourceType identifies the kind of publishable resource
type ResourceType string

const (
	ResourceTypeQuickApp  ResourceType = "quick_app"
	ResourceTypeWatchface ResourceType = "watchface"
)

// CatalogEntry is one row of the global catalog index.
// Field values must not contain commas or newlines; the catalog CSV format
// has no quoting or escaping.
type CatalogEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Restype        string `json:"restype"`
	RepoOwner      string `json:"repo_owner"`
	RepoName       string `json:"repo_name"`
	RepoCommitHash string `json:"repo_commit_hash"`
	Icon           string `json:"icon"`
	Cover          string `json:"cover"`
	Tags           string `json:"tags"`
	DeviceVendors  string `json:"device_vendors"`
	Devices        string `json:"devices"`
	PaidType       string `json:"paid_type"`
}

// CatalogContext identifies where a catalog entry was read from
type CatalogContext struct {
	Entry CatalogEntry `json:"entry"`
	Owner string       `json:"owner"`
	Repo  string       `json:"repo"`
	Ref   string       `json:"ref"`
	SHA   string       `json:"sha,omitempty"`
}

// EditMode selects which protocol branch an edit takes
type EditMode string

const (
	// EditModeInProgress edits a resource still under review on its open PR branch
	EditModeInProgress EditMode = "in_progress"
	// EditModeCatalog edits an already-merged catalog entry via a fresh fork/branch/PR
	EditModeCatalog EditMode = "catalog"
)

// ResourceEditContext carries the coordinates needed to edit an existing resource
type ResourceEditContext struct {
	Mode     EditMode       `json:"mode"`
	Catalog  CatalogContext `json:"catalog"`
	PrNumber int            `json:"pr_number,omitempty"`
	PrHead   *PrHead        `json:"pr_head,omitempty"`
}

// PrHead identifies the head branch of an open pull request
type PrHead struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref"`
}
