package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	aberrors "github.com/astralsight/abcc-cli/internal/errors"
)

// Validate checks a submission before its first network effect. Violations
// are terminal for the run; nothing is partially submitted.
func (o *Orchestrator) Validate() error {
	input := o.input

	if strings.TrimSpace(input.ItemID) == "" {
		return aberrors.Validation("publish.missing_id", "resource id must not be empty")
	}
	if strings.TrimSpace(input.ItemName) == "" {
		return aberrors.Validation("publish.missing_name", "resource name must not be empty")
	}
	if len(input.Tags) == 0 {
		return aberrors.Validation("publish.missing_tags", "at least one tag is required")
	}
	if len(input.Build.PreviewAssets) == 0 {
		return aberrors.Validation("publish.missing_preview", "at least one preview image is required")
	}

	packaged := make(map[string]bool, len(input.Build.DownloadAssets))
	for _, asset := range input.Build.DownloadAssets {
		packaged[asset.PlatformID] = true
	}
	for _, device := range input.Devices {
		if !packaged[device.ID] {
			return aberrors.Validation("publish.missing_package",
				fmt.Sprintf("device %s has no attached package file", device.ID))
		}
	}

	if len(input.Build.Document.Ext) > 0 && !json.Valid(input.Build.Document.Ext) {
		return aberrors.Validation("publish.bad_ext", "ext must be valid JSON")
	}

	return nil
}
