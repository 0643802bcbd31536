// Package devices resolves the vendor → device-id → display-name table used
// to label and validate device targets.
package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Resolver fetches and caches the device catalog. The cache is read-mostly;
// redundant loads produce equivalent values, last writer wins.
type Resolver struct {
	url        string
	httpClient *http.Client

	mu     sync.Mutex
	cached []Option
}

// Option is one selectable device target
type Option struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Vendor string `json:"vendor,omitempty"`
}

// NewResolver creates a resolver for the given device catalog URL
func NewResolver(url string) *Resolver {
	return &Resolver{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type devicesPayload map[string]map[string]struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LoadOptions returns the cached device options, fetching them on first use
func (r *Resolver) LoadOptions(ctx context.Context) ([]Option, error) {
	r.mu.Lock()
	if r.cached != nil {
		cached := r.cached
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	options, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cached = options
	r.mu.Unlock()
	return options, nil
}

func (r *Resolver) fetch(ctx context.Context) ([]Option, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build device catalog request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device catalog request failed: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read device catalog: %w", err)
	}

	var payload devicesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse device catalog: %w", err)
	}

	options := parseOptions(payload)
	if len(options) == 0 {
		return nil, fmt.Errorf("device catalog is empty")
	}
	return options, nil
}

func parseOptions(payload devicesPayload) []Option {
	byID := map[string]Option{}
	var ids []string
	vendors := make([]string, 0, len(payload))
	for vendor := range payload {
		vendors = append(vendors, vendor)
	}
	sort.Strings(vendors)

	for _, vendor := range vendors {
		deviceKeys := make([]string, 0, len(payload[vendor]))
		for key := range payload[vendor] {
			deviceKeys = append(deviceKeys, key)
		}
		sort.Strings(deviceKeys)

		for _, key := range deviceKeys {
			device := payload[vendor][key]
			if _, exists := byID[device.ID]; exists {
				continue
			}
			name := device.Name
			if name == "" {
				name = device.ID
			}
			byID[device.ID] = Option{ID: device.ID, Name: name, Vendor: vendor}
			ids = append(ids, device.ID)
		}
	}

	options := make([]Option, 0, len(ids))
	for _, id := range ids {
		options = append(options, byID[id])
	}
	return options
}

// NameMap returns a device-id → display-name lookup
func (r *Resolver) NameMap(ctx context.Context) (map[string]string, error) {
	options, err := r.LoadOptions(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(options))
	for _, option := range options {
		names[option.ID] = option.Name
	}
	return names, nil
}

// VendorOf returns the vendor for a device id, or the empty string
func (r *Resolver) VendorOf(ctx context.Context, deviceID string) (string, error) {
	options, err := r.LoadOptions(ctx)
	if err != nil {
		return "", err
	}
	for _, option := range options {
		if option.ID == deviceID {
			return option.Vendor, nil
		}
	}
	return "", nil
}

// ResolveName maps a raw device name or id to its display name, falling back
// to the raw name when the catalog has no match. Name normalization is an
// optional nicety: lookup failures never abort the caller's operation.
func ResolveName(names map[string]string, rawName, rawID string) string {
	if rawID != "" {
		if name, ok := names[rawID]; ok {
			return name
		}
	}
	if name, ok := names[rawName]; ok {
		return name
	}
	return rawName
}
