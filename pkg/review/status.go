// Package review derives human-facing moderation status from structured
// tokens embedded in pull-request comments.
package review

import (
	"regexp"
	"strings"
)

// State is the derived review state of a submission
type State string

const (
	// StateWaitingReview means no NEEDFIX has ever appeared
	StateWaitingReview State = "waiting_review"
	// StateChangesRequested means at least one NEEDFIX id lacks a FIXED
	StateChangesRequested State = "changes_requested"
	// StateFixedWaiting means every NEEDFIX id has a matching FIXED
	StateFixedWaiting State = "fixed_waiting"
)

// NeedFixItem is one outstanding or resolved review remark
type NeedFixItem struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Fixed   bool   `json:"fixed"`
}

// Result is recomputed fresh from the full comment history on every query
type Result struct {
	State State         `json:"state"`
	Items []NeedFixItem `json:"items"`
}

var commentPattern = regexp.MustCompile(`(?i)^\s*\[ABCC_(NEEDFIX|FIXED)_([^\]]+)\]\s*(.*)$`)

// Derive folds an ordered list of comment bodies into a review status. For a
// repeated NEEDFIX id the last message wins; item order is first appearance.
// Re-running on the same list is deterministic.
func Derive(comments []string) Result {
	messages := map[string]string{}
	var order []string
	fixed := map[string]bool{}

	for _, comment := range comments {
		body := strings.TrimSpace(comment)
		if body == "" {
			continue
		}
		match := commentPattern.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		kind := strings.ToUpper(match[1])
		id := strings.TrimSpace(match[2])
		message := strings.TrimSpace(match[3])

		switch kind {
		case "NEEDFIX":
			if _, seen := messages[id]; !seen {
				order = append(order, id)
			}
			messages[id] = message
			// A NEEDFIX after a FIXED re-opens the item.
			delete(fixed, id)
		case "FIXED":
			fixed[id] = true
		}
	}

	if len(messages) == 0 {
		return Result{State: StateWaitingReview, Items: []NeedFixItem{}}
	}

	items := make([]NeedFixItem, 0, len(order))
	unresolved := false
	for _, id := range order {
		item := NeedFixItem{
			ID:      id,
			Message: messages[id],
			Fixed:   fixed[id],
		}
		if !item.Fixed {
			unresolved = true
		}
		items = append(items, item)
	}

	state := StateFixedWaiting
	if unresolved {
		state = StateChangesRequested
	}
	return Result{State: state, Items: items}
}
