package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNoComments(t *testing.T) {
	result := Derive(nil)

	assert.Equal(t, StateWaitingReview, result.State)
	assert.Empty(t, result.Items)
}

func TestDeriveIgnoresPlainComments(t *testing.T) {
	result := Derive([]string{
		"Looks great!",
		"Can you add a screenshot?",
		"",
	})

	assert.Equal(t, StateWaitingReview, result.State)
	assert.Empty(t, result.Items)
}

func TestDeriveSingleNeedFix(t *testing.T) {
	result := Derive([]string{
		"[ABCC_NEEDFIX_icon] icon is blurry",
	})

	assert.Equal(t, StateChangesRequested, result.State)
	if assert.Len(t, result.Items, 1) {
		assert.Equal(t, "icon", result.Items[0].ID)
		assert.Equal(t, "icon is blurry", result.Items[0].Message)
		assert.False(t, result.Items[0].Fixed)
	}
}

func TestDeriveAllFixed(t *testing.T) {
	result := Derive([]string{
		"[ABCC_NEEDFIX_icon] icon is blurry",
		"[ABCC_NEEDFIX_name] name too long",
		"[ABCC_FIXED_icon]",
		"[ABCC_FIXED_name]",
	})

	assert.Equal(t, StateFixedWaiting, result.State)
	assert.Len(t, result.Items, 2)
	for _, item := range result.Items {
		assert.True(t, item.Fixed)
	}
}

func TestDeriveNeedFixAfterFixedReopens(t *testing.T) {
	result := Derive([]string{
		"[ABCC_NEEDFIX_A] first pass",
		"[ABCC_FIXED_A]",
		"[ABCC_NEEDFIX_A] still broken",
	})

	assert.Equal(t, StateChangesRequested, result.State)
	if assert.Len(t, result.Items, 1) {
		assert.Equal(t, "A", result.Items[0].ID)
		assert.Equal(t, "still broken", result.Items[0].Message)
		assert.False(t, result.Items[0].Fixed)
	}
}

func TestDeriveLastMessageWinsKeepsFirstSeenOrder(t *testing.T) {
	result := Derive([]string{
		"[ABCC_NEEDFIX_B] older remark",
		"[ABCC_NEEDFIX_A] about A",
		"[ABCC_NEEDFIX_B] newer remark",
	})

	assert.Equal(t, StateChangesRequested, result.State)
	if assert.Len(t, result.Items, 2) {
		assert.Equal(t, "B", result.Items[0].ID)
		assert.Equal(t, "newer remark", result.Items[0].Message)
		assert.Equal(t, "A", result.Items[1].ID)
	}
}

func TestDeriveCaseInsensitiveAndPadded(t *testing.T) {
	result := Derive([]string{
		"  [abcc_needfix_cover]   cover missing  ",
		"[Abcc_Fixed_cover] done",
	})

	assert.Equal(t, StateFixedWaiting, result.State)
	if assert.Len(t, result.Items, 1) {
		assert.Equal(t, "cover", result.Items[0].ID)
		assert.True(t, result.Items[0].Fixed)
	}
}

func TestDeriveFixedWithoutNeedFixIsWaiting(t *testing.T) {
	result := Derive([]string{
		"[ABCC_FIXED_ghost]",
	})

	assert.Equal(t, StateWaitingReview, result.State)
	assert.Empty(t, result.Items)
}

func TestDeriveIsDeterministic(t *testing.T) {
	comments := []string{
		"[ABCC_NEEDFIX_a] one",
		"random chatter",
		"[ABCC_NEEDFIX_b] two",
		"[ABCC_FIXED_a]",
	}

	first := Derive(comments)
	second := Derive(comments)
	assert.Equal(t, first, second)
}
