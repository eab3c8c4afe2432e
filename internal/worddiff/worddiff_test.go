package worddiff

import (
	"strings"
	"testing"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(oldText string, ops []model.DiffOp) string {
	var b strings.Builder
	oldRunes := []rune(oldText)
	pos := 0
	for _, op := range ops {
		switch op.Kind {
		case model.DiffEqual:
			b.WriteString(string(oldRunes[op.OldStart:op.OldEnd]))
			pos = op.OldEnd
		case model.DiffDelete:
			pos = op.OldEnd
		case model.DiffInsert:
			b.WriteString(op.Text)
		}
	}
	_ = pos
	return b.String()
}

func TestDiffSoundnessMixedEdit(t *testing.T) {
	old := "The quick brown fox jumps."
	new := "The quick red fox hopped."
	ops := Diff(old, new)
	require.NotEmpty(t, ops)
	assert.Equal(t, new, apply(old, ops))

	var sawInsertRed, sawDeleteBrown bool
	for _, op := range ops {
		if op.Kind == model.DiffInsert && strings.Contains(op.Text, "red") {
			sawInsertRed = true
		}
		if op.Kind == model.DiffDelete && strings.Contains(op.Text, "brown") {
			sawDeleteBrown = true
		}
	}
	assert.True(t, sawInsertRed)
	assert.True(t, sawDeleteBrown)
}

func TestDiffEqualTextProducesNoEdits(t *testing.T) {
	ops := Diff("same text", "same text")
	for _, op := range ops {
		assert.Equal(t, model.DiffEqual, op.Kind)
	}
}

func TestDiffDeterministic(t *testing.T) {
	old := "alpha beta gamma"
	new := "alpha delta gamma"
	ops1 := Diff(old, new)
	ops2 := Diff(old, new)
	assert.Equal(t, ops1, ops2)
}

func TestDiffCoalescesConsecutiveOps(t *testing.T) {
	ops := Diff("a b c", "a b c d e")
	for i := 1; i < len(ops); i++ {
		assert.NotEqual(t, ops[i-1].Kind, ops[i].Kind, "adjacent ops of the same kind must be coalesced")
	}
}

// A short equal span wedged between two delete spans (no insert neighbor to
// absorb it into) must survive semantic cleanup and still appear in the
// reconstructed new text.
func TestDiffSoundnessShortEqualBetweenTwoDeletes(t *testing.T) {
	old := "aaaa bbbb cccc X dddd eeee"
	new := "aaaa bbbb X ffff gggg"
	ops := Diff(old, new)
	require.NotEmpty(t, ops)
	assert.Equal(t, new, apply(old, ops))
	assert.Contains(t, apply(old, ops), "X")
}
