package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIfStackSimpleIfElse(t *testing.T) {
	s := newIfStack()
	assert.True(t, s.AtBottom())

	s.PushIf(false)
	assert.True(t, s.Skipping(), "false #if branch should be skipped")

	s.Else()
	assert.False(t, s.Skipping(), "#else of a false #if should be active")

	assert.True(t, s.EndIf())
	assert.True(t, s.AtBottom())
}

func TestIfStackElifChainTakesOnlyFirstTrueBranch(t *testing.T) {
	s := newIfStack()
	s.PushIf(false)
	assert.True(t, s.Skipping())

	s.Elif(true)
	assert.False(t, s.Skipping(), "first true #elif should be active")

	s.Elif(true)
	assert.True(t, s.Skipping(), "later #elif must be skipped once a branch matched")

	s.Else()
	assert.True(t, s.Skipping(), "#else after a matched branch must be skipped")

	s.EndIf()
}

func TestIfStackNestedInsideSkippedParent(t *testing.T) {
	s := newIfStack()
	s.PushIf(false) // outer: skipped
	s.PushIf(true)  // inner: condition true, but parent is skipping
	assert.True(t, s.Skipping(), "a nested group inside a skipped parent must stay skipped regardless of its own condition")
	s.EndIf()
	assert.True(t, s.Skipping(), "back in the outer skipped group")
	s.EndIf()
	assert.True(t, s.AtBottom())
}

func TestIfStackUnbalancedEndifFails(t *testing.T) {
	s := newIfStack()
	assert.False(t, s.EndIf(), "#endif with nothing open must fail")
	assert.True(t, s.CheckBalanced())
}

func TestIfStackUnterminatedIfFailsBalanceCheck(t *testing.T) {
	s := newIfStack()
	s.PushIf(true)
	assert.False(t, s.CheckBalanced())
}
