package campus_test

import (
	"testing"

	"github.com/fwojciec/campus"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	t.Run("no passages returns base", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "base", campus.BuildPrompt("base", nil))
	})

	t.Run("passages are numbered", func(t *testing.T) {
		t.Parallel()
		got := campus.BuildPrompt("base", []campus.Passage{
			{Source: "fees.md", Text: "Fees are due in May.\n"},
			{Source: "library.md", Text: "The library opens at 8."},
		})
		want := "base\n\nContext from documents:\n" +
			"\n[1] fees.md\nFees are due in May.\n" +
			"\n[2] library.md\nThe library opens at 8."
		assert.Equal(t, want, got)
	})

	t.Run("default prompt names the assistant", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, campus.DefaultSystemPrompt, "KCA Connect AI")
	})
}
