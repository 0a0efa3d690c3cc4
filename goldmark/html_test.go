package goldmark_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/goldmark"
	"github.com/fwojciec/campus/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func renderHTML(t *testing.T, blocks []campus.Block, cfg campus.RenderConfig) string {
	t.Helper()
	out, err := goldmark.RenderHTML(blocks, cfg)
	require.NoError(t, err)
	return out
}

// visibleText returns the text content of an HTML fragment.
func visibleText(t *testing.T, fragment string) string {
	t.Helper()
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// tags returns the start tag names of an HTML fragment in document order.
func tags(fragment string) []string {
	var names []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return names
		case html.StartTagToken:
			name, _ := z.TagName()
			names = append(names, string(name))
		}
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	t.Run("wraps output in message container", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, markdown.Format("Hello there.", false), campus.RenderConfig{})
		assert.True(t, strings.HasPrefix(out, `<div class="message">`), out)
		assert.True(t, strings.HasSuffix(out, "</div>"), out)
		assert.Contains(t, out, "<p>Hello there.</p>")
	})

	t.Run("premium theme adds class", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, nil, campus.RenderConfig{PremiumTheme: true})
		assert.True(t, strings.HasPrefix(out, `<div class="message premium">`), out)
	})

	t.Run("block structure", func(t *testing.T) {
		t.Parallel()
		src := "Intro.## Fees\nPay: - online - at the bank\n\n1. First\n2. Second\n\n```go\nx := 1\n```"
		out := renderHTML(t, markdown.Format(src, false), campus.RenderConfig{})
		assert.Equal(t, []string{"div", "p", "h2", "p", "ul", "li", "ol", "li", "li", "pre", "code"}, tags(out))
		assert.Contains(t, out, `<code class="language-go">x := 1`)
	})

	t.Run("inline spans", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, markdown.Format("**b** *i* `c` ~~s~~", false), campus.RenderConfig{})
		assert.Contains(t, out, "<strong>b</strong>")
		assert.Contains(t, out, "<em>i</em>")
		assert.Contains(t, out, "<code>c</code>")
		assert.Contains(t, out, "<del>s</del>")
	})

	t.Run("paragraph lines break explicitly", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, markdown.Format("one\ntwo", false), campus.RenderConfig{})
		assert.Contains(t, out, "<br")
		assert.Equal(t, "onetwo", strings.ReplaceAll(strings.TrimSpace(visibleText(t, out)), "\n", ""))
	})

	t.Run("text is escaped and never reparsed", func(t *testing.T) {
		t.Parallel()
		blocks := []campus.Block{campus.Paragraph{Lines: []campus.Line{{
			campus.Text{Text: "<script>alert(1)</script> **not bold** &amp;"},
		}}}}
		out := renderHTML(t, blocks, campus.RenderConfig{})
		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, "<strong>")
		assert.Contains(t, out, "&lt;script&gt;")
		assert.Contains(t, out, "**not bold** &amp;amp;")
	})

	t.Run("caret in paragraph", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, markdown.Format("Loading", true), campus.RenderConfig{})
		assert.Contains(t, out, "Loading"+goldmark.CaretHTML)
		assert.Equal(t, 1, strings.Count(out, goldmark.CaretHTML))
	})

	t.Run("caret in code block", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, markdown.Format("```python\nprint(1)", true), campus.RenderConfig{})
		assert.Contains(t, out, "print(1)"+goldmark.CaretHTML)
		assert.Equal(t, 1, strings.Count(out, goldmark.CaretHTML))
	})

	t.Run("no caret when complete", func(t *testing.T) {
		t.Parallel()
		out := renderHTML(t, markdown.Format("```python\nprint(1)", false), campus.RenderConfig{})
		assert.NotContains(t, out, goldmark.CaretHTML)
		assert.Contains(t, visibleText(t, out), "print(1)")
	})

	t.Run("caret placeholder in code content is not a caret", func(t *testing.T) {
		t.Parallel()
		blocks := []campus.Block{campus.CodeBlock{Content: "a\uE000b"}}
		out := renderHTML(t, blocks, campus.RenderConfig{})
		assert.NotContains(t, out, goldmark.CaretHTML)
	})
}
