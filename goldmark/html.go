package goldmark

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fwojciec/campus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// CaretHTML is the markup emitted for the streaming caret.
const CaretHTML = `<span class="caret"></span>`

// htmlMarkdown renders ASTs built by document. Raw HTML is never emitted
// because every text node is escaped.
var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(caretRenderer{}, 500)),
	),
)

type caretRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (caretRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCaret, func(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(CaretHTML)
		}
		return ast.WalkContinue, nil
	})
}

// RenderHTML renders blocks as an HTML fragment wrapped in a message
// container. The premium theme only adds a class; styling is left to the
// page.
func RenderHTML(blocks []campus.Block, cfg campus.RenderConfig) (string, error) {
	doc, source := document(blocks)
	var buf bytes.Buffer
	if err := htmlMarkdown.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("goldmark: %w", err)
	}
	class := "message"
	if cfg.PremiumTheme {
		class += " premium"
	}
	body := strings.Replace(buf.String(), codeCaret, CaretHTML, 1)
	return `<div class="` + class + `">` + "\n" + body + "</div>", nil
}
