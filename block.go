package campus

// Block is a sealed interface representing one display block of a rendered
// assistant message. Blocks are produced by the markdown formatter and are
// never merged across types.
type Block interface {
	block()
}

// Line is one line of inline-formatted text.
type Line []Span

// Paragraph is a run of consecutive prose lines. Each source line stays a
// separate Line; renderers join them with an explicit line break.
type Paragraph struct {
	Lines []Line
}

func (Paragraph) block() {}

// Heading is a single-line heading of Level 1 through 6.
type Heading struct {
	Level int
	Text  Line
}

func (Heading) block() {}

// List is a homogeneous list: every item used the same marker style.
type List struct {
	Ordered bool
	Items   []Line
}

func (List) block() {}

// CodeBlock holds fenced code verbatim. Caret marks the streaming caret,
// which sits after the last character of Content.
type CodeBlock struct {
	Language string
	Content  string
	Caret    bool
}

func (CodeBlock) block() {}

// Interface compliance checks.
var (
	_ Block = Paragraph{}
	_ Block = Heading{}
	_ Block = List{}
	_ Block = CodeBlock{}
)
