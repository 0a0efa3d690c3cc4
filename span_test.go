package campus_test

import (
	"testing"

	"github.com/fwojciec/campus"
	"github.com/stretchr/testify/assert"
)

func TestLine_PlainText(t *testing.T) {
	t.Parallel()

	line := campus.Line{
		campus.Text{Text: "Pay "},
		campus.Bold{Text: "fees"},
		campus.Text{Text: " via "},
		campus.Code{Text: "M-Pesa"},
		campus.Italic{Text: " now"},
		campus.Strikethrough{Text: "!"},
		campus.Caret{},
	}
	assert.Equal(t, "Pay fees via M-Pesa now!", line.PlainText())
}

func TestCountCarets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		blocks []campus.Block
		want   int
	}{
		{name: "none", blocks: nil, want: 0},
		{
			name: "paragraph",
			blocks: []campus.Block{
				campus.Paragraph{Lines: []campus.Line{{campus.Text{Text: "a"}, campus.Caret{}}}},
			},
			want: 1,
		},
		{
			name: "heading and list",
			blocks: []campus.Block{
				campus.Heading{Level: 1, Text: campus.Line{campus.Caret{}}},
				campus.List{Items: []campus.Line{{campus.Caret{}}}},
			},
			want: 2,
		},
		{
			name:   "code block",
			blocks: []campus.Block{campus.CodeBlock{Content: "x", Caret: true}},
			want:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, campus.CountCarets(tt.blocks))
		})
	}
}

func TestBlockTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	blocks := []campus.Block{
		campus.Paragraph{},
		campus.Heading{},
		campus.List{},
		campus.CodeBlock{},
	}
	assert.Len(t, blocks, 4, "update slice and switch when adding new Block types")
	for _, b := range blocks {
		switch b.(type) {
		case campus.Paragraph:
		case campus.Heading:
		case campus.List:
		case campus.CodeBlock:
		default:
			t.Fatalf("unexpected block type: %T", b)
		}
	}
}

func TestStreamState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "new", campus.StreamStateNew.String())
	assert.Equal(t, "complete", campus.StreamStateComplete.String())
	assert.Equal(t, "unknown", campus.StreamState(99).String())
}
