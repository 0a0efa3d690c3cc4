package markdown_test

import (
	"testing"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/markdown"
	"github.com/stretchr/testify/assert"
)

func TestSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want campus.Line
	}{
		{name: "empty", in: "", want: nil},
		{name: "plain", in: "Hello there.", want: campus.Line{campus.Text{Text: "Hello there."}}},
		{
			name: "bold",
			in:   "a **b** c",
			want: campus.Line{campus.Text{Text: "a "}, campus.Bold{Text: "b"}, campus.Text{Text: " c"}},
		},
		{
			name: "italic",
			in:   "*i*",
			want: campus.Line{campus.Italic{Text: "i"}},
		},
		{
			name: "code keeps delimiters inside",
			in:   "run `a*b*c` now",
			want: campus.Line{campus.Text{Text: "run "}, campus.Code{Text: "a*b*c"}, campus.Text{Text: " now"}},
		},
		{
			name: "strikethrough",
			in:   "~~old~~ new",
			want: campus.Line{campus.Strikethrough{Text: "old"}, campus.Text{Text: " new"}},
		},
		{
			name: "bold before italic",
			in:   "**b** and *i*",
			want: campus.Line{campus.Bold{Text: "b"}, campus.Text{Text: " and "}, campus.Italic{Text: "i"}},
		},
		{
			name: "italic skips bold pair",
			in:   "*a **b** c*",
			want: campus.Line{campus.Italic{Text: "a **b** c"}},
		},
		{name: "unterminated bold", in: "**bo", want: campus.Line{campus.Text{Text: "**bo"}}},
		{name: "unterminated italic", in: "*it", want: campus.Line{campus.Text{Text: "*it"}}},
		{name: "unterminated code", in: "`x", want: campus.Line{campus.Text{Text: "`x"}}},
		{name: "unterminated strike", in: "~~x", want: campus.Line{campus.Text{Text: "~~x"}}},
		{name: "lone delimiters", in: "**", want: campus.Line{campus.Text{Text: "**"}}},
		{name: "empty pairs are literal", in: "**** `` ~~~~", want: campus.Line{campus.Text{Text: "**** `` ~~~~"}}},
		{name: "arithmetic", in: "5 * 5 * 5", want: campus.Line{campus.Text{Text: "5 * 5 * 5"}}},
		{name: "opening followed by space", in: "** x**", want: campus.Line{campus.Text{Text: "** x**"}}},
		{
			name: "closing preceded by space is skipped",
			in:   "*a *b*",
			want: campus.Line{campus.Italic{Text: "a *b"}},
		},
		{
			name: "multibyte text",
			in:   "Karibu **wanafunzi** 🎓",
			want: campus.Line{campus.Text{Text: "Karibu "}, campus.Bold{Text: "wanafunzi"}, campus.Text{Text: " 🎓"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, markdown.Spans(tt.in))
		})
	}
}
