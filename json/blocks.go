package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/campus"
)

// blockDTO is the JSON representation of a display block. Fields are
// populated depending on Type.
type blockDTO struct {
	Type string `json:"type"`

	// paragraph
	Lines [][]spanDTO `json:"lines,omitempty"`

	// heading
	Level int       `json:"level,omitempty"`
	Text  []spanDTO `json:"text,omitempty"`

	// list
	Ordered bool        `json:"ordered,omitempty"`
	Items   [][]spanDTO `json:"items,omitempty"`

	// code
	Language string `json:"language,omitempty"`
	Content  string `json:"content,omitempty"`
	Caret    bool   `json:"caret,omitempty"`
}

type spanDTO struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MarshalBlocks encodes display blocks as a JSON array.
func MarshalBlocks(blocks []campus.Block) ([]byte, error) {
	dtos := make([]blockDTO, len(blocks))
	for i, b := range blocks {
		dto, err := marshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		dtos[i] = dto
	}
	return json.Marshal(dtos)
}

// UnmarshalBlocks decodes a JSON array produced by MarshalBlocks.
func UnmarshalBlocks(data []byte) ([]campus.Block, error) {
	var dtos []blockDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal blocks: %w", err)
	}
	blocks := make([]campus.Block, len(dtos))
	for i, dto := range dtos {
		b, err := unmarshalBlock(dto)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		blocks[i] = b
	}
	return blocks, nil
}

func marshalBlock(b campus.Block) (blockDTO, error) {
	switch b := b.(type) {
	case campus.Paragraph:
		return blockDTO{Type: "paragraph", Lines: marshalLines(b.Lines)}, nil
	case campus.Heading:
		return blockDTO{Type: "heading", Level: b.Level, Text: marshalLine(b.Text)}, nil
	case campus.List:
		return blockDTO{Type: "list", Ordered: b.Ordered, Items: marshalLines(b.Items)}, nil
	case campus.CodeBlock:
		return blockDTO{Type: "code", Language: b.Language, Content: b.Content, Caret: b.Caret}, nil
	default:
		return blockDTO{}, fmt.Errorf("unknown block type: %T", b)
	}
}

func unmarshalBlock(dto blockDTO) (campus.Block, error) {
	switch dto.Type {
	case "paragraph":
		lines, err := unmarshalLines(dto.Lines)
		return campus.Paragraph{Lines: lines}, err
	case "heading":
		if dto.Level < 1 || dto.Level > 6 {
			return nil, fmt.Errorf("heading level out of range: %d", dto.Level)
		}
		text, err := unmarshalLine(dto.Text)
		return campus.Heading{Level: dto.Level, Text: text}, err
	case "list":
		items, err := unmarshalLines(dto.Items)
		return campus.List{Ordered: dto.Ordered, Items: items}, err
	case "code":
		return campus.CodeBlock{Language: dto.Language, Content: dto.Content, Caret: dto.Caret}, nil
	default:
		return nil, fmt.Errorf("unknown block type: %q", dto.Type)
	}
}

func marshalLines(lines []campus.Line) [][]spanDTO {
	out := make([][]spanDTO, len(lines))
	for i, l := range lines {
		out[i] = marshalLine(l)
	}
	return out
}

func marshalLine(l campus.Line) []spanDTO {
	out := make([]spanDTO, 0, len(l))
	for _, s := range l {
		switch s := s.(type) {
		case campus.Text:
			out = append(out, spanDTO{Type: "text", Text: s.Text})
		case campus.Bold:
			out = append(out, spanDTO{Type: "bold", Text: s.Text})
		case campus.Italic:
			out = append(out, spanDTO{Type: "italic", Text: s.Text})
		case campus.Code:
			out = append(out, spanDTO{Type: "code", Text: s.Text})
		case campus.Strikethrough:
			out = append(out, spanDTO{Type: "strikethrough", Text: s.Text})
		case campus.Caret:
			out = append(out, spanDTO{Type: "caret"})
		}
	}
	return out
}

func unmarshalLines(in [][]spanDTO) ([]campus.Line, error) {
	lines := make([]campus.Line, len(in))
	for i, l := range in {
		line, err := unmarshalLine(l)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

func unmarshalLine(in []spanDTO) (campus.Line, error) {
	line := make(campus.Line, 0, len(in))
	for _, s := range in {
		switch s.Type {
		case "text":
			line = append(line, campus.Text{Text: s.Text})
		case "bold":
			line = append(line, campus.Bold{Text: s.Text})
		case "italic":
			line = append(line, campus.Italic{Text: s.Text})
		case "code":
			line = append(line, campus.Code{Text: s.Text})
		case "strikethrough":
			line = append(line, campus.Strikethrough{Text: s.Text})
		case "caret":
			line = append(line, campus.Caret{})
		default:
			return nil, fmt.Errorf("unknown span type: %q", s.Type)
		}
	}
	return line, nil
}
