package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed answer's error message.
type ErrorBlock struct {
	message string
	styles  Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(message string, styles Styles) *ErrorBlock {
	return &ErrorBlock{message: message, styles: styles}
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render("Error: " + b.message)
	return lipgloss.NewStyle().Width(width).Render(content)
}
