package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a question on a full-width tinted background.
type UserMessageBlock struct {
	text   string
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	return b.styles.UserBg.Width(width).Render(lipgloss.NewStyle().Bold(true).Render(b.text))
}
