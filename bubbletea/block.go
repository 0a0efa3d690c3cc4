package bubbletea

// MessageBlock is a renderable element in the conversation.
// View takes a width parameter so the root model controls layout and
// blocks are testable in isolation.
type MessageBlock interface {
	View(width int) string
}

// blockSeparator returns the spacing between two adjacent blocks. An error
// stays attached to the answer it ended.
func blockSeparator(prev, curr MessageBlock) string {
	if _, ok := curr.(*ErrorBlock); ok {
		if _, ok := prev.(*AssistantBlock); ok {
			return "\n"
		}
	}
	return "\n\n"
}
