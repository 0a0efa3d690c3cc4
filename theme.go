package campus

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User message accent
	Error   int // Error messages
	Muted   int // Status bar, placeholders, code gutter
	CodeBg  int // Code block background
	Accent  int // Headings
	Caret   int // Streaming caret
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Error:   1,
		Muted:   8,
		CodeBg:  0,
		Accent:  5,
		Caret:   5,
	}
}

// PremiumTheme returns the gold-accented mapping of the premium look.
func PremiumTheme() Theme {
	return Theme{
		UserMsg: 3,
		Error:   1,
		Muted:   8,
		CodeBg:  0,
		Accent:  11,
		Caret:   3,
	}
}

// RenderConfig carries presentation choices into renderers explicitly.
// Formatting never depends on it; only how blocks are drawn does.
type RenderConfig struct {
	PremiumTheme bool
}

// Theme returns the color mapping selected by c.
func (c RenderConfig) Theme() Theme {
	if c.PremiumTheme {
		return PremiumTheme()
	}
	return DefaultTheme()
}
