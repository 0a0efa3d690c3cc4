package markdown

import "strings"

// openingFence reports whether line opens a fenced code block and returns
// its language tag. Leading indentation is ignored.
func openingFence(line string) (lang string, ok bool) {
	line = strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(line, "```") {
		return "", false
	}
	fields := strings.Fields(strings.Trim(line, "`"))
	if len(fields) == 0 {
		return "", true
	}
	return strings.Trim(fields[0], "`"), true
}

// closingFence reports whether line closes an open code block: three or
// more backticks and nothing else.
func closingFence(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 3 && strings.Trim(line, "`") == ""
}

// lines splits text on "\n", dropping a trailing "\r" from each line.
func lines(text string) []string {
	ls := strings.Split(text, "\n")
	for i, l := range ls {
		ls[i] = strings.TrimSuffix(l, "\r")
	}
	return ls
}
