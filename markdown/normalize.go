package markdown

import "strings"

const bullet = "•"

// Normalize moves block markers that the model glued onto prose onto their
// own line. A marker is moved only when it directly follows sentence
// punctuation (one of . : ! ?) and optional spaces or tabs:
//
//	"Done.## Next"   -> "Done.\n\n## Next"
//	"Steps: - one"   -> "Steps:\n- one"
//	"Ready! 1. Go"   -> "Ready!\n1. Go"
//
// Markers anywhere else, as in "5 * 5" or "version 2.0", are left alone.
// Lines inside fenced code blocks and the fence lines themselves are copied
// verbatim. Normalize is idempotent.
func Normalize(text string) string {
	if !strings.ContainsAny(text, ".:!?") {
		return text
	}
	ls := strings.Split(text, "\n")
	changed := false
	inCode := false
	for i, l := range ls {
		switch {
		case inCode:
			inCode = !closingFence(l)
		case isFenceOpen(l):
			inCode = true
		default:
			if n := normalizeLine(l); n != l {
				ls[i] = n
				changed = true
			}
		}
	}
	if !changed {
		return text
	}
	return strings.Join(ls, "\n")
}

func isFenceOpen(line string) bool {
	_, ok := openingFence(line)
	return ok
}

// normalizeLine applies the marker rules to a single line. After a break
// is inserted the scan resumes at the marker itself, so a marker's own
// punctuation (the dot in "1.") can trigger the next break.
func normalizeLine(line string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(line); i++ {
		if !isSentencePunct(line[i]) {
			continue
		}
		j := i + 1
		for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
		brk := markerBreak(line[j:])
		if brk == "" {
			continue
		}
		b.WriteString(line[last : i+1])
		b.WriteString(brk)
		last = j
		i = j - 1
	}
	if last == 0 {
		return line
	}
	b.WriteString(line[last:])
	return b.String()
}

func isSentencePunct(c byte) bool {
	return c == '.' || c == ':' || c == '!' || c == '?'
}

// markerBreak returns the line break to insert before s when s starts with
// a block marker, or "" when it does not. Rules are tried in order:
// heading, bullet, numbered item.
func markerBreak(s string) string {
	if n := countPrefix(s, '#'); n >= 1 && n <= 6 && n < len(s) && s[n] == ' ' {
		return "\n\n"
	}
	if len(s) >= 2 && (s[0] == '-' || s[0] == '*') && s[1] == ' ' {
		return "\n"
	}
	if strings.HasPrefix(s, bullet) && len(s) > len(bullet) && s[len(bullet)] == ' ' {
		return "\n"
	}
	if n := countDigits(s); n > 0 && n+1 < len(s) && s[n] == '.' && s[n+1] == ' ' {
		return "\n"
	}
	return ""
}

func countPrefix(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
