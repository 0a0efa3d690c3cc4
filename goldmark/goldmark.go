// Package goldmark draws display blocks with goldmark: as HTML for the web
// client, and as ANSI-styled text for the terminal client. Blocks are
// converted straight into a goldmark AST, so formatting decided by the
// markdown package is never re-parsed.
package goldmark
