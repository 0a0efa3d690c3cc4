// Package json encodes campus sessions and display blocks as JSON and
// persists sessions as one file each.
package json
