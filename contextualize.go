package campus

import (
	"slices"
	"strings"
	"unicode"
)

// topics are the university subjects a follow-up question can refer back to.
var topics = []string{
	"kca", "kca university", "university", "admission", "admissions",
	"course", "courses", "program", "programs", "degree", "degrees",
	"fee", "fees", "tuition", "payment", "scholarship", "scholarships",
	"exam", "exams", "examination", "timetable", "schedule", "semester",
	"student", "students", "faculty", "department", "school", "institute",
	"campus", "library", "hostel", "accommodation", "graduation", "alumni",
}

// references are words that point back at something said earlier.
var references = []string{
	"it", "its", "they", "them", "their", "this", "that", "these", "those",
	"he", "she", "him", "her", "here", "there", "the",
}

// Contextualize rewrites a follow-up question into a retrieval query using
// the topics of the earlier conversation. Questions of three words or fewer,
// or containing a back reference such as "it" or "the", are expanded when
// history mentions a university topic:
//
//	"what about the fees?"  -> "KCA University course fees" (after a course question)
//	"requirements?"         -> "KCA University admission requirements"
//	"and hostels"           -> "<latest topic> and hostels"
//
// Any other question is returned unchanged.
func Contextualize(history []Message, question string) string {
	if len(history) == 0 {
		return question
	}
	asked := words(question)
	referring := slices.ContainsFunc(asked, func(w string) bool { return slices.Contains(references, w) })
	short := len(strings.Fields(question)) <= 3
	if !referring && !short {
		return question
	}

	texts := make([]string, 0, len(history))
	for _, m := range history {
		texts = append(texts, m.Text())
	}
	past := " " + strings.Join(wordsOf(texts), " ") + " "
	var found []string
	for _, t := range topics {
		if strings.Contains(past, " "+t+" ") {
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		return question
	}

	has := func(ws ...string) bool {
		return slices.ContainsFunc(asked, func(w string) bool { return slices.Contains(ws, w) })
	}
	mentions := func(ws ...string) bool {
		return slices.ContainsFunc(ws, func(w string) bool { return strings.Contains(past, " "+w) })
	}
	switch {
	case has("history") && mentions("kca", "university"):
		return "KCA University history"
	case has("fee", "fees", "cost", "price", "payment") && mentions("course", "program"):
		return "KCA University course fees"
	case has("requirement", "requirements", "admission", "admissions", "apply", "application"):
		return "KCA University admission requirements"
	case short:
		return found[len(found)-1] + " " + question
	}
	return question
}

// words splits s into lowercase words, dropping punctuation.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordsOf(texts []string) []string {
	var out []string
	for _, t := range texts {
		out = append(out, words(t)...)
	}
	return out
}
