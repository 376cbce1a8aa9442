package statusfile

import "strings"

// RawLine is one tokenized body line of a block: the field name, the value
// part, and the inline comment part. It is transient; the parser folds it
// into a typed record when the enclosing block closes.
type RawLine struct {
	Key     string
	Value   string
	Comment string
}

// stripQuotes removes every double-quote character. Quotes delimit values in
// the status file but are never part of the data; embedded escaping does not
// exist in the format.
func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// stripCommentMarkers removes /* and */ wherever they appear and trims the
// surrounding whitespace.
func stripCommentMarkers(s string) string {
	s = strings.ReplaceAll(s, "/*", "")
	s = strings.ReplaceAll(s, "*/", "")
	return strings.TrimSpace(s)
}

// interpretLine tokenizes one block-body line of the form
//
//	Key = value[; /* comment */]
//
// into a RawLine. Anything after a second semicolon is discarded, matching
// the upstream engine's writer which never emits more than one comment.
func interpretLine(line string, lineNo int) (RawLine, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(line, "\n"))

	key, rest, found := strings.Cut(raw, "=")
	if !found {
		return RawLine{}, &MalformedLineError{Line: lineNo, Text: raw}
	}

	valuePart, commentPart, hasComment := strings.Cut(rest, ";")

	rl := RawLine{
		Key:   strings.TrimSpace(key),
		Value: stripQuotes(strings.TrimSpace(valuePart)),
	}
	if hasComment {
		// A second ";" and anything beyond it is dropped here.
		commentPart, _, _ = strings.Cut(commentPart, ";")
		rl.Comment = stripQuotes(stripCommentMarkers(strings.TrimSpace(commentPart)))
	}
	return rl, nil
}
