package sqlexec

import "strings"

// SplitScript splits a SQL script into statements on top-level semicolons.
// Semicolons inside quoted strings, quoted identifiers, comments, and
// dollar-quoted bodies do not split, nor do those inside the BEGIN ... END
// body of a CREATE TRIGGER, PROCEDURE, or FUNCTION statement. Pieces
// holding only whitespace or comments are dropped.
func SplitScript(script string) []string {
	var (
		out     []string
		start   int
		content bool // piece has something besides whitespace and comments
		body    routineBody
	)

	flush := func(end int) {
		if content {
			out = append(out, strings.TrimSpace(script[start:end]))
		}
		start = end + 1
		content = false
		body = routineBody{}
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == ';':
			if body.depth == 0 {
				flush(i)
			}
		case isWordStart(c):
			j := wordEnd(script, i)
			body.word(strings.ToUpper(script[i:j]), script[j:])
			i = j - 1
			content = true
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(script, i, c)
			content = true
		case c == '[':
			i = skipQuoted(script, i, ']')
			content = true
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			nl := strings.IndexByte(script[i:], '\n')
			if nl < 0 {
				i = len(script) - 1
			} else {
				i += nl
			}
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = len(script) - 1
			} else {
				i += end + 3
			}
		case c == '$':
			if tag, ok := dollarTag(script[i:]); ok {
				end := strings.Index(script[i+len(tag):], tag)
				if end < 0 {
					i = len(script) - 1
				} else {
					i += len(tag) + end + len(tag) - 1
				}
			}
			content = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		default:
			content = true
		}
	}
	if start < len(script) {
		flush(len(script))
	}
	return out
}

// routineBody tracks the block nesting of a routine definition so that
// semicolons terminating its inner statements do not split the script.
type routineBody struct {
	words   int
	other   bool // not a CREATE or ALTER statement
	routine bool
	depth   int
}

func (b *routineBody) word(w, rest string) {
	if b.other {
		return
	}
	b.words++
	if b.words == 1 {
		b.other = w != "CREATE" && w != "ALTER"
		return
	}
	if !b.routine {
		switch w {
		case "TRIGGER", "PROCEDURE", "FUNCTION", "PACKAGE", "EVENT":
			b.routine = true
		case "TABLE", "VIEW", "INDEX", "SCHEMA", "DATABASE", "SEQUENCE", "TYPE", "DOMAIN":
			b.other = true
		default:
			// the object kind follows CREATE [OR REPLACE] [DEFINER = ...]
			b.other = b.words > 8
		}
		return
	}
	switch w {
	case "BEGIN":
		switch nextWord(rest) {
		case "TRAN", "TRANSACTION", "WORK", "DISTRIBUTED":
		default:
			b.depth++
		}
	case "CASE":
		b.depth++
	case "END":
		// END IF, END LOOP and friends close blocks that were never counted
		switch nextWord(rest) {
		case "IF", "LOOP", "WHILE", "REPEAT", "FOR":
		default:
			if b.depth > 0 {
				b.depth--
			}
		}
	}
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func wordEnd(s string, i int) int {
	j := i
	for j < len(s) && (isWordStart(s[j]) || (s[j] >= '0' && s[j] <= '9')) {
		j++
	}
	return j
}

// nextWord returns the upper-cased word following leading whitespace.
func nextWord(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	if i == len(s) || !isWordStart(s[i]) {
		return ""
	}
	return strings.ToUpper(s[i:wordEnd(s, i)])
}

// skipQuoted returns the index of the closing quote for the quoted run
// opened at i. A doubled closing quote is an escape.
func skipQuoted(s string, i int, closer byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != closer {
			continue
		}
		if j+1 < len(s) && s[j+1] == closer {
			j++
			continue
		}
		return j
	}
	return len(s) - 1
}

// dollarTag recognizes a PostgreSQL dollar-quote opener such as $$ or $body$.
func dollarTag(s string) (string, bool) {
	for j := 1; j < len(s); j++ {
		c := s[j]
		if c == '$' {
			return s[:j+1], true
		}
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (j > 1 && c >= '0' && c <= '9')) {
			return "", false
		}
	}
	return "", false
}
