package urlmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// jsVariable is the global gi-docgen reads the table from.
const jsVariable = "baseURLs"

// jsHeader precedes the table in generated urlmap.js files.
const jsHeader = `// SPDX-FileCopyrightText: 2021 GNOME Foundation
// SPDX-License-Identifier: LGPL-2.1-or-later

// A map between namespaces and base URLs for their online documentation
`

// RenderJS writes t as a urlmap.js file.
func RenderJS(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(jsHeader)
	bw.WriteString(jsVariable + " = [\n")
	for _, e := range t.Entries() {
		fmt.Fprintf(bw, "    [ %s, %s ],\n", jsQuote(e.Namespace), jsQuote(e.BaseURL))
	}
	bw.WriteString("]\n")

	return bw.Flush()
}

// jsQuote writes s as a single quoted literal that jsUnquote reads back
// exactly. Printable characters other than the quote and backslash are
// written as is.
func jsQuote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch {
		case r == '\\' || r == '\'':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r == '\u2028' || r == '\u2029' || !unicode.IsPrint(r) && r > 0x7f:
			for _, u := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(&b, `\u%04x`, u)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// jsString matches a quoted literal; an escaped line terminator is part of it.
const jsString = `('(?:[^'\\\n]|\\(?s:.))*'|"(?:[^"\\\n]|\\(?s:.))*")`

var (
	// jsAssignPattern matches the start of the table assignment
	jsAssignPattern = regexp.MustCompile(`(?:(?:var|let|const)\s+)?` + jsVariable + `\s*=\s*\[`)

	// jsPairPattern matches one [ 'namespace', 'url' ] element
	jsPairPattern = regexp.MustCompile(`^\[\s*` + jsString + `\s*,\s*` + jsString + `\s*,?\s*\]`)
)

// ParseJS reads a urlmap.js file back into a table.
//
// Only the baseURLs array is interpreted: string literals in single or
// double quotes, line and block comments, and trailing commas are accepted.
func ParseJS(data []byte) (*Table, error) {
	src := string(data)

	loc := jsAssignPattern.FindStringIndex(src)
	if loc == nil {
		return nil, fmt.Errorf("%w: no %s array found", ErrMalformed, jsVariable)
	}

	var entries []Entry
	rest := src[loc[1]:]
	for {
		rest = skipJSFiller(rest)
		if rest == "" {
			return nil, fmt.Errorf("%w: unterminated %s array", ErrMalformed, jsVariable)
		}
		if rest[0] == ']' {
			break
		}

		m := jsPairPattern.FindStringSubmatch(rest)
		if m == nil {
			return nil, fmt.Errorf("%w: unexpected input near %q", ErrMalformed, excerpt(rest))
		}
		namespace, err := jsUnquote(m[1])
		if err != nil {
			return nil, err
		}
		baseURL, err := jsUnquote(m[2])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Namespace: namespace, BaseURL: baseURL})
		rest = rest[len(m[0]):]
	}

	return New(entries...)
}

// skipJSFiller drops whitespace, element separators and comments.
func skipJSFiller(s string) string {
	for {
		s = strings.TrimLeft(s, " \t\r\n,")
		switch {
		case strings.HasPrefix(s, "//"):
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				s = s[i+1:]
			} else {
				return ""
			}
		case strings.HasPrefix(s, "/*"):
			if i := strings.Index(s, "*/"); i >= 0 {
				s = s[i+2:]
			} else {
				return ""
			}
		default:
			return s
		}
	}
}

// jsUnquote decodes a single or double quoted JavaScript string literal.
func jsUnquote(lit string) (string, error) {
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	for len(body) > 0 {
		i := strings.IndexByte(body, '\\')
		if i < 0 {
			b.WriteString(body)
			break
		}
		b.WriteString(body[:i])
		body = body[i+1:]

		r, size := utf8.DecodeRuneInString(body)
		body = body[size:]
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if body != "" && body[0] >= '0' && body[0] <= '9' {
				return "", fmt.Errorf("%w: octal escape in %s", ErrMalformed, lit)
			}
			b.WriteByte(0)
		case 'x':
			if len(body) < 2 {
				return "", fmt.Errorf("%w: short \\x escape in %s", ErrMalformed, lit)
			}
			n, err := strconv.ParseUint(body[:2], 16, 8)
			if err != nil {
				return "", fmt.Errorf("%w: bad \\x escape in %s", ErrMalformed, lit)
			}
			b.WriteRune(rune(n))
			body = body[2:]
		case 'u':
			var (
				cp  rune
				err error
			)
			cp, body, err = jsUnicodeEscape(body)
			if err != nil {
				return "", fmt.Errorf("%w: %v in %s", ErrMalformed, err, lit)
			}
			// A high surrogate may be followed by its low half
			if utf16.IsSurrogate(cp) && strings.HasPrefix(body, `\u`) {
				if lo, rest, err := jsUnicodeEscape(body[2:]); err == nil {
					if pair := utf16.DecodeRune(cp, lo); pair != utf8.RuneError {
						cp, body = pair, rest
					}
				}
			}
			b.WriteRune(cp)
		case '\r':
			// Line continuation, \r\n counts as one terminator
			body = strings.TrimPrefix(body, "\n")
		case '\n', '\u2028', '\u2029':
			// Line continuation
		case utf8.RuneError:
			if size == 0 {
				return "", fmt.Errorf("%w: trailing backslash in %s", ErrMalformed, lit)
			}
			b.WriteRune(r)
		default:
			if r >= '1' && r <= '9' {
				return "", fmt.Errorf("%w: octal escape in %s", ErrMalformed, lit)
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// jsUnicodeEscape parses the part of a \u escape after the "u": either
// four hex digits or a braced code point.
func jsUnicodeEscape(s string) (rune, string, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, s, errors.New("bad \\u{} escape")
		}
		n, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || n > unicode.MaxRune {
			return 0, s, errors.New("bad \\u{} escape")
		}
		return rune(n), s[end+1:], nil
	}

	if len(s) < 4 {
		return 0, s, errors.New("short \\u escape")
	}
	n, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, s, errors.New("bad \\u escape")
	}
	return rune(n), s[4:], nil
}

func excerpt(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
