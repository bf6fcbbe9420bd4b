package document

import (
	"strings"
	"unicode"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// reservedWords cannot be used as parameter names.
var reservedWords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// regexKeywords are the keywords after which a '/' starts a regex literal.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "case": true, "do": true, "else": true,
	"in": true, "of": true, "new": true, "delete": true, "void": true,
	"throw": true, "instanceof": true, "yield": true, "await": true,
}

// headerKeywords introduce a parenthesized header; a '/' after its closing
// ')' starts a regex literal.
var headerKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "with": true,
}

// IsIdentifier reports whether name can be used as a JavaScript parameter name.
func IsIdentifier(name string) bool {
	if name == "" || reservedWords[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// CheckBody reports whether body can be embedded verbatim between the braces of
// a function token. It rejects bodies whose (), [] or {} are unbalanced outside
// of string literals, template literals, regular expressions and comments, and
// bodies that leave a string, template or block comment open: either would end
// the token early or swallow the rest of the document.
//
// It does not check that the body is valid JavaScript.
func CheckBody(body string) error {
	_, err := scanBody(body)
	return err
}

// endsInLineComment reports whether the body finishes inside a // comment.
func endsInLineComment(body string) bool {
	open, _ := scanBody(body)
	return open
}

// lineTerminator returns the width of the JavaScript line terminator at
// body[i] (LF, CR, U+2028 or U+2029), or 0.
func lineTerminator(body string, i int) int {
	switch body[i] {
	case '\n', '\r':
		return 1
	case 0xE2:
		if i+2 < len(body) && body[i+1] == 0x80 && (body[i+2] == 0xA8 || body[i+2] == 0xA9) {
			return 3
		}
	}
	return 0
}

// lineCommentEnd returns the offset of the terminator ending the line comment
// that starts at i, or -1 if it runs to the end of body.
func lineCommentEnd(body string, i int) int {
	for j := i + 2; j < len(body); j++ {
		if lineTerminator(body, j) > 0 {
			return j
		}
	}
	return -1
}

func closerFor(opener byte) byte {
	switch opener {
	case '(', 'h':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func embedError(format string, args ...any) error {
	return errs.New(errs.ErrCodeEmbedding, format, args...)
}

// scanBody walks body with a small lexer. The stack holds '(', '[', '{', '$'
// (a ${ substitution), '`' (template text) and 'h' (the '(' of an if, while,
// for or with header).
func scanBody(body string) (lineComment bool, err error) {
	var (
		stack []byte
		prev  byte   // last significant code byte
		word  string // last identifier, for regex detection after keywords
	)
	n := len(body)
	for i := 0; i < n; {
		c := body[i]

		if len(stack) > 0 && stack[len(stack)-1] == '`' {
			switch {
			case c == '\\':
				i += 2
			case c == '`':
				stack = stack[:len(stack)-1]
				prev, word = ')', ""
				i++
			case c == '$' && i+1 < n && body[i+1] == '{':
				stack = append(stack, '$')
				prev, word = '{', ""
				i += 2
			default:
				i++
			}
			continue
		}

		switch {
		case c == '/' && i+1 < n && body[i+1] == '/':
			end := lineCommentEnd(body, i)
			if end < 0 {
				lineComment = true
				i = n
				continue
			}
			i = end
			continue
		case c == '/' && i+1 < n && body[i+1] == '*':
			end := strings.Index(body[i+2:], "*/")
			if end < 0 {
				return false, embedError("unterminated block comment")
			}
			i += 2 + end + 2
			continue
		case c == '/' && regexAllowed(prev, word):
			j, err := scanRegex(body, i)
			if err != nil {
				return false, err
			}
			i = j
			prev, word = ')', ""
			continue
		case c == '\'' || c == '"':
			j, err := scanString(body, i)
			if err != nil {
				return false, err
			}
			i = j
			prev, word = ')', ""
			continue
		case c == '`':
			stack = append(stack, '`')
			i++
			continue
		case (c == '+' || c == '-') && i+1 < n && body[i+1] == c:
			// A postfix ++ or -- ends an operand, so a following '/' divides.
			if endsOperand(prev, word) {
				prev = ')'
			} else {
				prev = c
			}
			word = ""
			i += 2
			continue
		case c == '(' && headerKeywords[word]:
			stack = append(stack, 'h')
		case c == '(' || c == '[' || c == '{':
			stack = append(stack, c)
		case c == ')' || c == ']' || c == '}':
			if len(stack) == 0 {
				return false, embedError("unbalanced %q at offset %d", c, i)
			}
			top := stack[len(stack)-1]
			if closerFor(top) != c {
				return false, embedError("mismatched %q at offset %d", c, i)
			}
			stack = stack[:len(stack)-1]
			if top == 'h' {
				// The statement after a header starts an expression.
				prev, word = ';', ""
				i++
				continue
			}
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			i++
			continue
		case lineTerminator(body, i) > 0:
			i += lineTerminator(body, i)
			continue
		}

		if isWordByte(c) {
			start := i
			for i < n && isWordByte(body[i]) {
				i++
			}
			word = body[start:i]
			prev = body[i-1]
			continue
		}
		prev, word = c, ""
		i++
	}

	if len(stack) > 0 {
		if stack[len(stack)-1] == '`' {
			return false, embedError("unterminated template literal")
		}
		top := stack[len(stack)-1]
		if top == 'h' {
			top = '('
		}
		return false, embedError("unclosed %q", top)
	}
	return lineComment, nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// endsOperand reports whether the last token closes an operand: a name, a
// number or a literal, or a closing ')' or ']'.
func endsOperand(prev byte, word string) bool {
	switch word {
	case "":
	case "this", "super", "true", "false", "null":
		return true
	default:
		return !regexKeywords[word] && !reservedWords[word]
	}
	return prev == ')' || prev == ']'
}

func regexAllowed(prev byte, word string) bool {
	if prev == 0 {
		return true
	}
	if word != "" {
		return regexKeywords[word]
	}
	return strings.IndexByte("(,=:[!&|?{};+-*%<>~^", prev) >= 0
}

// scanString returns the offset just past the string literal starting at i.
func scanString(body string, i int) (int, error) {
	quote := body[i]
	for j := i + 1; j < len(body); j++ {
		switch body[j] {
		case '\\':
			j++
		case '\n', '\r':
			return 0, embedError("unterminated string literal at offset %d", i)
		case quote:
			return j + 1, nil
		}
	}
	return 0, embedError("unterminated string literal at offset %d", i)
}

// scanRegex returns the offset just past the regex literal (and its flags)
// starting at i.
func scanRegex(body string, i int) (int, error) {
	inClass := false
	for j := i + 1; j < len(body); j++ {
		if lineTerminator(body, j) > 0 {
			return 0, embedError("unterminated regular expression at offset %d", i)
		}
		switch body[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if inClass {
				continue
			}
			j++
			for j < len(body) && isWordByte(body[j]) {
				j++
			}
			return j, nil
		}
	}
	return 0, embedError("unterminated regular expression at offset %d", i)
}
