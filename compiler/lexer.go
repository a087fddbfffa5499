package compiler

import "fmt"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokComma
	tokSemicolon
	tokDot
	tokDotDot
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokEqual
	tokMinus
	tokPlus
)

var tokenNames = [...]string{
	tokEOF:       "end of program",
	tokIdent:     "identifier",
	tokNumber:    "number",
	tokComma:     "','",
	tokSemicolon: "';'",
	tokDot:       "'.'",
	tokDotDot:    "'..'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokEqual:     "'='",
	tokMinus:     "'-'",
	tokPlus:      "'+'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	if t.kind == tokIdent || t.kind == tokNumber {
		return fmt.Sprintf("%q", t.text)
	}
	return t.kind.String()
}

// lexer splits program text into tokens. '#' starts a comment that runs
// to the end of the line. Scanning stops after the END keyword; whatever
// follows it is ignored.
type lexer struct {
	source string
	pos    int
	start  int
	line   int
	done   bool
	tokens []token
}

func tokenize(source string, line int) ([]token, error) {
	l := &lexer{source: source, line: line, tokens: make([]token, 0, len(source)/4)}
	for !l.isAtEnd() && !l.done {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, token{kind: tokEOF, line: l.line})
	return l.tokens, nil
}

func (l *lexer) scanToken() error {
	c := l.advance()
	switch c {
	case ',':
		l.add(tokComma)
	case ';':
		l.add(tokSemicolon)
	case '[':
		l.add(tokLBracket)
	case ']':
		l.add(tokRBracket)
	case '{':
		l.add(tokLBrace)
	case '}':
		l.add(tokRBrace)
	case '=':
		l.add(tokEqual)
	case '-':
		l.add(tokMinus)
	case '+':
		l.add(tokPlus)
	case '.':
		switch {
		case l.match('.'):
			l.add(tokDotDot)
		case isDigit(l.peek()):
			l.number()
		default:
			l.add(tokDot)
		}
	case '#':
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}
	case ' ', '\t', '\r':
	case '\n':
		l.line++
	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.identifier()
		default:
			return &SyntaxError{Line: l.line, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return nil
}

// number scans a decimal literal. A digit run followed by a letter is an
// identifier such as the 2D texture target.
func (l *lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if isAlpha(l.peek()) && l.peek() != 'e' && l.peek() != 'E' {
		l.identifier()
		return
	}
	if l.peek() == '.' && l.peekNext() != '.' {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	l.add(tokNumber)
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	l.add(tokIdent)
	if l.source[l.start:l.pos] == "END" {
		l.done = true
	}
}

func (l *lexer) add(kind tokenKind) {
	l.tokens = append(l.tokens, token{kind: kind, text: l.source[l.start:l.pos], line: l.line})
}

func (l *lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	return c
}

func (l *lexer) match(c byte) bool {
	if l.isAtEnd() || l.source[l.pos] != c {
		return false
	}
	l.pos++
	return true
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
