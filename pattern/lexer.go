package pattern

// TokenType defines the token classes produced by the pattern lexer.
type TokenType int

const (
	TokenText TokenType = iota // plain source text, passed through to the Go parser
	TokenHole                  // :[name], :[[name]] or :[name:kind]
	TokenEOF
)

// Token is a single lexical token of a textual pattern.
type Token struct {
	Type     TokenType
	Value    string      // literal text for this token
	Position int         // starting offset in the pattern text
	Hole     *HoleConfig // set for TokenHole only
}

// Lexer splits pattern text into literal text runs and metavariable holes.
// Everything that is not a hole is literal Go source; the lexer does not try
// to understand it.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a Lexer over the given pattern text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole input and returns its tokens, or an error when a
// hole is malformed.
func (l *Lexer) Tokenize() ([]Token, error) {
	textStart := -1
	flush := func(end int) {
		if textStart >= 0 && end > textStart {
			l.addToken(Token{Type: TokenText, Value: l.input[textStart:end], Position: textStart})
		}
		textStart = -1
	}

	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == ':' && l.position+1 < len(l.input) && l.input[l.position+1] == '[' {
			start := l.position
			end := l.findHoleEnd()
			if end < 0 {
				return nil, &ParseError{Text: l.input, Msg: "unterminated hole"}
			}
			cfg, err := ParseHole(l.input[start:end])
			if err != nil {
				return nil, &ParseError{Text: l.input, Msg: err.Error()}
			}
			flush(start)
			l.addToken(Token{Type: TokenHole, Value: l.input[start:end], Position: start, Hole: cfg})
			l.position = end
			continue
		}
		if textStart < 0 {
			textStart = l.position
		}
		l.position++
	}
	flush(l.position)

	l.addToken(Token{Type: TokenEOF, Position: l.position})
	return l.tokens, nil
}

// findHoleEnd locates the closing "]" or "]]" of the hole starting at the
// current position. Returns the index just after the closing bracket(s), or
// -1 when there is none.
func (l *Lexer) findHoleEnd() int {
	longForm := l.position+2 < len(l.input) && l.input[l.position+2] == '['
	if longForm {
		for i := l.position + 3; i < len(l.input)-1; i++ {
			if l.input[i] == ']' && l.input[i+1] == ']' {
				return i + 2
			}
		}
		return -1
	}
	for i := l.position + 2; i < len(l.input); i++ {
		if l.input[i] == ']' {
			return i + 1
		}
	}
	return -1
}

func (l *Lexer) addToken(t Token) {
	l.tokens = append(l.tokens, t)
}
