package rdf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/c360studio/graphsync/vocabulary"
)

// ParseError reports a Turtle syntax error with its position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("turtle: line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// ParseTurtle parses a Turtle document into a graph. N-Triples input is
// accepted as a subset. Blank nodes introduced by [] property lists and
// collections receive generated labels that cannot clash with labels from
// the document.
func ParseTurtle(data []byte) (*Graph, error) {
	p := &turtleParser{
		input:    []rune(string(data)),
		line:     1,
		col:      1,
		prefixes: make(map[string]string),
		graph:    NewGraph(),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.graph, nil
}

type turtleParser struct {
	input    []rune
	pos      int
	line     int
	col      int
	base     string
	prefixes map[string]string
	graph    *Graph
	anonSeq  int
}

func (p *turtleParser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Col: p.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *turtleParser) eof() bool { return p.pos >= len(p.input) }

func (p *turtleParser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *turtleParser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.input) {
		return 0
	}
	return p.input[p.pos+offset]
}

func (p *turtleParser) next() rune {
	r := p.input[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

// skipWS consumes whitespace and comments.
func (p *turtleParser) skipWS() {
	for !p.eof() {
		r := p.peek()
		switch {
		case r == '#':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		case unicode.IsSpace(r):
			p.next()
		default:
			return
		}
	}
}

func (p *turtleParser) expect(r rune) error {
	if p.eof() || p.peek() != r {
		return p.errorf("expected %q", r)
	}
	p.next()
	return nil
}

func (p *turtleParser) parse() error {
	for {
		p.skipWS()
		if p.eof() {
			return nil
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
}

func (p *turtleParser) parseStatement() error {
	if p.peek() == '@' {
		return p.parseAtDirective()
	}
	if p.matchKeyword("PREFIX") {
		return p.parsePrefix(false)
	}
	if p.matchKeyword("BASE") {
		return p.parseBase(false)
	}
	subject, err := p.parseSubject()
	if err != nil {
		return err
	}
	if err := p.parsePredicateObjectList(subject); err != nil {
		return err
	}
	p.skipWS()
	return p.expect('.')
}

// matchKeyword consumes a case-insensitive SPARQL-style directive keyword
// followed by whitespace. It leaves the input untouched on no match.
func (p *turtleParser) matchKeyword(kw string) bool {
	if p.pos+len(kw) >= len(p.input) {
		return false
	}
	for i, r := range kw {
		if unicode.ToUpper(p.peekAt(i)) != r {
			return false
		}
	}
	if !unicode.IsSpace(p.peekAt(len(kw))) {
		return false
	}
	for i := 0; i < len(kw)+1; i++ {
		p.next()
	}
	return true
}

func (p *turtleParser) parseAtDirective() error {
	p.next() // '@'
	word := p.readWhile(unicode.IsLetter)
	switch word {
	case "prefix":
		return p.parsePrefix(true)
	case "base":
		return p.parseBase(true)
	default:
		return p.errorf("unknown directive @%s", word)
	}
}

func (p *turtleParser) parsePrefix(dotted bool) error {
	p.skipWS()
	prefix := p.readWhile(isPNChar)
	if err := p.expect(':'); err != nil {
		return err
	}
	p.skipWS()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.prefixes[prefix] = string(iri)
	if dotted {
		p.skipWS()
		return p.expect('.')
	}
	return nil
}

func (p *turtleParser) parseBase(dotted bool) error {
	p.skipWS()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.base = string(iri)
	if dotted {
		p.skipWS()
		return p.expect('.')
	}
	return nil
}

func (p *turtleParser) parsePredicateObjectList(subject Term) error {
	for {
		p.skipWS()
		predicate, err := p.parsePredicate()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}
		p.skipWS()
		if p.peek() != ';' {
			return nil
		}
		for p.peek() == ';' {
			p.next()
			p.skipWS()
		}
		// Trailing semicolon before the statement terminator.
		if r := p.peek(); r == '.' || r == ']' || r == 0 {
			return nil
		}
	}
}

func (p *turtleParser) parseObjectList(subject Term, predicate IRI) error {
	for {
		p.skipWS()
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.graph.Add(Triple{Subject: subject, Predicate: predicate, Object: object})
		p.skipWS()
		if p.peek() != ',' {
			return nil
		}
		p.next()
	}
}

func (p *turtleParser) parsePredicate() (IRI, error) {
	if p.peek() == 'a' && !isPNChar(p.peekAt(1)) && p.peekAt(1) != ':' {
		p.next()
		return IRI(vocabulary.PredicateType), nil
	}
	term, err := p.parseIRITerm()
	if err != nil {
		return "", err
	}
	return term, nil
}

func (p *turtleParser) parseSubject() (Term, error) {
	switch r := p.peek(); {
	case r == '<':
		return p.parseIRITerm()
	case r == '_':
		return p.parseBlankNodeLabel()
	case r == '[':
		return p.parseBlankNodePropertyList()
	case r == '(':
		return p.parseCollection()
	default:
		return p.parseIRITerm()
	}
}

func (p *turtleParser) parseObject() (Term, error) {
	switch r := p.peek(); {
	case r == '<':
		return p.parseIRITerm()
	case r == '_':
		return p.parseBlankNodeLabel()
	case r == '[':
		return p.parseBlankNodePropertyList()
	case r == '(':
		return p.parseCollection()
	case r == '"' || r == '\'':
		return p.parseRDFLiteral()
	case r == '+' || r == '-' || unicode.IsDigit(r):
		return p.parseNumericLiteral()
	default:
		if lit, ok := p.tryBooleanLiteral(); ok {
			return lit, nil
		}
		return p.parseIRITerm()
	}
}

// parseIRITerm parses either an IRIREF or a prefixed name.
func (p *turtleParser) parseIRITerm() (IRI, error) {
	if p.peek() == '<' {
		return p.parseIRIRef()
	}
	return p.parsePrefixedName()
}

func (p *turtleParser) parseIRIRef() (IRI, error) {
	if err := p.expect('<'); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated IRI")
		}
		r := p.next()
		switch r {
		case '>':
			return p.resolveIRI(sb.String())
		case '\\':
			dec, err := p.parseUnicodeEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(dec)
		default:
			sb.WriteRune(r)
		}
	}
}

func (p *turtleParser) parseUnicodeEscape() (rune, error) {
	if p.eof() {
		return 0, p.errorf("truncated escape")
	}
	kind := p.next()
	var width int
	switch kind {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, p.errorf("invalid IRI escape \\%c", kind)
	}
	var hex strings.Builder
	for i := 0; i < width; i++ {
		if p.eof() {
			return 0, p.errorf("truncated \\%c escape", kind)
		}
		hex.WriteRune(p.next())
	}
	code, err := strconv.ParseUint(hex.String(), 16, 32)
	if err != nil {
		return 0, p.errorf("invalid \\%c escape %q", kind, hex.String())
	}
	return rune(code), nil
}

func (p *turtleParser) resolveIRI(ref string) (IRI, error) {
	if p.base == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "urn:") {
		return IRI(ref), nil
	}
	baseURL, err := url.Parse(p.base)
	if err != nil {
		return "", p.errorf("invalid base IRI %q", p.base)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", p.errorf("invalid IRI reference %q", ref)
	}
	return IRI(baseURL.ResolveReference(refURL).String()), nil
}

func (p *turtleParser) parsePrefixedName() (IRI, error) {
	prefix := p.readWhile(isPNChar)
	if p.peek() != ':' {
		return "", p.errorf("expected prefixed name, got %q", prefix+string(p.peek()))
	}
	p.next()
	local := p.readLocalName()
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", p.errorf("undeclared prefix %q", prefix)
	}
	return IRI(ns + local), nil
}

// readLocalName reads a PN_LOCAL, allowing interior dots but backing off
// trailing ones, which belong to the statement terminator.
func (p *turtleParser) readLocalName() string {
	var sb strings.Builder
	for !p.eof() {
		r := p.peek()
		if isPNChar(r) || r == '.' || r == '%' || r == '-' {
			sb.WriteRune(r)
			p.next()
			continue
		}
		if r == '\\' && p.pos+1 < len(p.input) {
			p.next()
			sb.WriteRune(p.next())
			continue
		}
		break
	}
	s := sb.String()
	for strings.HasSuffix(s, ".") {
		s = s[:len(s)-1]
		p.pos--
		p.col--
	}
	return s
}

func (p *turtleParser) parseBlankNodeLabel() (Term, error) {
	p.next() // '_'
	if err := p.expect(':'); err != nil {
		return nil, err
	}
	label := p.readWhile(func(r rune) bool { return isPNChar(r) || r == '-' })
	if label == "" {
		return nil, p.errorf("empty blank node label")
	}
	return BlankNode(label), nil
}

// newAnon allocates a blank node label outside the space of parseable
// labels (a leading dot is not legal in Turtle).
func (p *turtleParser) newAnon() BlankNode {
	p.anonSeq++
	return BlankNode(fmt.Sprintf(".anon%d", p.anonSeq))
}

func (p *turtleParser) parseBlankNodePropertyList() (Term, error) {
	p.next() // '['
	node := p.newAnon()
	p.skipWS()
	if p.peek() == ']' {
		p.next()
		return node, nil
	}
	if err := p.parsePredicateObjectList(node); err != nil {
		return nil, err
	}
	p.skipWS()
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *turtleParser) parseCollection() (Term, error) {
	p.next() // '('
	var items []Term
	for {
		p.skipWS()
		if p.eof() {
			return nil, p.errorf("unterminated collection")
		}
		if p.peek() == ')' {
			p.next()
			break
		}
		item, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return IRI(vocabulary.IRINil), nil
	}
	head := Term(p.newAnon())
	node := head
	for i, item := range items {
		p.graph.Add(Triple{Subject: node, Predicate: IRI(vocabulary.PredicateFirst), Object: item})
		if i == len(items)-1 {
			p.graph.Add(Triple{Subject: node, Predicate: IRI(vocabulary.PredicateRest), Object: IRI(vocabulary.IRINil)})
			break
		}
		next := Term(p.newAnon())
		p.graph.Add(Triple{Subject: node, Predicate: IRI(vocabulary.PredicateRest), Object: next})
		node = next
	}
	return head, nil
}

func (p *turtleParser) parseRDFLiteral() (Term, error) {
	value, err := p.parseString()
	if err != nil {
		return nil, err
	}
	lit := Literal{Value: value}
	switch p.peek() {
	case '@':
		p.next()
		lit.Lang = p.readWhile(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
		})
		if lit.Lang == "" {
			return nil, p.errorf("empty language tag")
		}
	case '^':
		p.next()
		if err := p.expect('^'); err != nil {
			return nil, err
		}
		dt, err := p.parseIRITerm()
		if err != nil {
			return nil, err
		}
		lit.Datatype = dt
	}
	return lit, nil
}

func (p *turtleParser) parseString() (string, error) {
	quote := p.next()
	long := false
	if p.peek() == quote && p.peekAt(1) == quote {
		p.next()
		p.next()
		long = true
	} else if p.peek() == quote {
		// Empty short string.
		p.next()
		return "", nil
	}
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		r := p.next()
		if r == quote {
			if !long {
				return sb.String(), nil
			}
			if p.peek() == quote && p.peekAt(1) == quote {
				p.next()
				p.next()
				return sb.String(), nil
			}
			sb.WriteRune(r)
			continue
		}
		if r == '\\' {
			dec, err := p.parseStringEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(dec)
			continue
		}
		if !long && (r == '\n' || r == '\r') {
			return "", p.errorf("newline in string")
		}
		sb.WriteRune(r)
	}
}

func (p *turtleParser) parseStringEscape() (rune, error) {
	if p.eof() {
		return 0, p.errorf("truncated escape")
	}
	switch r := p.next(); r {
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case '"', '\'', '\\':
		return r, nil
	case 'u', 'U':
		p.pos--
		p.col--
		return p.parseUnicodeEscape()
	default:
		return 0, p.errorf("invalid string escape \\%c", r)
	}
}

func (p *turtleParser) parseNumericLiteral() (Term, error) {
	var sb strings.Builder
	if r := p.peek(); r == '+' || r == '-' {
		sb.WriteRune(p.next())
	}
	dot := false
	exponent := false
	for !p.eof() {
		r := p.peek()
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune(p.next())
		case r == '.' && !dot && !exponent && unicode.IsDigit(p.peekAt(1)):
			dot = true
			sb.WriteRune(p.next())
		case (r == 'e' || r == 'E') && !exponent:
			exponent = true
			sb.WriteRune(p.next())
			if n := p.peek(); n == '+' || n == '-' {
				sb.WriteRune(p.next())
			}
		default:
			goto done
		}
	}
done:
	value := sb.String()
	datatype := vocabulary.XSDInteger
	if exponent {
		datatype = vocabulary.XSDDouble
	} else if dot {
		datatype = vocabulary.XSDDecimal
	}
	if value == "" || value == "+" || value == "-" {
		return nil, p.errorf("invalid numeric literal %q", value)
	}
	return Literal{Value: value, Datatype: IRI(datatype)}, nil
}

func (p *turtleParser) tryBooleanLiteral() (Term, bool) {
	for _, kw := range []string{"true", "false"} {
		if p.pos+len(kw) > len(p.input) {
			continue
		}
		if string(p.input[p.pos:p.pos+len(kw)]) != kw {
			continue
		}
		if after := p.peekAt(len(kw)); isPNChar(after) || after == ':' {
			continue
		}
		for range kw {
			p.next()
		}
		return Literal{Value: kw, Datatype: IRI(vocabulary.XSDBoolean)}, true
	}
	return nil, false
}

func (p *turtleParser) readWhile(pred func(rune) bool) string {
	var sb strings.Builder
	for !p.eof() && pred(p.peek()) {
		sb.WriteRune(p.next())
	}
	return sb.String()
}

func isPNChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
