// Package token implements the template tokenizer: a byte-offset
// scanner over template source text that emits a stream of semantic
// events (text runs, tag names, attribute names/values, comments,
// interpolations) by callback rather than allocated substrings.
//
// The whole source is scanned from an in-memory buffer rather than
// fed incrementally, so the scan states the source tokenizer keeps as
// explicit machine states collapse here into named scan* methods
// called in sequence — the same state progression (Text,
// BeforeTagName, InTagName, BeforeAttrName, InAttrName,
// BeforeAttrValue, InAttrValue{Dq,Sq,Nq}, InCommentLike,
// Interpolation, InRawText, InRCData) is still present, just expressed
// as control flow instead of a dispatched enum.
package token

import (
	"strings"

	vireoerrors "github.com/vireo-dev/vireo/internal/errors"
)

// Kind discriminates an emitted Token.
type Kind uint8

const (
	KindEOF Kind = iota
	KindText
	KindStartTagName
	KindAttrName
	KindAttrValue
	KindStartTagEnd  // '>' ending a non-self-closing start tag
	KindSelfClose    // '/>' ending a self-closing start tag
	KindEndTagName   // the name between '</' and '>'
	KindComment
	KindInterpolation
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindText:
		return "Text"
	case KindStartTagName:
		return "StartTagName"
	case KindAttrName:
		return "AttrName"
	case KindAttrValue:
		return "AttrValue"
	case KindStartTagEnd:
		return "StartTagEnd"
	case KindSelfClose:
		return "SelfClose"
	case KindEndTagName:
		return "EndTagName"
	case KindComment:
		return "Comment"
	case KindInterpolation:
		return "Interpolation"
	default:
		return "Unknown"
	}
}

// Token is a half-open byte range [Start, End) in the source, tagged
// with what it means. The tokenizer never copies source bytes itself;
// callers slice the original buffer.
type Token struct {
	Kind       Kind
	Start, End int
}

// Mode selects how tag content is scanned.
type Mode uint8

const (
	ModeBase Mode = iota // every tag is content-neutral
	ModeHTML             // script/style are RAWTEXT; title/textarea are RCDATA
	ModeSFC              // root-level non-template tags are RAWTEXT
)

var rawTextTags = map[string]bool{"script": true, "style": true}
var rcdataTags = map[string]bool{"title": true, "textarea": true}

// Sink receives tokens as they are produced. Errors do not go to the
// Sink: the tokenizer collects them for Errors and never stops
// scanning on one — it reports and resynchronizes at the nearest
// recoverable state.
type Sink interface {
	Emit(tok Token)
}

// Tokenizer scans template source text into a Token stream.
type Tokenizer struct {
	src  []byte
	pos  int
	sink Sink

	mode                   Mode
	delimOpen, delimClose  []byte
	file                   string

	errs []*vireoerrors.FrameworkError

	depth int // open-tag nesting depth, used for ModeSFC root detection
}

// New creates a Tokenizer over src, emitting tokens to sink as it
// scans. Defaults to ModeBase and "{{"/"}}" interpolation delimiters.
func New(src string, sink Sink) *Tokenizer {
	return &Tokenizer{
		src:         []byte(src),
		sink:        sink,
		mode:        ModeBase,
		delimOpen:   []byte("{{"),
		delimClose:  []byte("}}"),
	}
}

// WithMode sets the tag-content parse mode.
func (t *Tokenizer) WithMode(m Mode) *Tokenizer { t.mode = m; return t }

// WithDelimiters overrides the interpolation delimiters.
func (t *Tokenizer) WithDelimiters(open, close string) *Tokenizer {
	t.delimOpen, t.delimClose = []byte(open), []byte(close)
	return t
}

// WithFile sets the file name attached to reported errors.
func (t *Tokenizer) WithFile(name string) *Tokenizer { t.file = name; return t }

// Errors returns every error collected during Run.
func (t *Tokenizer) Errors() []*vireoerrors.FrameworkError { return t.errs }

func (t *Tokenizer) errorAt(code string, offset int) {
	line, col := t.position(offset)
	t.errs = append(t.errs, vireoerrors.New(code).WithLocation(t.file, line, col))
}

// LineCol returns the 1-based line and column of a byte offset into
// the source, for callers (package parser) building diagnostics from
// token spans.
func (t *Tokenizer) LineCol(offset int) (line, col int) { return t.position(offset) }

// position computes 1-based line/column for a byte offset by
// counting newlines up to it. Templates are small enough (compiled
// once, not on a hot path) that a linear scan is simpler than
// maintaining an incrementally updated newline index.
func (t *Tokenizer) position(offset int) (line, col int) {
	line = 1
	lastNL := -1
	for i := 0; i < offset && i < len(t.src); i++ {
		if t.src[i] == '\n' {
			line++
			lastNL = i
		}
	}
	return line, offset - lastNL
}

func (t *Tokenizer) emit(kind Kind, start, end int) {
	t.sink.Emit(Token{Kind: kind, Start: start, End: end})
}

// Run scans the whole source, emitting tokens to the sink, and
// finishes with a KindEOF token. It never panics on malformed input;
// malformed sequences are reported via Errors and resynchronized at
// the nearest Text position.
func (t *Tokenizer) Run() {
	n := len(t.src)
	textStart := t.pos
	for t.pos < n {
		switch {
		case t.matchDelim(t.delimOpen):
			t.flushText(textStart)
			t.scanInterpolation()
			textStart = t.pos
		case t.src[t.pos] == '<' && t.pos+1 < n && t.src[t.pos+1] == '!' && t.hasPrefix("<!--"):
			t.flushText(textStart)
			t.scanComment()
			textStart = t.pos
		case t.src[t.pos] == '<' && t.pos+1 < n && t.src[t.pos+1] == '/' && isNameStart(t.peekAt(2)):
			t.flushText(textStart)
			t.scanEndTag()
			textStart = t.pos
		case t.src[t.pos] == '<' && t.pos+1 < n && t.src[t.pos+1] == '/':
			// "</" not followed by a letter: invalid end tag, emit
			// error and treat the sequence as literal text.
			t.errorAt("E001", t.pos)
			t.pos += 2
		case t.src[t.pos] == '<' && isNameStart(t.peekAt(1)):
			t.flushText(textStart)
			t.scanStartTag()
			textStart = t.pos
		default:
			t.pos++
		}
	}
	t.flushText(textStart)
	t.emit(KindEOF, n, n)
}

func (t *Tokenizer) flushText(start int) {
	if t.pos > start {
		t.emit(KindText, start, t.pos)
	}
}

func (t *Tokenizer) peekAt(off int) byte {
	if t.pos+off >= len(t.src) {
		return 0
	}
	return t.src[t.pos+off]
}

func (t *Tokenizer) hasPrefix(s string) bool {
	return strings.HasPrefix(string(t.src[t.pos:]), s)
}

func (t *Tokenizer) matchDelim(delim []byte) bool {
	if len(delim) == 0 {
		return false
	}
	end := t.pos + len(delim)
	if end > len(t.src) {
		return false
	}
	for i, b := range delim {
		if t.src[t.pos+i] != b {
			return false
		}
	}
	return true
}

func isNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9') || b == '-' || b == '_' || b == '.' || b == ':'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// scanInterpolation consumes delimOpen, the expression text up to
// delimClose, and delimClose itself, emitting a single
// KindInterpolation token spanning just the expression text.
func (t *Tokenizer) scanInterpolation() {
	start := t.pos
	t.pos += len(t.delimOpen)
	exprStart := t.pos
	for t.pos < len(t.src) && !t.matchDelim(t.delimClose) {
		t.pos++
	}
	if t.pos >= len(t.src) {
		t.errorAt("E010", start)
		return
	}
	t.emit(KindInterpolation, exprStart, t.pos)
	t.pos += len(t.delimClose)
}

// scanComment consumes "<!--" ... "-->".
func (t *Tokenizer) scanComment() {
	start := t.pos
	t.pos += 4
	contentStart := t.pos
	for t.pos < len(t.src) && !t.hasPrefix("-->") {
		t.pos++
	}
	if t.pos >= len(t.src) {
		t.errorAt("E004", start)
		t.emit(KindComment, contentStart, t.pos)
		return
	}
	t.emit(KindComment, contentStart, t.pos)
	t.pos += 3
}

// scanStartTag consumes "<name" attrs... ">" or "/>", emitting
// KindStartTagName, a KindAttrName/KindAttrValue pair per attribute,
// and a KindStartTagEnd or KindSelfClose terminator. If the tag name
// (in ModeHTML) selects RAWTEXT or RCDATA content, or (in ModeSFC) is
// a non-template root tag, the following content is scanned as a
// single opaque text run up to the matching end tag.
func (t *Tokenizer) scanStartTag() {
	t.pos++ // consume '<'
	nameStart := t.pos
	for t.pos < len(t.src) && isNameChar(t.src[t.pos]) {
		t.pos++
	}
	name := strings.ToLower(string(t.src[nameStart:t.pos]))
	t.emit(KindStartTagName, nameStart, t.pos)

	selfClose := t.scanAttributes()

	if !selfClose {
		t.depth++
	}

	if selfClose {
		return
	}

	if t.mode == ModeHTML && rawTextTags[name] {
		t.scanRawUntilEndTag(name, false)
	} else if t.mode == ModeHTML && rcdataTags[name] {
		t.scanRawUntilEndTag(name, true)
	} else if t.mode == ModeSFC && t.depth == 1 && name != "template" {
		t.scanRawUntilEndTag(name, false)
	}
}

// scanAttributes consumes attribute name/value pairs up to '>' or
// '/>', returning true if the tag self-closes.
func (t *Tokenizer) scanAttributes() (selfClose bool) {
	for t.pos < len(t.src) {
		for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
			t.pos++
		}
		if t.pos >= len(t.src) {
			t.errorAt("E003", t.pos)
			return false
		}
		if t.src[t.pos] == '>' {
			t.emit(KindStartTagEnd, t.pos, t.pos+1)
			t.pos++
			return false
		}
		if t.src[t.pos] == '/' && t.peekAt(1) == '>' {
			t.emit(KindSelfClose, t.pos, t.pos+2)
			t.pos += 2
			return true
		}
		if t.src[t.pos] == '/' {
			t.pos++
			continue
		}
		t.scanOneAttribute()
	}
	t.errorAt("E003", t.pos)
	return false
}

func (t *Tokenizer) scanOneAttribute() {
	nameStart := t.pos
	for t.pos < len(t.src) {
		b := t.src[t.pos]
		if isSpace(b) || b == '=' || b == '>' {
			break
		}
		if b == '"' || b == '\'' || b == '<' {
			t.errorAt("E008", t.pos)
			t.pos++
			continue
		}
		if b == '/' && t.peekAt(1) == '>' {
			break
		}
		t.pos++
	}
	if t.pos == nameStart {
		// Lone '/' or similar stray character; consume it so the
		// outer loop makes progress.
		t.pos++
		return
	}
	t.emit(KindAttrName, nameStart, t.pos)

	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.src) || t.src[t.pos] != '=' {
		return // boolean attribute, no value
	}
	t.pos++ // consume '='
	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.src) || t.src[t.pos] == '>' {
		t.errorAt("E007", t.pos)
		return
	}

	switch t.src[t.pos] {
	case '"':
		t.scanQuotedValue('"')
	case '\'':
		t.scanQuotedValue('\'')
	default:
		t.scanUnquotedValue()
	}
}

func (t *Tokenizer) scanQuotedValue(quote byte) {
	start := t.pos
	t.pos++ // opening quote
	valStart := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != quote {
		t.pos++
	}
	if t.pos >= len(t.src) {
		t.errorAt("E005", start)
		t.emit(KindAttrValue, valStart, t.pos)
		return
	}
	t.emit(KindAttrValue, valStart, t.pos)
	t.pos++ // closing quote
}

func (t *Tokenizer) scanUnquotedValue() {
	valStart := t.pos
	for t.pos < len(t.src) {
		b := t.src[t.pos]
		if isSpace(b) || b == '>' {
			break
		}
		if b == '"' || b == '\'' || b == '<' || b == '=' || b == '`' {
			t.errorAt("E009", t.pos)
		}
		t.pos++
	}
	t.emit(KindAttrValue, valStart, t.pos)
}

// scanEndTag consumes "</name" optional-whitespace ">".
func (t *Tokenizer) scanEndTag() {
	t.pos += 2 // consume "</"
	nameStart := t.pos
	for t.pos < len(t.src) && isNameChar(t.src[t.pos]) {
		t.pos++
	}
	t.emit(KindEndTagName, nameStart, t.pos)
	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.src) && t.src[t.pos] == '>' {
		t.pos++
	} else if t.pos >= len(t.src) {
		t.errorAt("E003", t.pos)
	}
	if t.depth > 0 {
		t.depth--
	}
}

// scanRawUntilEndTag scans everything up to (not including) the
// matching "</name" sequence, then resumes normal scanning so the
// caller's own scanEndTag call consumes the close tag. RAWTEXT
// (rcdata false) emits the whole span as one KindText token; RCDATA
// (rcdata true, title/textarea) additionally recognizes interpolation
// delimiters within the span and emits KindInterpolation tokens for
// them, same as the top-level Run loop, since RCDATA still expands
// interpolation — it just never parses tags.
func (t *Tokenizer) scanRawUntilEndTag(name string, rcdata bool) {
	closer := "</" + name
	textStart := t.pos
	for t.pos < len(t.src) {
		if strings.HasPrefix(strings.ToLower(string(t.src[t.pos:])), closer) {
			break
		}
		if rcdata && t.matchDelim(t.delimOpen) {
			t.flushText(textStart)
			t.scanInterpolation()
			textStart = t.pos
			continue
		}
		t.pos++
	}
	t.flushText(textStart)
}
