package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// LabelKind distinguishes the two label variants.
type LabelKind int

const (
	LabelInteractive LabelKind = iota
	LabelMarkov
)

// TauText is the distinguished silent interactive action.
const TauText = "i"

// Label is a sum type: either an interactive action token, or a
// Markov rate with an optional abstract-name prefix. Labels are
// immutable once created and are always reached through an Interner,
// which hands out one shared *Label per canonical string.
type Label struct {
	kind   LabelKind
	text   string // interactive: raw (possibly composite) token text
	prefix string // markov: abstract-name prefix, "" if none
	rate   float64
}

// IsInteractive reports whether this label is the interactive variant.
func (l *Label) IsInteractive() bool { return l.kind == LabelInteractive }

// IsTau reports whether this label is exactly the silent action.
func (l *Label) IsTau() bool { return l.kind == LabelInteractive && l.text == TauText }

// Text returns the raw interactive token. Only meaningful when IsInteractive.
func (l *Label) Text() string { return l.text }

// Prefix returns the Markov abstract-name prefix, "" if none.
func (l *Label) Prefix() string { return l.prefix }

// Rate returns the Markov rate. Defined only for Markov labels.
func (l *Label) Rate() (float64, error) {
	if l.kind != LabelMarkov {
		return 0, NewDomainError(ErrCodeRateNotApplicable, "label is not Markov", nil)
	}
	return l.rate, nil
}

// String returns the canonical form used for interning and round-tripping.
func (l *Label) String() string {
	if l.kind == LabelInteractive {
		return l.text
	}
	return l.prefix + "rate " + formatRate(l.rate)
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// FormatRatePrecise renders a rate with the 10-digit precision the
// uniformizer and the text codecs use for on-disk output.
func FormatRatePrecise(r float64) string {
	return strconv.FormatFloat(r, 'f', 10, 64)
}

// Quote escapes every '|' and '\' in text with a leading '\'.
func Quote(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r == '|' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unquote reverses Quote: each '\' drops and the following rune is
// taken literally.
func Unquote(text string) string {
	var b strings.Builder
	escaped := false
	for _, r := range text {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// hasUnescapedPipe reports whether text contains a '|' at index >= 1
// that is not preceded by an odd number of backslashes.
func hasUnescapedPipe(text string) bool {
	backslashes := 0
	for i, r := range text {
		if r == '\\' {
			backslashes++
			continue
		}
		if r == '|' && i >= 1 && backslashes%2 == 0 {
			return true
		}
		backslashes = 0
	}
	return false
}

// createLabel classifies text per the interner's rules, without
// interning it.
func createLabel(text string) (*Label, error) {
	if hasUnescapedPipe(text) {
		return &Label{kind: LabelInteractive, text: text}, nil
	}

	const marker = "rate "
	if strings.HasPrefix(text, marker) {
		rate, err := parseRate(text[len(marker):])
		if err != nil {
			return nil, err
		}
		return &Label{kind: LabelMarkov, rate: rate}, nil
	}

	if idx := strings.Index(text, marker); idx > 0 {
		prefix := text[:idx]
		rate, err := parseRate(text[idx+len(marker):])
		if err != nil {
			return nil, err
		}
		return &Label{kind: LabelMarkov, prefix: prefix, rate: rate}, nil
	}

	return &Label{kind: LabelInteractive, text: text}, nil
}

func parseRate(s string) (float64, error) {
	trimmed := strings.TrimRight(s, " \t")
	if trimmed != s {
		return 0, NewDomainError(ErrCodeLabelParse, fmt.Sprintf("trailing whitespace after rate in %q", s), nil)
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, NewDomainError(ErrCodeLabelParse, fmt.Sprintf("rate text %q is not numeric", s), err)
	}
	return rate, nil
}

// Prepend composes l (the inner label) behind outer, per the closure
// engine's label-composition rule. Both labels must be interactive.
// Prepending tau leaves l unchanged. Text is concatenated raw, without
// quoting either side first; a composite label's parts are only
// unambiguous when the caller already guaranteed neither side contains
// a bare '|'.
func (l *Label) Prepend(outer *Label, interner *Interner) (*Label, error) {
	if outer.IsTau() {
		return l, nil
	}
	combined := outer.Text() + "|" + l.Text()
	return interner.Get(combined)
}
