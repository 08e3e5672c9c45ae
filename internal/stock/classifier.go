// Package stock decides from page text whether a product is available.
//
// Matching is plain case-insensitive substring containment. A longer word that
// contains a phrase still counts, and a page that words unavailability in a way
// the phrase lists do not cover reads as in stock. Both are known and accepted.
package stock

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Verdict is the classifier's availability call
type Verdict int

const (
	NotInStock Verdict = iota
	InStock
)

func (v Verdict) String() string {
	if v == InStock {
		return "in_stock"
	}
	return "not_in_stock"
}

// MarshalText renders the verdict as its string form in JSON and YAML
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// SignalSet holds the two ordered phrase lists
type SignalSet struct {
	OutOfStock []string
	InStock    []string
}

// ErrInvalidPage matches any *InvalidPageError via errors.Is
var ErrInvalidPage = errors.New("invalid page")

// InvalidPageError reports that the fetched text is not the expected page.
// It is a hard failure and must never be read as "out of stock".
type InvalidPageError struct {
	Anchor     string
	StatusCode int // filled in by the caller when known
	Length     int // characters in the inspected text
}

func (e *InvalidPageError) Error() string {
	msg := fmt.Sprintf("invalid page: anchor %q not found (%d characters", e.Anchor, e.Length)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status %d", e.StatusCode)
	}
	return msg + ")"
}

func (e *InvalidPageError) Is(target error) bool {
	return target == ErrInvalidPage
}

// ValidContent is lowercased page text known to contain the anchor phrase.
// The only way to obtain one is Classifier.Validate.
type ValidContent struct {
	text string
}

// Len returns the content length in characters
func (c ValidContent) Len() int { return utf8.RuneCountInString(c.text) }

// Result is the evidence and verdict for one classification
type Result struct {
	OutOfStock []string `json:"out_of_stock"`
	InStock    []string `json:"in_stock"`
	Verdict    Verdict  `json:"verdict"`
}

// Classifier validates and classifies page text against a fixed anchor and SignalSet
type Classifier struct {
	anchor  string
	signals SignalSet
}

// NewClassifier creates a classifier. Anchor and phrases are lowercased once here.
func NewClassifier(anchor string, signals SignalSet) *Classifier {
	return &Classifier{
		anchor: strings.ToLower(anchor),
		signals: SignalSet{
			OutOfStock: lowerAll(signals.OutOfStock),
			InStock:    lowerAll(signals.InStock),
		},
	}
}

// Validate lowercases content and checks that it contains the anchor phrase
func (c *Classifier) Validate(content string) (ValidContent, error) {
	lower := strings.ToLower(content)
	if !strings.Contains(lower, c.anchor) {
		return ValidContent{}, &InvalidPageError{
			Anchor: c.anchor,
			Length: utf8.RuneCountInString(lower),
		}
	}
	return ValidContent{text: lower}, nil
}

// Classify collects every matching phrase from both lists and applies the
// veto rule: in stock only when some in-stock phrase matched and no
// out-of-stock phrase did.
func (c *Classifier) Classify(content ValidContent) Result {
	result := Result{
		OutOfStock: matchAll(content.text, c.signals.OutOfStock),
		InStock:    matchAll(content.text, c.signals.InStock),
		Verdict:    NotInStock,
	}

	if len(result.InStock) > 0 && len(result.OutOfStock) == 0 {
		result.Verdict = InStock
	}

	return result
}

// matchAll returns the phrases contained in text, preserving list order
func matchAll(text string, phrases []string) []string {
	matched := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			matched = append(matched, phrase)
		}
	}
	return matched
}

func lowerAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToLower(p)
	}
	return out
}
