// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import "strings"

var namedSchedules = map[string]string{
	"@yearly":   "0 0 0 1 1 *",
	"@annually": "0 0 0 1 1 *",
	"@monthly":  "0 0 0 1 * *",
	"@weekly":   "0 0 0 * * 0",
	"@daily":    "0 0 0 * * *",
	"@midnight": "0 0 0 * * *",
	"@hourly":   "0 0 * * * *",
}

// Parse compiles a textual cron pattern into an immutable Pattern, per
// spec.md §4.3. On any failure the returned Pattern is nil and must not be
// used; the compiled value is produced atomically (invariant (e)).
func Parse(text string) (*Pattern, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, newError(InvalidPattern, "empty pattern")
	}

	if expanded, ok := namedSchedules[trimmed]; ok {
		trimmed = expanded
	}

	switch {
	case strings.HasPrefix(trimmed, "EOD:"):
		return parseEODOnly(text, trimmed)
	case strings.HasPrefix(trimmed, "SOD:"):
		return parseSODOnly(text, trimmed)
	}

	// A top-level "|" alternates two sub-patterns, folded left-associatively
	// when more than one appears (spec.md §4.3's "no more than one level of
	// alternation is required" clause).
	if idx := strings.IndexByte(trimmed, '|'); idx >= 0 {
		return parseAlternation(text, trimmed, idx)
	}

	return parseCron(text, trimmed)
}

func parseEODOnly(source, trimmed string) (*Pattern, error) {
	p := newPattern(source)
	p.isEODPattern = true
	body := trimmed[len("EOD:"):]
	if !strings.HasPrefix(body, "E") {
		return nil, newError(InvalidPattern, "invalid EOD modifier: '"+body+"'")
	}
	if err := parseEOD(p, body[1:]); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseSODOnly(source, trimmed string) (*Pattern, error) {
	p := newPattern(source)
	p.isSODPattern = true
	body := trimmed[len("SOD:"):]
	if !strings.HasPrefix(body, "S") {
		return nil, newError(InvalidPattern, "invalid SOD modifier: '"+body+"'")
	}
	if err := parseSOD(p, body[1:]); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseAlternation(source, trimmed string, idx int) (*Pattern, error) {
	left := strings.TrimSpace(trimmed[:idx])
	right := strings.TrimSpace(trimmed[idx+1:])

	leftPattern, err := Parse(left)
	if err != nil {
		return nil, err
	}
	rightPattern, err := Parse(right)
	if err != nil {
		return nil, err
	}

	p := newPattern(source)
	p.hasCron = true
	p.minutes = leftPattern.minutes | rightPattern.minutes
	p.hours = leftPattern.hours | rightPattern.hours
	p.daysOfMonth = leftPattern.daysOfMonth | rightPattern.daysOfMonth
	p.months = leftPattern.months | rightPattern.months
	p.daysOfWeek = leftPattern.daysOfWeek | rightPattern.daysOfWeek

	// Modifiers are taken from the left sub-pattern only; spec.md §9 notes
	// this is an approximation when sub-patterns carry differing modifiers.
	p.sodType, p.sodModifier, p.sodUnit = leftPattern.sodType, leftPattern.sodModifier, leftPattern.sodUnit
	p.eodType, p.eodModifier, p.eodUnit = leftPattern.eodType, leftPattern.eodModifier, leftPattern.eodUnit
	p.woyModifier, p.woyCount, p.woyWeeks = leftPattern.woyModifier, leftPattern.woyCount, leftPattern.woyWeeks

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

var cronFields = [5]*fieldSpec{&minuteField, &hourField, &domField, &monthField, &dowField}

// parseCron compiles the 5/6/7-token cron body. Token 0 ("seconds") is
// accepted and ignored (spec.md §4.3); tokens 1..5 are the five cron
// fields; a 7th token is an optional WOY/SOD/EOD modifier suffix.
func parseCron(source, trimmed string) (*Pattern, error) {
	tokens := strings.Fields(trimmed)
	if len(tokens) < 6 {
		return nil, newError(InvalidPattern, "cron pattern requires at least 6 fields")
	}

	p := newPattern(source)
	p.hasCron = true

	for i, field := range cronFields {
		if err := field.parse(p, tokens[i+1]); err != nil {
			return nil, err
		}
	}

	if len(tokens) >= 7 {
		if err := applyModifierSuffix(p, tokens[6]); err != nil {
			return nil, err
		}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// applyModifierSuffix recognizes the optional 7th token: "WOY", an
// "S<d><U>" SOD suffix or an "E<d><U>" EOD suffix. A 7th token of some
// other shape is silently ignored, matching the reference behavior
// spec.md §8 calls out; a recognized shape with invalid inner content
// (an out-of-range WOY week, a malformed S/E body) is a syntax error and
// fails the whole Parse call.
func applyModifierSuffix(p *Pattern, token string) error {
	switch {
	case token == "WOY":
		p.woyModifier = true
	case strings.HasPrefix(token, "WOY:"):
		return parseWOY(p, token[len("WOY:"):])
	case len(token) >= 2 && token[0] == 'S' && isDigit(token[1]):
		return parseSOD(p, token[1:])
	case len(token) >= 2 && token[0] == 'E' && isDigit(token[1]):
		return parseEOD(p, token[1:])
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// MustParse is like Parse but panics if the expression cannot be parsed.
// It is intended for use in variable initializers and tests.
func MustParse(text string) *Pattern {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}
