// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"fmt"
	"strconv"
	"strings"
)

// filter is a compiled RFC 1960 (LDAP) filter as used in the mapping
// rules of artifacts.xml, for example
//
//	(& (classifier=osgi.bundle) (format=packed))
//
// Attribute names match case-insensitively.
type filter interface {
	match(attributes map[string]string) bool
}

type (
	andFilter []filter
	orFilter  []filter
	notFilter struct{ operand filter }

	presentFilter struct{ attribute string }

	compareFilter struct {
		attribute string
		operator  string // "=", "~=", ">=", "<="
		value     string
	}

	// substringFilter holds the literal runs of a value with
	// wildcards: a*b*c is {"a", "b", "c"}. An empty first or last run
	// leaves that end open.
	substringFilter struct {
		attribute string
		runs      []string
	}
)

func (f andFilter) match(attributes map[string]string) bool {
	for _, operand := range f {
		if !operand.match(attributes) {
			return false
		}
	}
	return true
}

func (f orFilter) match(attributes map[string]string) bool {
	for _, operand := range f {
		if operand.match(attributes) {
			return true
		}
	}
	return false
}

func (f notFilter) match(attributes map[string]string) bool {
	return !f.operand.match(attributes)
}

func (f presentFilter) match(attributes map[string]string) bool {
	_, present := lookupAttribute(attributes, f.attribute)
	return present
}

func (f compareFilter) match(attributes map[string]string) bool {
	actual, present := lookupAttribute(attributes, f.attribute)
	if !present {
		return false
	}
	switch f.operator {
	case "=":
		return actual == f.value
	case "~=":
		return strings.EqualFold(strings.Join(strings.Fields(actual), ""), strings.Join(strings.Fields(f.value), ""))
	case ">=":
		return compareValues(actual, f.value) >= 0
	case "<=":
		return compareValues(actual, f.value) <= 0
	}
	return false
}

func (f substringFilter) match(attributes map[string]string) bool {
	actual, present := lookupAttribute(attributes, f.attribute)
	if !present {
		return false
	}
	first, last := f.runs[0], f.runs[len(f.runs)-1]
	if !strings.HasPrefix(actual, first) {
		return false
	}
	actual = actual[len(first):]
	for _, run := range f.runs[1 : len(f.runs)-1] {
		position := strings.Index(actual, run)
		if position < 0 {
			return false
		}
		actual = actual[position+len(run):]
	}
	return strings.HasSuffix(actual, last)
}

func lookupAttribute(attributes map[string]string, name string) (string, bool) {
	if value, present := attributes[name]; present {
		return value, true
	}
	for key, value := range attributes {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

// compareValues orders numerically when both sides are integers and
// lexically otherwise.
func compareValues(left, right string) int {
	leftNumber, leftErr := strconv.ParseInt(strings.TrimSpace(left), 10, 64)
	rightNumber, rightErr := strconv.ParseInt(strings.TrimSpace(right), 10, 64)
	if leftErr == nil && rightErr == nil {
		switch {
		case leftNumber < rightNumber:
			return -1
		case leftNumber > rightNumber:
			return 1
		}
		return 0
	}
	return strings.Compare(left, right)
}

// compileFilter parses an LDAP filter expression.
func compileFilter(expression string) (filter, error) {
	parser := &filterParser{input: expression}
	parser.skipSpace()
	compiled, err := parser.parseFilter()
	if err != nil {
		return nil, err
	}
	parser.skipSpace()
	if parser.position != len(parser.input) {
		return nil, parser.errorf("trailing characters")
	}
	return compiled, nil
}

type filterParser struct {
	input    string
	position int
}

func (p *filterParser) errorf(format string, args ...any) error {
	return fmt.Errorf("filter %q at offset %d: %s", p.input, p.position, fmt.Sprintf(format, args...))
}

func (p *filterParser) skipSpace() {
	for p.position < len(p.input) && isFilterSpace(p.input[p.position]) {
		p.position++
	}
}

func isFilterSpace(character byte) bool {
	return character == ' ' || character == '\t' || character == '\n' || character == '\r'
}

func (p *filterParser) peek() byte {
	if p.position >= len(p.input) {
		return 0
	}
	return p.input[p.position]
}

func (p *filterParser) expect(character byte) error {
	if p.peek() != character {
		return p.errorf("expected %q", character)
	}
	p.position++
	return nil
}

func (p *filterParser) parseFilter() (filter, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	p.skipSpace()

	var compiled filter
	var err error
	switch p.peek() {
	case '&':
		p.position++
		var operands []filter
		operands, err = p.parseList()
		compiled = andFilter(operands)
	case '|':
		p.position++
		var operands []filter
		operands, err = p.parseList()
		compiled = orFilter(operands)
	case '!':
		p.position++
		p.skipSpace()
		var operand filter
		operand, err = p.parseFilter()
		compiled = notFilter{operand: operand}
	default:
		compiled, err = p.parseItem()
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return compiled, nil
}

func (p *filterParser) parseList() ([]filter, error) {
	var operands []filter
	for {
		p.skipSpace()
		if p.peek() != '(' {
			break
		}
		operand, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	if len(operands) == 0 {
		return nil, p.errorf("empty filter list")
	}
	return operands, nil
}

func (p *filterParser) parseItem() (filter, error) {
	start := p.position
	for p.position < len(p.input) && !strings.ContainsRune("=<>~()", rune(p.input[p.position])) {
		p.position++
	}
	attribute := strings.TrimSpace(p.input[start:p.position])
	if attribute == "" {
		return nil, p.errorf("missing attribute name")
	}

	operator := "="
	switch p.peek() {
	case '~', '<', '>':
		operator = string(p.peek()) + "="
		p.position++
		if err := p.expect('='); err != nil {
			return nil, err
		}
	case '=':
		p.position++
	default:
		return nil, p.errorf("expected operator after %q", attribute)
	}

	runs, wildcard, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if operator != "=" || !wildcard {
		return compareFilter{attribute: attribute, operator: operator, value: strings.Join(runs, "")}, nil
	}
	if len(runs) == 2 && runs[0] == "" && runs[1] == "" {
		return presentFilter{attribute: attribute}, nil
	}
	return substringFilter{attribute: attribute, runs: runs}, nil
}

// parseValue reads up to the closing parenthesis, splitting on
// unescaped wildcards and decoding backslash escapes.
func (p *filterParser) parseValue() ([]string, bool, error) {
	var runs []string
	var current strings.Builder
	wildcard := false
	for {
		if p.position >= len(p.input) {
			return nil, false, p.errorf("unterminated value")
		}
		character := p.input[p.position]
		switch character {
		case ')':
			return append(runs, current.String()), wildcard, nil
		case '(':
			return nil, false, p.errorf("unescaped '(' in value")
		case '*':
			wildcard = true
			runs = append(runs, current.String())
			current.Reset()
		case '\\':
			p.position++
			if p.position >= len(p.input) {
				return nil, false, p.errorf("dangling escape")
			}
			current.WriteByte(p.input[p.position])
		default:
			current.WriteByte(character)
		}
		p.position++
	}
}
