// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import "strings"

// parameterKeys returns the clause keys of a bnd parameter list, in
// order and without duplicates.
//
// A parameter list is a comma-separated sequence of clauses; each
// clause is a semicolon-separated sequence of keys followed by
// attributes (name=value or name:=value). Separators inside double
// quotes do not split. For
//
//	compositeArtifacts.xml;x=1,artifacts.xml,!
//
// the keys are compositeArtifacts.xml, artifacts.xml and !.
func parameterKeys(list string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, clause := range splitQuoted(list, ',') {
		for _, part := range splitQuoted(clause, ';') {
			part = strings.TrimSpace(part)
			if part == "" || isAttribute(part) {
				continue
			}
			key := unquote(part)
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// splitQuoted splits s on separator, ignoring separators inside
// double-quoted runs. A backslash inside quotes escapes the next byte.
func splitQuoted(s string, separator byte) []string {
	var parts []string
	start := 0
	quoted := false
	for index := 0; index < len(s); index++ {
		switch character := s[index]; {
		case character == '\\' && quoted:
			index++
		case character == '"':
			quoted = !quoted
		case character == separator && !quoted:
			parts = append(parts, s[start:index])
			start = index + 1
		}
	}
	return append(parts, s[start:])
}

// isAttribute reports whether a clause part is name=value rather than
// a key. An = inside quotes does not count.
func isAttribute(part string) bool {
	quoted := false
	for index := 0; index < len(part); index++ {
		switch part[index] {
		case '"':
			quoted = !quoted
		case '=':
			if !quoted {
				return true
			}
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		return strings.ReplaceAll(s, `\"`, `"`)
	}
	return s
}
