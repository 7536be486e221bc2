// Package fqdn validates candidate hostnames from the domain list.
//
// Validation splits a hostname into subdomain, registrable domain label and
// public suffix using the Public Suffix List, then requires the domain label
// to be letters and digits only. Names DNS would allow, such as
// my-domain.com or punycode labels, are rejected.
//
// Nothing is normalized. The suffix list is lowercase, so EXAMPLE.COM has an
// unlisted suffix and is rejected, while Example.com is accepted as is.
package fqdn

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

// CommentPrefix marks a comment line in the domain list.
const CommentPrefix = "#"

// minSuffixLen is the shortest suffix accepted, in characters.
const minSuffixLen = 2

// Parts is a hostname split by public-suffix rules.
type Parts struct {
	Subdomain string
	Domain    string
	Suffix    string
}

// Split splits host into its parts. ok is false when host has an empty label
// or its suffix is not on the Public Suffix List (including single-label
// hosts and IP literals); Domain is empty when host is itself a suffix.
// Suffixes from the list's private section count as suffixes.
func Split(host string) (p Parts, ok bool) {
	if host == "" {
		return Parts{}, false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" {
			return Parts{}, false
		}
	}

	suffix, icann := publicsuffix.PublicSuffix(host)
	// Unlisted names fall through to the implicit "*" rule, which yields the
	// last label with icann=false. Private-section matches always span two
	// or more labels.
	if !icann && !strings.Contains(suffix, ".") {
		return Parts{}, false
	}
	p.Suffix = suffix
	if suffix == host {
		return p, true
	}

	rest := strings.TrimSuffix(host, "."+suffix)
	if i := strings.LastIndexByte(rest, '.'); i >= 0 {
		p.Subdomain, p.Domain = rest[:i], rest[i+1:]
	} else {
		p.Domain = rest
	}
	return p, true
}

// Valid reports whether candidate is an acceptable ledger entry. The
// candidate is trimmed first; blank and comment lines are never valid.
func Valid(candidate string) bool {
	host := strings.TrimSpace(candidate)
	if host == "" || strings.HasPrefix(host, CommentPrefix) {
		return false
	}

	p, ok := Split(host)
	if !ok || p.Domain == "" || p.Suffix == "" {
		return false
	}
	if !alnum(p.Domain) {
		return false
	}
	return utf8.RuneCountInString(p.Suffix) >= minSuffixLen
}

// alnum reports whether s is made only of letters and digits. A hyphen is
// neither, so it fails here.
func alnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
