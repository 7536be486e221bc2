package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode/utf16"
)

// Record is a single accepted domain entry. Records are immutable once
// written to the ledger; field order here is the on-disk field order.
type Record struct {
	FQDN         string `json:"fqdn"`
	Timestamp    string `json:"timestamp"`
	PreviousHash string `json:"previous_hash"`
	Hash         string `json:"hash"`
}

// NewRecord builds a record for fqdn stamped at now (second precision) and
// attaches its content hash.
func NewRecord(fqdn string, now time.Time, previousHash string) Record {
	r := Record{
		FQDN:         fqdn,
		Timestamp:    FormatEpoch(now),
		PreviousHash: previousHash,
	}
	r.Hash = r.ComputeHash()
	return r
}

// ComputeHash recomputes the hash from the record's content fields. The
// stored Hash field is ignored.
func (r Record) ComputeHash() string {
	return ComputeHash(r.FQDN, r.Timestamp, r.PreviousHash)
}

// VerifyHash reports whether the stored hash matches the content fields.
func (r Record) VerifyHash() bool {
	return r.Hash == r.ComputeHash()
}

// Time returns the record's creation time.
func (r Record) Time() (time.Time, error) {
	return ParseEpoch(r.Timestamp)
}

// WithPreviousHash returns a copy of r linked to prev and rehashed.
func (r Record) WithPreviousHash(prev string) Record {
	r.PreviousHash = prev
	r.Hash = r.ComputeHash()
	return r
}

// ComputeHash returns the lowercase hex SHA-256 of the canonical encoding of
// the three content fields.
func ComputeHash(fqdn, timestamp, previousHash string) string {
	sum := sha256.Sum256(canonical(map[string]string{
		"fqdn":          fqdn,
		"timestamp":     timestamp,
		"previous_hash": previousHash,
	}))
	return hex.EncodeToString(sum[:])
}

// canonical encodes fields as a JSON object with keys in sorted order,
// ", " and ": " separators and every character outside printable ASCII
// escaped as \uXXXX. These are the bytes existing ledgers were hashed over,
// e.g. {"fqdn": "b\u00fccher.de", "previous_hash": "", "timestamp": "1"}.
func canonical(fields map[string]string) []byte {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(fields)) {
		if i > 0 {
			b.WriteString(", ")
		}
		writeASCIIString(&b, k)
		b.WriteString(": ")
		writeASCIIString(&b, fields[k])
	}
	b.WriteByte('}')
	return []byte(b.String())
}

// writeASCIIString writes s as a quoted JSON string using only printable
// ASCII. Runes beyond the BMP become UTF-16 surrogate pairs.
func writeASCIIString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
}
