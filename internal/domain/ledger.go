package domain

import "fmt"

// DefaultPageSize is the number of records per page when none is given.
const DefaultPageSize = 100

// Ledger is the ordered record collection. Insertion order is chronological
// order; index 0 is the oldest surviving record.
type Ledger []Record

// Len returns the number of records.
func (l Ledger) Len() int { return len(l) }

// Tail returns the most recent record, or false for an empty ledger.
func (l Ledger) Tail() (Record, bool) {
	if len(l) == 0 {
		return Record{}, false
	}
	return l[len(l)-1], true
}

// Append returns a new ledger holding l followed by records. l is not
// modified.
func (l Ledger) Append(records ...Record) Ledger {
	out := make(Ledger, 0, len(l)+len(records))
	out = append(out, l...)
	return append(out, records...)
}

// Prune keeps only the most recent max records and returns the surviving
// ledger with the number of records discarded. Survivors keep their order.
// A non-positive max discards everything.
func (l Ledger) Prune(max int) (Ledger, int) {
	if max < 0 {
		max = 0
	}
	if len(l) <= max {
		return l, 0
	}
	dropped := len(l) - max
	out := make(Ledger, max)
	copy(out, l[dropped:])
	return out, dropped
}

// Link chains records onto the end of l: each record's previous_hash becomes
// the hash of the record before it (the ledger tail for the first one) and
// its hash is recomputed. The input slice is not modified.
func (l Ledger) Link(records []Record) []Record {
	out := make([]Record, len(records))
	prev := ""
	if tail, ok := l.Tail(); ok {
		prev = tail.Hash
	}
	for i, r := range records {
		out[i] = r.WithPreviousHash(prev)
		prev = out[i].Hash
	}
	return out
}

// At returns the record at 0-based position i.
func (l Ledger) At(i int) (Record, error) {
	if i < 0 || i >= len(l) {
		return Record{}, fmt.Errorf("%w: index %d of %d", ErrRecordNotFound, i, len(l))
	}
	return l[i], nil
}

// Page is one window of the ledger. Start and End are the 0-based,
// half-open bounds of Records within the whole ledger.
type Page struct {
	Number  int
	PerPage int
	Start   int
	End     int
	Total   int
	Records Ledger
}

// Pages returns the number of pages.
func (p Page) Pages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Page returns the 1-based page number of perPage records. Pages past the end
// are empty; page numbers below 1 are treated as 1.
func (l Ledger) Page(number, perPage int) Page {
	if number < 1 {
		number = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	start := (number - 1) * perPage
	if start > len(l) {
		start = len(l)
	}
	end := min(start+perPage, len(l))
	return Page{
		Number:  number,
		PerPage: perPage,
		Start:   start,
		End:     end,
		Total:   len(l),
		Records: l[start:end],
	}
}

// Issue describes one integrity problem found by Verify.
type Issue struct {
	Index  int
	FQDN   string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("#%d %s: %s", i.Index, i.FQDN, i.Reason)
}

// Verify checks every record's hash against its content and, for records
// that carry a previous_hash, that it matches the hash of the record before
// it. The first record's link is not checked because its predecessor may
// have been pruned.
func (l Ledger) Verify() []Issue {
	var issues []Issue
	for i, r := range l {
		if !r.VerifyHash() {
			issues = append(issues, Issue{Index: i, FQDN: r.FQDN, Reason: "hash does not match content"})
		}
		if _, err := r.Time(); err != nil {
			issues = append(issues, Issue{Index: i, FQDN: r.FQDN, Reason: "unparsable timestamp"})
		}
		if i > 0 && r.PreviousHash != "" && r.PreviousHash != l[i-1].Hash {
			issues = append(issues, Issue{Index: i, FQDN: r.FQDN, Reason: "previous_hash does not match preceding record"})
		}
	}
	return issues
}
