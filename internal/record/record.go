package record

import "strings"

// Record is one row of the request table: a loose mapping from field name to
// raw string value. Upstream loaders stringify whole sheets, so even dates and
// numbers arrive as text.
type Record map[string]string

// RecordSet is an ordered sequence of Records sharing a loose field
// vocabulary. Fields may be absent from any subset of rows.
type RecordSet []Record

// Blank value sentinels produced by spreadsheet loaders that stringify
// missing cells.
var blankSentinels = map[string]bool{
	"":     true,
	"nan":  true,
	"nat":  true,
	"none": true,
	"null": true,
}

// IsBlank reports whether a raw value carries no information.
func IsBlank(value string) bool {
	return blankSentinels[strings.ToLower(strings.TrimSpace(value))]
}

// Get returns the trimmed value for field and whether it is non-blank.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[field]
	if !ok || IsBlank(v) {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of the record set.
func (rs RecordSet) Clone() RecordSet {
	out := make(RecordSet, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// HasField reports whether field appears in the set's vocabulary, i.e. at
// least one record carries the key (blank values still count as presence).
func (rs RecordSet) HasField(field string) bool {
	for _, r := range rs {
		if _, ok := r[field]; ok {
			return true
		}
	}
	return false
}
