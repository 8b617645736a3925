package model

import "fmt"

// UntaggedTag is the reserved tag counted for records that match no rule.
const UntaggedTag = "untagged"

// Row is one line of a delimited input file, keyed by lowercase column name.
type Row struct {
	// Line is the 1-based line number in the source file, header included.
	Line   int
	Fields map[string]string
}

// Get returns the value of a column and whether the column is present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// PortProtocol identifies traffic by destination port and canonical protocol name.
// It keys both the rule table and the per-pair tally.
type PortProtocol struct {
	Port     string
	Protocol string
}

func (pp PortProtocol) String() string {
	return fmt.Sprintf("%s/%s", pp.Port, pp.Protocol)
}

// TagRule maps a (destination port, protocol name) pair to a tag, as read from
// the lookup table. Casing is normalized when the rule is built.
type TagRule struct {
	DstPort  string
	Protocol string
	Tag      string
}

// FlowRecord holds the fields of a flow log entry that take part in
// classification. Protocol is the raw IANA protocol number.
type FlowRecord struct {
	DstPort  string
	Protocol string
	Line     int
}
