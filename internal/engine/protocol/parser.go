package protocol

import (
	"FlowTagger/internal/errors"
	"FlowTagger/internal/model"
	"strings"
)

// Column names shared by the rule table and the flow log.
const (
	ColumnDstPort  = "dstport"
	ColumnProtocol = "protocol"
	ColumnTag      = "tag"
)

// RuleColumns and FlowColumns list the columns each input must provide.
var (
	RuleColumns = []string{ColumnDstPort, ColumnProtocol, ColumnTag}
	FlowColumns = []string{ColumnDstPort, ColumnProtocol}
)

// ParseTagRule extracts a TagRule from a rule table row.
func ParseTagRule(row model.Row) (model.TagRule, error) {
	values, err := requireFields(row, RuleColumns)
	if err != nil {
		return model.TagRule{}, err
	}
	return model.TagRule{
		DstPort:  values[0],
		Protocol: values[1],
		Tag:      values[2],
	}, nil
}

// ParseFlowRecord extracts a FlowRecord from a flow log row. Columns other than
// dstport and protocol are ignored.
func ParseFlowRecord(row model.Row) (model.FlowRecord, error) {
	values, err := requireFields(row, FlowColumns)
	if err != nil {
		return model.FlowRecord{}, err
	}
	return model.FlowRecord{
		DstPort:  values[0],
		Protocol: values[1],
		Line:     row.Line,
	}, nil
}

// requireFields returns the trimmed values of the given columns, failing on
// the first one that is absent or blank.
func requireFields(row model.Row, columns []string) ([]string, error) {
	values := make([]string, len(columns))
	for i, column := range columns {
		v, ok := row.Get(column)
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			err := errors.Errorf(errors.KindMalformedRecord, "line %d: missing field %q", row.Line, column)
			err = errors.Attr(err, "line", row.Line)
			return nil, errors.Attr(err, "field", column)
		}
		values[i] = v
	}
	return values, nil
}
