package tagger

import (
	"FlowTagger/internal/engine/protocol"
	"FlowTagger/internal/engine/tagger/statistic"
	"FlowTagger/internal/errors"
	"FlowTagger/internal/model"
	"fmt"
	"log"
	"strings"
)

// Policy decides what happens to a record whose protocol number is not in the registry.
type Policy int

const (
	// PolicyStrict rejects the record with an UnknownProtocol error.
	PolicyStrict Policy = iota
	// PolicyPermissive counts the record as untagged under a pseudo protocol name.
	PolicyPermissive
)

func (p Policy) String() string {
	if p == PolicyPermissive {
		return "permissive"
	}
	return "strict"
}

// UnknownProtocolName is the pseudo protocol name used by PolicyPermissive.
func UnknownProtocolName(number string) string {
	return fmt.Sprintf("UNKNOWN(%s)", strings.TrimSpace(number))
}

// Aggregator classifies flow records against a table of tag rules and keeps
// two running tallies: per tag and per (port, protocol) pair.
// An Aggregator is not safe for concurrent use; partition the input and Merge instead.
type Aggregator struct {
	name     string
	policy   Policy
	registry protocol.Registry

	rules map[model.PortProtocol]string
	built bool

	byTag          *statistic.Tally[string]
	byPortProtocol *statistic.Tally[model.PortProtocol]
	records        uint64
}

// New creates an aggregator with an empty rule table.
func New(name string, policy Policy) *Aggregator {
	return &Aggregator{
		name:           name,
		policy:         policy,
		registry:       protocol.DefaultRegistry,
		rules:          make(map[model.PortProtocol]string),
		byTag:          statistic.NewTally[string](),
		byPortProtocol: statistic.NewTally[model.PortProtocol](),
	}
}

// Name returns the name of the aggregator.
func (a *Aggregator) Name() string {
	return a.name
}

// Policy returns how unknown protocol numbers are handled.
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// Built reports whether BuildRules has been called.
func (a *Aggregator) Built() bool {
	return a.built
}

// RuleCount returns the number of distinct rule keys.
func (a *Aggregator) RuleCount() int {
	return len(a.rules)
}

// ruleKey normalizes a port and protocol name into a rule table key.
func ruleKey(port, protocolName string) model.PortProtocol {
	return model.PortProtocol{
		Port:     strings.TrimSpace(port),
		Protocol: strings.ToUpper(strings.TrimSpace(protocolName)),
	}
}

// BuildRules inserts each rule into the table, keyed by port and uppercased
// protocol name, with the tag lowercased. A later rule for the same key
// replaces an earlier one.
func (a *Aggregator) BuildRules(rules []model.TagRule) {
	for _, rule := range rules {
		key := ruleKey(rule.DstPort, rule.Protocol)
		tag := strings.ToLower(strings.TrimSpace(rule.Tag))
		if prev, ok := a.rules[key]; ok && prev != tag {
			log.Printf("Rule for %s redefined: '%s' replaces '%s'", key, tag, prev)
		}
		a.rules[key] = tag
	}
	a.built = true
}

// Rule returns the tag for a port and protocol name, applying the same
// normalization as BuildRules.
func (a *Aggregator) Rule(port, protocolName string) (string, bool) {
	tag, ok := a.rules[ruleKey(port, protocolName)]
	return tag, ok
}

// Classify counts one flow record and returns the tag it was counted under.
// On error no tally is changed.
func (a *Aggregator) Classify(rec model.FlowRecord) (string, error) {
	name, err := a.registry.Resolve(rec.Protocol)
	if err != nil {
		if a.policy != PolicyPermissive {
			return "", err
		}
		name = UnknownProtocolName(rec.Protocol)
	}

	// Rule keys are uppercased; registry names such as "IPv6" are not.
	key := model.PortProtocol{Port: strings.TrimSpace(rec.DstPort), Protocol: name}
	tag, ok := a.rules[ruleKey(key.Port, key.Protocol)]
	if !ok || err != nil {
		tag = model.UntaggedTag
	}

	a.byTag.Inc(tag)
	a.byPortProtocol.Inc(key)
	a.records++
	return tag, nil
}

// Report returns an independent copy of both tallies in first-seen order.
// It does not reset state.
func (a *Aggregator) Report() statistic.SnapshotData {
	return statistic.SnapshotData{
		Name:           a.name,
		Records:        a.records,
		ByTag:          a.byTag.Clone(),
		ByPortProtocol: a.byPortProtocol.Clone(),
	}
}

// Reset clears both tallies and keeps the rule table.
func (a *Aggregator) Reset() {
	a.byTag = statistic.NewTally[string]()
	a.byPortProtocol = statistic.NewTally[model.PortProtocol]()
	a.records = 0
}

// Merge adds the tallies of other into a. The result equals classifying both
// inputs with a single aggregator, whatever the split or order.
func (a *Aggregator) Merge(other *Aggregator) error {
	if other == nil {
		return nil
	}
	if other == a {
		return errors.New(errors.KindInternal, "cannot merge an aggregator into itself")
	}
	a.byTag.Merge(other.byTag)
	a.byPortProtocol.Merge(other.byPortProtocol)
	a.records += other.records
	return nil
}
