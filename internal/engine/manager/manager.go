package manager

import (
	"FlowTagger/internal/config"
	"FlowTagger/internal/engine/protocol"
	"FlowTagger/internal/engine/tagger"
	"FlowTagger/internal/engine/tagger/statistic"
	"FlowTagger/internal/errors"
	"FlowTagger/internal/model"
	"FlowTagger/internal/report"
	"FlowTagger/pkg/csvlog"
	"fmt"
	"log"
	"os"
)

// Manager orchestrates a single tagging run: build the rule table, stream the
// flow log through the aggregator, then hand the tallies to the writer.
type Manager struct {
	cfg        *config.Config
	aggregator *tagger.Aggregator
	writer     model.Writer
}

// NewManager creates a Manager that writes the report where cfg says.
func NewManager(cfg *config.Config) (*Manager, error) {
	var writer model.Writer
	if cfg.ToStdout() {
		writer = report.NewTextWriter(os.Stdout)
	} else {
		writer = report.NewFileWriter(cfg.Output.Path)
	}
	return NewManagerWithWriter(cfg, writer)
}

// NewManagerWithWriter creates a Manager that sends the report to writer.
func NewManagerWithWriter(cfg *config.Config, writer model.Writer) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy := tagger.PolicyStrict
	if cfg.Permissive() {
		policy = tagger.PolicyPermissive
	}

	return &Manager{
		cfg:        cfg,
		aggregator: tagger.New(cfg.Classifier.Name, policy),
		writer:     writer,
	}, nil
}

// Aggregator exposes the underlying aggregator.
func (m *Manager) Aggregator() *tagger.Aggregator {
	return m.aggregator
}

// Run performs the whole run. Nothing is written unless every rule and
// record was processed successfully. Counts start from zero on every call,
// so an aborted run leaves nothing behind for the next one.
func (m *Manager) Run() (statistic.SnapshotData, error) {
	rulesPath, logPath := m.cfg.Input.RulesPath, m.cfg.Input.LogPath
	m.aggregator.Reset()

	log.Printf("Loading tag rules from '%s'...", rulesPath)
	if err := m.LoadRules(rulesPath); err != nil {
		return statistic.SnapshotData{}, err
	}
	log.Printf("Loaded %d tag rules.", m.aggregator.RuleCount())

	log.Printf("Classifying flow records from '%s' (unknown protocols: %s)...", logPath, m.aggregator.Policy())
	if err := m.ProcessLog(logPath); err != nil {
		return statistic.SnapshotData{}, err
	}

	snapshot := m.aggregator.Report()
	log.Printf("Classified %d records into %d tags and %d port/protocol pairs.",
		snapshot.Records, snapshot.ByTag.Len(), snapshot.ByPortProtocol.Len())

	if err := m.writer.Write(snapshot); err != nil {
		return statistic.SnapshotData{}, fmt.Errorf("failed to write report: %w", err)
	}
	return snapshot, nil
}

// LoadRules reads the rule table at path and builds the aggregator's rules.
// The whole table is parsed before any rule is applied.
func (m *Manager) LoadRules(path string) error {
	reader, err := csvlog.NewReader(path, protocol.RuleColumns...)
	if err != nil {
		return err
	}
	defer reader.Close()

	return m.BuildRulesFrom(path, reader)
}

// BuildRulesFrom builds rules from an already opened reader. name labels errors.
func (m *Manager) BuildRulesFrom(name string, reader *csvlog.Reader) error {
	var rules []model.TagRule
	err := reader.ReadRows(func(row model.Row) error {
		rule, err := protocol.ParseTagRule(row)
		if err != nil {
			return errors.Attr(err, "file", name)
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return err
	}

	m.aggregator.BuildRules(rules)
	return nil
}

// ProcessLog streams the flow log at path through the aggregator.
func (m *Manager) ProcessLog(path string) error {
	reader, err := csvlog.NewReader(path, protocol.FlowColumns...)
	if err != nil {
		return err
	}
	defer reader.Close()

	return m.ProcessFrom(path, reader)
}

// ProcessFrom classifies every row of an already opened reader, stopping at
// the first malformed record or rejected protocol.
func (m *Manager) ProcessFrom(name string, reader *csvlog.Reader) error {
	return reader.ReadRows(func(row model.Row) error {
		rec, err := protocol.ParseFlowRecord(row)
		if err != nil {
			return errors.Attr(err, "file", name)
		}
		if _, err := m.aggregator.Classify(rec); err != nil {
			err = errors.Attr(err, "file", name)
			err = errors.Attr(err, "line", rec.Line)
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		return nil
	})
}
