package report

import (
	"FlowTagger/internal/engine/tagger/statistic"
	"FlowTagger/internal/errors"
	"FlowTagger/internal/model"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	TagHeader          = "Tag, Count"
	PortProtocolHeader = "Port,Protocol,Count"
)

// TextWriter renders the per-tag and per-port/protocol tallies as two
// comma-separated tables.
type TextWriter struct {
	out  io.Writer
	path string
}

// NewTextWriter creates a writer that emits to out.
func NewTextWriter(out io.Writer) model.Writer {
	return &TextWriter{out: out}
}

// NewFileWriter creates a writer that replaces the file at path on each Write.
func NewFileWriter(path string) model.Writer {
	return &TextWriter{path: path}
}

// Write renders a statistic.SnapshotData. The report is built in memory and
// emitted in a single write, so a failure never leaves half a report behind.
func (w *TextWriter) Write(payload interface{}) error {
	snapshot, ok := payload.(statistic.SnapshotData)
	if !ok {
		return fmt.Errorf("invalid payload type for TextWriter: expected statistic.SnapshotData, got %T", payload)
	}

	var buf bytes.Buffer
	Render(&buf, snapshot)

	if w.path == "" {
		if _, err := w.out.Write(buf.Bytes()); err != nil {
			return errors.Wrap(err, errors.KindResourceUnavailable, "failed to write report")
		}
		return nil
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Attr(errors.Wrap(err, errors.KindResourceUnavailable, "failed to create report directory"), "path", dir)
		}
	}
	if err := os.WriteFile(w.path, buf.Bytes(), 0644); err != nil {
		return errors.Attr(errors.Wrapf(err, errors.KindResourceUnavailable, "failed to write report file '%s'", w.path), "path", w.path)
	}
	log.Printf("Successfully wrote %d tags and %d port/protocol pairs to %s", snapshot.ByTag.Len(), snapshot.ByPortProtocol.Len(), w.path)
	return nil
}

// Render writes both tables in first-seen order.
func Render(buf *bytes.Buffer, snapshot statistic.SnapshotData) {
	buf.WriteString(TagHeader + "\n")
	if snapshot.ByTag != nil {
		for _, e := range snapshot.ByTag.Entries() {
			fmt.Fprintf(buf, "%s,%d\n", e.Key, e.Count)
		}
	}

	buf.WriteString(PortProtocolHeader + "\n")
	if snapshot.ByPortProtocol != nil {
		for _, e := range snapshot.ByPortProtocol.Entries() {
			fmt.Fprintf(buf, "%s,%s,%d\n", e.Key.Port, e.Key.Protocol, e.Count)
		}
	}
}
