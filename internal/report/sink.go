// Package report serializes the process table to the tabular output
// file a discipline run produces. Offline disciplines write once at
// completion; online disciplines overwrite the file after every
// completion so partial progress stays observable.
//
// Grounded on original_source/Offline_scheduler.h's
// write_results_to_csv: same field order, same always-quoted command,
// same Yes/No booleans, written field-by-field rather than through a
// generic CSV encoder. The original itself is a plain ofstream writer,
// not a CSV library, and stdlib encoding/csv's automatic quoting rules
// (quote only when needed) don't match the required "command always
// enclosed in double quotes, regardless of content" behavior. TotalCPU
// is appended for online variants.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"procsched/internal/process"
)

// Sink writes a process table to a CSV file at path. IncludeCPU adds
// the TotalCPU column, used by online disciplines only.
type Sink struct {
	path       string
	includeCPU bool
	log        *zap.SugaredLogger
}

// New builds a Sink targeting path. includeCPU should be true for
// online disciplines.
func New(path string, includeCPU bool, log *zap.SugaredLogger) *Sink {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sink{path: path, includeCPU: includeCPU, log: log}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// quoteCommand wraps cmd in double quotes, escaping any literal quote
// the command itself contains so the file stays parseable.
func quoteCommand(cmd string) string {
	return `"` + strings.ReplaceAll(cmd, `"`, `""`) + `"`
}

// Write serializes every record in the table to the sink's file,
// overwriting whatever was there before. A failure to open the file is
// logged and returned, but the caller is expected to continue the
// scheduler run regardless.
func (s *Sink) Write(records []*process.Record) error {
	f, err := os.Create(s.path)
	if err != nil {
		s.log.Errorw("reporting: could not open output file", "path", s.path, "err", err)
		return fmt.Errorf("report: create %q: %w", s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	header := "Command,Finished,Error,CompletionTime,Turnaround,Waiting,Response"
	if s.includeCPU {
		header += ",TotalCPU"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	for _, r := range records {
		line := fmt.Sprintf("%s,%s,%s,%d,%d,%d,%d",
			quoteCommand(r.Command),
			yesNo(r.Finished),
			yesNo(r.Error),
			r.CompletionTime,
			r.TurnaroundMS(),
			r.WaitingMS(),
			r.ResponseMS(),
		)
		if s.includeCPU {
			line += fmt.Sprintf(",%d", r.TotalCPUTimeMS)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("report: write row: %w", err)
		}
	}
	return w.Flush()
}
