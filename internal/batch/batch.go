// Package batch coordinates the rename workflow: every candidate is
// filtered, transformed and handed to the executor, one at a time.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"renamer/internal/executor"
	"renamer/internal/matcher"
	"renamer/internal/output"
	"renamer/internal/scanner"
	"renamer/internal/transform"
)

// Options configures a Processor.
type Options struct {
	Pipeline    *transform.Pipeline
	Executor    *executor.Executor
	Output      *output.Output
	Mode        executor.Mode
	NumberStart int // First value for {num} placeholders
}

// Processor runs candidates through the rename pipeline. It is not safe for
// concurrent use; the {num} counter carries over between Process calls.
type Processor struct {
	pipeline *transform.Pipeline
	exec     *executor.Executor
	out      *output.Output
	mode     executor.Mode
	seq      int
}

// New creates a Processor.
func New(opts Options) *Processor {
	return &Processor{
		pipeline: opts.Pipeline,
		exec:     opts.Executor,
		out:      opts.Output,
		mode:     opts.Mode,
		seq:      opts.NumberStart,
	}
}

// Mode returns the run mode the processor executes in.
func (p *Processor) Mode() executor.Mode {
	return p.mode
}

// Process handles candidates in order. Failures are logged and counted;
// they never stop the batch. A cancelled ctx stops it between candidates.
func (p *Processor) Process(ctx context.Context, candidates []string) *Summary {
	summary := newSummary()

	if p.mode == executor.ModeExecute {
		p.out.StartProgress(len(candidates))
		defer p.out.EndProgress()
	}

	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			p.out.Debug("Stopping after %d of %d candidates: %v", i, len(candidates), err)
			summary.Interrupted = true
			break
		}
		p.out.UpdateProgress(i+1, "")
		p.processCandidate(candidate, summary)
	}

	return summary
}

// processCandidate expands a directory candidate or processes a single file.
func (p *Processor) processCandidate(path string, summary *Summary) {
	if p.mode == executor.ModeDryRun {
		p.processFile(path, summary)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		p.out.Debug("Path does not exist: %s", path)
		summary.add(Result{OldPath: path, Status: StatusSkipped, Error: err})
		return
	}

	if info.IsDir() && !hasTrailingSeparator(path) {
		entries, err := scanner.Scan(path)
		if err != nil {
			p.out.Error("failed to list %s: %v", path, err)
			summary.add(Result{OldPath: path, Status: StatusFailed, Error: err})
			return
		}
		for _, entry := range entries {
			p.processFile(entry.Path, summary)
		}
		return
	}

	p.processFile(path, summary)
}

// processFile filters, transforms and executes one file path.
func (p *Processor) processFile(path string, summary *Summary) {
	_, base, ext := transform.SplitPath(path)
	name := base + ext

	spec := p.pipeline.Spec()
	if !matcher.Matches(name, spec.Match) {
		p.out.Debug("Skipping %s: name does not match %q", path, spec.Match.String())
		summary.add(Result{OldPath: path, NewPath: path, Status: StatusFiltered})
		return
	}

	seq := p.seq
	if p.pipeline.Substitutes(name) {
		p.seq++
	}
	newPath := p.pipeline.Apply(path, seq)

	result, err := p.exec.Execute(path, newPath, p.mode)
	if err != nil {
		p.out.Error("failed to rename '%s' to '%s': %v", path, newPath, err)
		summary.add(Result{OldPath: path, NewPath: newPath, Status: StatusFailed, Error: err})
		return
	}

	status := StatusRenamed
	switch result.Action {
	case executor.ActionUnchanged:
		status = StatusUnchanged
	case executor.ActionSimulated:
		status = StatusSimulated
	}
	summary.add(Result{OldPath: path, NewPath: result.NewPath, Status: status})
}

func hasTrailingSeparator(path string) bool {
	return strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/")
}
