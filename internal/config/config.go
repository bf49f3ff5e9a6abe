// Package config holds the process-wide, read-only configuration object the
// translator queries (§6, §9 Design Notes "Global configuration"). It is
// initialised once before translation begins and never mutated afterward;
// pass it down as an explicit parameter, the way the rest of this core
// threads read-only collaborators.
package config

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// ProvenanceMode selects the provenance-negation encoding and subroutine
// shape (§4.F, §6).
type ProvenanceMode string

const (
	ProvenanceNone           ProvenanceMode = ""
	ProvenanceExplain        ProvenanceMode = "explain"
	ProvenanceSubtreeHeights ProvenanceMode = "subtreeHeights"
)

func (m ProvenanceMode) Enabled() bool { return m != ProvenanceNone }

// Config is the enumerated configuration surface of §6.
type Config struct {
	// FactDir is the directory prefix for default load paths.
	FactDir string `yaml:"fact-dir"`
	// OutputDir is the directory prefix for default store paths; "-"
	// redirects all stores to standard streams.
	OutputDir string `yaml:"output-dir"`
	// Provenance controls the provenance-negation encoding.
	Provenance ProvenanceMode `yaml:"provenance"`
	// Profile, when true, inserts log-timer/log-relation wrappers.
	Profile bool `yaml:"profile"`
	// DebugReport is decoded from the configuration file. Neither the
	// translator nor cmd/ramc reads it, and no debug report is written.
	DebugReport string `yaml:"debug-report"`
	// Compile, DlProgram, Generate each suppress the interpreter-specific
	// provenance existence guard in createOperation (4.D phase 4) when any
	// one of them is set.
	Compile   bool `yaml:"compile"`
	DlProgram bool `yaml:"dl-program"`
	Generate  bool `yaml:"generate"`

	// Logger is what cmd/ramc reports recoverable translation errors
	// through. The translator packages do not log; profiling timers are
	// emitted as RAM statements.
	Logger hclog.Logger `yaml:"-"`
}

// StdoutRedirect reports whether OutputDir selects the "-" sentinel that
// redirects all stores to standard streams (§4.G I/O directive
// materialisation).
func (c *Config) StdoutRedirect() bool {
	return c.OutputDir == "-"
}

// InterpreterGuardsSuppressed reports whether the interpreter-specific
// provenance existence guard in createOperation should be skipped (§4.D
// phase 4, §6): suppressed whenever any of compile/dl-program/generate is
// set.
func (c *Config) InterpreterGuardsSuppressed() bool {
	return c.Compile || c.DlProgram || c.Generate
}

// New returns a Config with a default hclog logger writing to w (stderr if
// w is nil), matching the level/name conventions hashicorp-nomad uses for
// its scheduler logger.
func New(w io.Writer) *Config {
	if w == nil {
		w = os.Stderr
	}
	return &Config{
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:   "ramc",
			Level:  hclog.Info,
			Output: w,
		}),
	}
}
