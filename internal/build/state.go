package build

import (
	"log/slog"
	"time"

	"github.com/All1eexx/ApkForge/internal/config"
)

// Well-known FoundFiles keys.
const (
	FoundApktoolJar  = "apktool_jar"
	FoundBaksmaliJar = "baksmali_jar"
	FoundSmaliJar    = "smali_jar"
	FoundSourceAPK   = "source_apk"
)

// Change records one value a step rewrote during the build, for the final
// summary.
type Change struct {
	Name string `json:"name"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// State is the build context shared by reference with every step. The
// pipeline runs steps strictly one at a time, so access needs no locking;
// anything that introduces concurrent steps must add synchronization here.
type State struct {
	Config     *config.Config
	Paths      *Paths
	Keystore   *config.Keystore
	FoundFiles map[string]string
	Logger     *slog.Logger
	StartTime  time.Time

	changes  []Change
	warnings []string
}

// NewState creates the run's build state.
func NewState(cfg *config.Config, paths *Paths, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		Config:     cfg,
		Paths:      paths,
		FoundFiles: make(map[string]string),
		Logger:     logger,
		StartTime:  time.Now(),
	}
}

// FoundFile returns a path discovered earlier in the run.
func (s *State) FoundFile(name string) (string, bool) {
	p, ok := s.FoundFiles[name]
	return p, ok
}

// RecordWarning notes a non-fatal problem. The pipeline collects pending
// warnings after each successful step and classifies the step accordingly.
func (s *State) RecordWarning(msg string) {
	s.warnings = append(s.warnings, msg)
}

// ConsumeWarnings returns the warnings recorded since the last call and
// clears them.
func (s *State) ConsumeWarnings() []string {
	w := s.warnings
	s.warnings = nil
	return w
}

// RecordChange notes a value rewritten during the build.
func (s *State) RecordChange(name, old, new string) {
	s.changes = append(s.changes, Change{Name: name, Old: old, New: new})
}

// Changes returns the changes recorded so far, in order.
func (s *State) Changes() []Change {
	return append([]Change(nil), s.changes...)
}
