package ingestion

import (
	"time"

	"github.com/guttosm/etmarket/internal/logger"
)

// Skip is a rejected line and every reason it was rejected.
type Skip struct {
	Line    int      `json:"line"`
	Reasons []string `json:"reasons"`
}

// Report summarises the load of one file.
type Report struct {
	Entity  string        `json:"entity"`
	File    string        `json:"file"`
	Total   int           `json:"total"`
	Loaded  int           `json:"loaded"`
	Skipped []Skip        `json:"skipped,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

func (r *Report) skip(line int, reasons ...string) {
	r.Skipped = append(r.Skipped, Skip{Line: line, Reasons: reasons})
}

// log writes the summary line and one warning per skipped record.
func (r *Report) log() {
	for _, s := range r.Skipped {
		logger.L().Warn().
			Str("entity", r.Entity).
			Str("file", r.File).
			Int("line", s.Line).
			Strs("reasons", s.Reasons).
			Msg("record skipped")
	}
	logger.L().Info().
		Str("entity", r.Entity).
		Str("file", r.File).
		Int("total", r.Total).
		Int("loaded", r.Loaded).
		Int("skipped", len(r.Skipped)).
		Dur("elapsed", r.Elapsed).
		Msg("file done")
}
