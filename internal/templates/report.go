package templates

import "github.com/aiimpact/tracker/internal/output"

// CopyStatus is the outcome of one manifest entry.
type CopyStatus string

const (
	StatusCopied        CopyStatus = output.StatusCopied
	StatusMissingSource CopyStatus = output.StatusMissing
	StatusError         CopyStatus = output.StatusError
)

// CopyResult is the outcome for a single entry.
type CopyResult struct {
	Entry  TemplateEntry
	Status CopyStatus
	Err    error
}

// CreationReport lists per-entry outcomes in manifest order.
type CreationReport struct {
	DestRoot     string
	TemplateRoot string
	Directories  []string
	Results      []CopyResult
}

func (r *CreationReport) filter(s CopyStatus) []CopyResult {
	var out []CopyResult
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}

// Copied returns the entries that were written.
func (r *CreationReport) Copied() []CopyResult { return r.filter(StatusCopied) }

// Missing returns the entries whose source was absent.
func (r *CreationReport) Missing() []CopyResult { return r.filter(StatusMissingSource) }

// Failed returns the entries that hit an I/O error.
func (r *CreationReport) Failed() []CopyResult { return r.filter(StatusError) }

// Render formats the report as one line per entry followed by a summary.
func (r *CreationReport) Render() string {
	var s string
	for _, res := range r.Results {
		s += output.FormatEntryLine(res.Entry.Dest, string(res.Status)) + "\n"
	}
	s += output.FormatSummary(len(r.Copied()), len(r.Missing()), len(r.Failed())) + "\n"
	return s
}

// Tree lists copied files with their descriptions.
func (r *CreationReport) Tree() []output.FileEntry {
	var out []output.FileEntry
	for _, res := range r.Copied() {
		out = append(out, output.FileEntry{Path: res.Entry.Dest, Description: res.Entry.Description})
	}
	return out
}
