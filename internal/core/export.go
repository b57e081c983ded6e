package core

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/roster/internal/table"
)

// ExportResult describes a finished export.
type ExportResult struct {
	Format      table.Format
	FileName    string
	ContentType string
	Rows        int
}

// Export writes the current dataset to w. An empty format selects the
// format of the uploaded file, or the configured default when nothing has
// been uploaded yet.
func (s *Service) Export(w io.Writer, format table.Format) (*ExportResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if format == "" {
		format = s.dataset.Format
	}
	if format == "" {
		format = s.exportFormat
	}
	if format != table.FormatCSV && format != table.FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	n, err := table.Write(w, format, s.dataset.Columns, s.dataset.Rows)
	if err != nil {
		return nil, err
	}

	s.recorder.RecordExport(string(format), n)
	return &ExportResult{
		Format:      format,
		FileName:    s.exportName + format.Extension(),
		ContentType: format.ContentType(),
		Rows:        n,
	}, nil
}
