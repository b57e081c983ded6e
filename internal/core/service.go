package core

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/table"
	"github.com/google/uuid"
)

// Service owns the in-memory dataset and every operation on it.
//
// The dataset is replaced wholesale by Upload and mutated in place by
// UpdateGroups. A single RWMutex covers each operation's whole
// read-modify-write pass, so readers never see a half-replaced dataset.
type Service struct {
	exportFormat table.Format
	exportName   string
	limiter      *UploadLimiter
	recorder     Recorder
	now          func() time.Time

	mu      sync.RWMutex
	dataset Dataset
}

// Dataset is the most recently uploaded table.
type Dataset struct {
	ID         string
	FileName   string
	Format     table.Format
	Columns    []string
	Rows       []table.Record
	UploadedAt time.Time
}

// DatasetInfo describes the current dataset without its rows.
type DatasetInfo struct {
	ID         string       `json:"upload_id"`
	FileName   string       `json:"file_name"`
	Format     table.Format `json:"format"`
	Columns    []string     `json:"columns"`
	Rows       int          `json:"rows"`
	UploadedAt *time.Time   `json:"uploaded_at,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service with an empty dataset.
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	format, err := table.ParseFormat(cfg.Export.DefaultFormat)
	if err != nil {
		return nil, fmt.Errorf("export default format: %w", err)
	}

	s := &Service{
		exportFormat: format,
		exportName:   cfg.Export.FileName,
		limiter:      NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		recorder:     nopRecorder{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upload parses a file and, on success, replaces the dataset with it.
// A failed parse leaves the previous dataset in place.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (*DatasetInfo, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.recorder.RecordUploadFailure(MapError(err).Code)
		return nil, err
	}
	defer s.limiter.Release()

	result, err := table.Parse(r, fileName)
	if err != nil {
		s.recorder.RecordUploadFailure(MapError(err).Code)
		return nil, fmt.Errorf("parse %q: %w", fileName, err)
	}

	ds := Dataset{
		ID:         uuid.NewString(),
		FileName:   fileName,
		Format:     result.Format,
		Columns:    result.Columns,
		Rows:       result.Rows,
		UploadedAt: s.now(),
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	s.recorder.RecordUpload(string(ds.Format), len(ds.Rows))
	ip, ua := ClientFromContext(ctx)
	logging.WithFields(ctx, "upload_id", ds.ID, "file", fileName).Info("dataset replaced",
		"format", ds.Format,
		"rows", len(ds.Rows),
		"columns", len(ds.Columns),
		"ip", ip,
		"user_agent", ua,
	)

	info := ds.info()
	return &info, nil
}

// Dataset returns metadata for the current dataset. Before the first
// upload every field is empty.
func (s *Service) Dataset() DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.info()
}

func (d Dataset) info() DatasetInfo {
	info := DatasetInfo{
		ID:       d.ID,
		FileName: d.FileName,
		Format:   d.Format,
		Columns:  append([]string{}, d.Columns...),
		Rows:     len(d.Rows),
	}
	if !d.UploadedAt.IsZero() {
		t := d.UploadedAt
		info.UploadedAt = &t
	}
	return info
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
