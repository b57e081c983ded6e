package core

// Recorder receives operational events from the service. The metrics
// package provides the Prometheus implementation.
type Recorder interface {
	RecordUpload(format string, rows int)
	RecordUploadFailure(code string)
	RecordGroupUpdate(rows int)
	RecordExport(format string, rows int)
}

type nopRecorder struct{}

func (nopRecorder) RecordUpload(string, int) {}
func (nopRecorder) RecordUploadFailure(string) {}
func (nopRecorder) RecordGroupUpdate(int) {}
func (nopRecorder) RecordExport(string, int) {}
