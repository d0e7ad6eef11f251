package fetch

import "fmt"

// DownloadError reports a failed dataset download with its source context.
type DownloadError struct {
	Source string
	ID     string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("download from %s failed (id=%s): %v", e.Source, e.ID, e.Err)
	}
	return fmt.Sprintf("download from %s failed: %v", e.Source, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
