package main

import (
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"airlift/internal/services/releaseapi"
)

// uploadProgress renders an interactive byte-count tracker for the artifact
// upload. It is only attached when stdout is a terminal.
type uploadProgress struct {
	pw      progress.Writer
	tracker *progress.Tracker
	once    sync.Once
	started bool
}

func newUploadProgress(out io.Writer) *uploadProgress {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetTrackerLength(25)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	return &uploadProgress{
		pw:      pw,
		tracker: &progress.Tracker{Message: "Uploading artifact", Units: progress.UnitsBytes},
	}
}

// update is safe to call from the upload goroutine.
func (u *uploadProgress) update(p releaseapi.UploadProgress) {
	u.once.Do(func() {
		u.tracker.Total = p.TotalBytes
		u.pw.AppendTracker(u.tracker)
		go u.pw.Render()
		u.started = true
	})
	u.tracker.SetValue(p.SentBytes)
}

func (u *uploadProgress) finish() {
	if !u.started {
		return
	}
	u.tracker.MarkAsDone()
	u.pw.Stop()
	for u.pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
