package jobs

import (
	"log"
	"time"

	"github.com/wolf-den/wolfden-backend/internal/services"
)

// RetentionJob periodically sweeps expired call-note records. The notes
// service also sweeps after every successful save; this job catches records
// that go stale while nobody is writing.
type RetentionJob struct {
	notes     *services.NotesService
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewRetentionJob creates the sweep scheduler
func NewRetentionJob(notes *services.NotesService) *RetentionJob {
	return &RetentionJob{
		notes:    notes,
		interval: time.Hour,
	}
}

// Start begins the scheduled sweep
func (r *RetentionJob) Start() {
	if r.isRunning {
		log.Println("Retention job already running")
		return
	}

	r.isRunning = true
	r.stop = make(chan struct{})
	log.Println("Starting note retention sweep job...")

	go r.run()
}

// Stop halts the scheduled sweep
func (r *RetentionJob) Stop() {
	if !r.isRunning {
		return
	}
	r.isRunning = false
	close(r.stop)
	log.Println("Stopping note retention sweep job...")
}

func (r *RetentionJob) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.notes.Sweep(time.Now())
		case <-r.stop:
			return
		}
	}
}
