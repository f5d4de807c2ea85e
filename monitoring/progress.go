package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many steps of a long running job are done.
type ProgressBar struct {
	sync.Mutex `json:"-"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	Failed     uint64    `json:"failed"`
}

// Advance marks steps as finished. Failed steps are also counted separately.
func (b *ProgressBar) Advance(amount uint64, failed bool) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
	if failed {
		b.Failed += amount
	}
}

// Progress returns the finished and total number of steps.
func (b *ProgressBar) Progress() (finished, total uint64) {
	b.Lock()
	defer b.Unlock()

	return b.Finished, b.Total
}
