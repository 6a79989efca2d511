package board

import (
	"sort"
	"time"
)

// resizeBuffer holds the latest width sample per task. A new sample
// restarts that task's debounce window.
type resizeBuffer struct {
	samples map[int]ResizeSample
}

func newResizeBuffer() *resizeBuffer {
	return &resizeBuffer{samples: make(map[int]ResizeSample)}
}

func (b *resizeBuffer) add(s ResizeSample) {
	b.samples[s.TaskID] = s
}

func (b *resizeBuffer) pending(taskID int) (ResizeSample, bool) {
	s, ok := b.samples[taskID]
	return s, ok
}

func (b *resizeBuffer) drop(taskID int) {
	delete(b.samples, taskID)
}

func (b *resizeBuffer) len() int {
	return len(b.samples)
}

// due removes and returns, in task id order, the samples at least window
// older than now.
func (b *resizeBuffer) due(now time.Time, window time.Duration) []ResizeSample {
	var out []ResizeSample
	for id, s := range b.samples {
		if now.Sub(s.At) >= window {
			out = append(out, s)
			delete(b.samples, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

func (b *resizeBuffer) renumber(ids map[int]int) {
	if len(ids) == 0 {
		return
	}
	next := make(map[int]ResizeSample, len(b.samples))
	for id, s := range b.samples {
		if nid, ok := ids[id]; ok {
			id = nid
			s.TaskID = nid
		}
		next[id] = s
	}
	b.samples = next
}

func (b *resizeBuffer) reset() {
	clear(b.samples)
}
