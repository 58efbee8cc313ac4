package collector

import "time"

type cpuSample struct {
	cpu     float64
	at      time.Time
	created time.Time
}

// cpuUsage returns the CPU percentage of pid since its previous sample, or
// since process start when the pid is seen for the first time. A pid whose
// create time changed has been reused and starts over.
func (c *Collector) cpuUsage(pid int32, created time.Time, cpuSecs float64, now time.Time) float64 {
	prev, ok := c.samples[pid]
	c.samples[pid] = cpuSample{cpu: cpuSecs, at: now, created: created}

	if ok && prev.created.Equal(created) {
		wall := now.Sub(prev.at).Seconds()
		if wall <= 0 || cpuSecs < prev.cpu {
			return 0
		}
		return (cpuSecs - prev.cpu) / wall * 100
	}

	if created.IsZero() {
		return 0
	}
	wall := now.Sub(created).Seconds()
	if wall <= 0 {
		return 0
	}
	return cpuSecs / wall * 100
}

// prune drops samples of pids that were not observed in the last pass.
func (c *Collector) prune(seen map[int32]struct{}) {
	for pid := range c.samples {
		if _, ok := seen[pid]; !ok {
			delete(c.samples, pid)
		}
	}
}
