package history

import "time"

// Downsample keeps at most max points, evenly spaced by index. The first
// and last points always survive so the graph spans the full range.
func Downsample(points []Point, max int) []Point {
	n := len(points)
	if max <= 0 || n <= max {
		return points
	}
	if max == 1 {
		return []Point{points[n-1]}
	}

	out := make([]Point, max)
	for i := range max {
		out[i] = points[i*(n-1)/(max-1)]
	}
	return out
}

// Segments folds state changes into contiguous segments covering
// [start, end]. Repeated states extend the current segment; each segment
// ends where the next begins and the last ends at end. Changes outside the
// window are clamped to it.
func Segments(changes []StateChange, start, end time.Time) []Segment {
	out := []Segment{}
	for _, c := range changes {
		t := c.Time
		if t.Before(start) {
			t = start
		}
		if !t.Before(end) {
			break
		}
		if n := len(out); n > 0 {
			if out[n-1].State == c.State {
				continue
			}
			out[n-1].End = t
		}
		out = append(out, Segment{State: c.State, Start: t, End: end})
	}

	// A change clamped onto the previous start leaves a zero-length segment.
	kept := out[:0]
	for _, s := range out {
		if s.End.After(s.Start) {
			kept = append(kept, s)
		}
	}
	return kept
}
