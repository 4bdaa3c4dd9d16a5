// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package calc

import (
	"sort"

	"github.com/skyscrub/skyscrub/internal/weather"
)

// Interval is one half-open slot of the timeline positioning grid. EndMs is
// inclusive (next cut point minus 1ms), so consecutive intervals are
// contiguous and never overlap.
type Interval struct {
	StartMs int64 `json:"startMs"`
	EndMs   int64 `json:"endMs"`
}

// MergedIntervals reconciles the two independently-sampled series, hourly
// forecast points and 10-minute radar frames, into one ordered partition.
// Cut points are the deduplicated, ascending union of hourly timestamps,
// radar frame timestamps and the synthetic radar end boundary. Each
// interval ends 1ms before the next cut point; the final cut point has no
// successor and is dropped as a boundary only. The result exactly tiles
// [first cut, last cut) with no gaps or overlaps.
func MergedIntervals(hourly []weather.HourlyPoint, radar weather.Radar) []Interval {
	seen := make(map[int64]struct{}, len(hourly)+len(radar.Frames)+1)
	cuts := make([]int64, 0, len(hourly)+len(radar.Frames)+1)
	add := func(ms int64) {
		if _, ok := seen[ms]; ok {
			return
		}
		seen[ms] = struct{}{}
		cuts = append(cuts, ms)
	}

	for _, p := range hourly {
		add(p.TimestampMs)
	}
	for _, f := range radar.Frames {
		add(f.TimestampMs)
	}
	if end := radar.EndBoundaryMs(); end != 0 {
		add(end)
	}
	if len(cuts) < 2 {
		return nil
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })

	intervals := make([]Interval, len(cuts)-1)
	for i := range intervals {
		intervals[i] = Interval{StartMs: cuts[i], EndMs: cuts[i+1] - 1}
	}
	return intervals
}
