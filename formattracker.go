package termcore

// FormatTag associates a half-open BufPos range with style attributes.
type FormatTag struct {
	Range BufPosRange
	Bold  bool
	Color Color
}

func sameAttrs(a, b FormatTag) bool {
	return a.Bold == b.Bold && a.Color == b.Color
}

func rangesOverlap(a, b BufPosRange) bool {
	return a.Start.Less(b.End) && b.Start.Less(a.End)
}

// FormatTracker holds an ordered list of pairwise non-overlapping format
// tags, keyed by stable BufPos coordinates rather than byte offsets so
// it survives scrollback rotation untouched.
type FormatTracker struct {
	tags []FormatTag
}

// NewFormatTracker returns an empty tracker.
func NewFormatTracker() *FormatTracker {
	return &FormatTracker{}
}

// Tags returns the stored tags in ascending order.
func (ft *FormatTracker) Tags() []FormatTag {
	out := make([]FormatTag, len(ft.tags))
	copy(out, ft.tags)
	return out
}

// PushRange overlays rng with the style carried by cursor, truncating,
// splitting or dropping any existing tag it intersects, then merges the
// new tag with immediate neighbors of equal attributes.
func (ft *FormatTracker) PushRange(cursor CursorState, rng BufPosRange) {
	if !rng.Start.Less(rng.End) {
		return
	}

	newTag := FormatTag{Range: rng, Bold: cursor.Bold, Color: cursor.Color}

	var kept []FormatTag
	for _, existing := range ft.tags {
		if !rangesOverlap(existing.Range, rng) {
			kept = append(kept, existing)
			continue
		}

		// Head: the part of existing strictly before rng.Start.
		if existing.Range.Start.Less(rng.Start) {
			kept = append(kept, FormatTag{
				Range: BufPosRange{Start: existing.Range.Start, End: rng.Start},
				Bold:  existing.Bold,
				Color: existing.Color,
			})
		}
		// Tail: the part of existing strictly after rng.End.
		if rng.End.Less(existing.Range.End) {
			kept = append(kept, FormatTag{
				Range: BufPosRange{Start: rng.End, End: existing.Range.End},
				Bold:  existing.Bold,
				Color: existing.Color,
			})
		}
	}
	kept = append(kept, newTag)

	sortTagsByStart(kept)
	ft.tags = mergeAdjacent(kept)
}

// TruncateRange drops tag content intersecting rng without inserting a
// replacement. Used when bytes the tags describe are removed by a
// delete/clear operation that doesn't carry its own style, so stale
// attributes never linger over overwritten content.
func (ft *FormatTracker) TruncateRange(rng BufPosRange) {
	if !rng.Start.Less(rng.End) {
		return
	}
	var kept []FormatTag
	for _, existing := range ft.tags {
		if !rangesOverlap(existing.Range, rng) {
			kept = append(kept, existing)
			continue
		}
		if existing.Range.Start.Less(rng.Start) {
			kept = append(kept, FormatTag{
				Range: BufPosRange{Start: existing.Range.Start, End: rng.Start},
				Bold:  existing.Bold,
				Color: existing.Color,
			})
		}
		if rng.End.Less(existing.Range.End) {
			kept = append(kept, FormatTag{
				Range: BufPosRange{Start: rng.End, End: existing.Range.End},
				Bold:  existing.Bold,
				Color: existing.Color,
			})
		}
	}
	sortTagsByStart(kept)
	ft.tags = mergeAdjacent(kept)
}

func sortTagsByStart(tags []FormatTag) {
	// Small N in practice (one tag per style run); insertion sort keeps
	// this allocation-free and avoids importing sort for a handful of
	// elements.
	for i := 1; i < len(tags); i++ {
		for j := i; j > 0 && tags[j].Range.Start.Less(tags[j-1].Range.Start); j-- {
			tags[j], tags[j-1] = tags[j-1], tags[j]
		}
	}
}

func mergeAdjacent(tags []FormatTag) []FormatTag {
	if len(tags) == 0 {
		return nil
	}
	out := []FormatTag{tags[0]}
	for _, t := range tags[1:] {
		last := &out[len(out)-1]
		if last.Range.End == t.Range.Start && sameAttrs(*last, t) {
			last.Range.End = t.Range.End
			continue
		}
		out = append(out, t)
	}
	return out
}

const (
	formatTagKeyStart = "start"
	formatTagKeyEnd   = "end"
	formatTagKeyBold  = "bold"
	formatTagKeyColor = "color"
)

// Snapshot serializes the tag list as an array of
// {start, end, bold, color} maps.
func (ft *FormatTracker) Snapshot() Value {
	arr := make([]Value, len(ft.tags))
	for i, t := range ft.tags {
		arr[i] = Map(map[string]Value{
			formatTagKeyStart: t.Range.Start.Snapshot(),
			formatTagKeyEnd:   t.Range.End.Snapshot(),
			formatTagKeyBold:  Bool(t.Bold),
			formatTagKeyColor: String(t.Color.String()),
		})
	}
	return Array(arr)
}

// FormatTrackerFromSnapshot loads a FormatTracker produced by Snapshot.
func FormatTrackerFromSnapshot(v Value) (*FormatTracker, error) {
	arr, err := v.AsArray("format_tracker")
	if err != nil {
		return nil, err
	}
	tags := make([]FormatTag, len(arr))
	for i, item := range arr {
		m, err := item.AsMap("format_tag")
		if err != nil {
			return nil, err
		}
		startVal, err := field(m, formatTagKeyStart)
		if err != nil {
			return nil, err
		}
		start, err := BufPosFromSnapshot(startVal)
		if err != nil {
			return nil, err
		}
		endVal, err := field(m, formatTagKeyEnd)
		if err != nil {
			return nil, err
		}
		end, err := BufPosFromSnapshot(endVal)
		if err != nil {
			return nil, err
		}
		boldVal, err := field(m, formatTagKeyBold)
		if err != nil {
			return nil, err
		}
		bold, err := boldVal.AsBool(formatTagKeyBold)
		if err != nil {
			return nil, err
		}
		colorVal, err := field(m, formatTagKeyColor)
		if err != nil {
			return nil, err
		}
		colorStr, err := colorVal.AsString(formatTagKeyColor)
		if err != nil {
			return nil, err
		}
		tags[i] = FormatTag{
			Range: BufPosRange{Start: start, End: end},
			Bold:  bold,
			Color: ParseColor(colorStr),
		}
	}
	return &FormatTracker{tags: tags}, nil
}
