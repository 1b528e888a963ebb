package sensors

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// defaultSink is the pactl name for the default output sink.
const defaultSink = "@DEFAULT_SINK@"

// readAudio queries the default sink's mute flag and volume percentage via
// pactl. Muted output shows no percentage; otherwise the volume is bucketed
// into three icon tiers.
func (r *Reader) readAudio(ctx context.Context) (Reading, error) {
	mute, err := r.probeOutput(ctx, Audio, "pactl", "get-sink-mute", defaultSink)
	if err != nil {
		return Reading{}, err
	}
	if strings.Contains(mute, "Mute: yes") {
		return Reading{Kind: Audio, Text: r.icons.Mute + " Muted"}, nil
	}

	volOut, err := r.probeOutput(ctx, Audio, "pactl", "get-sink-volume", defaultSink)
	if err != nil {
		return Reading{}, err
	}
	volume, ok := parseVolume(volOut)
	if !ok {
		return Reading{}, &ParseError{Kind: Audio, Output: volOut}
	}

	return Reading{Kind: Audio, Text: r.formatVolume(volume)}, nil
}

// formatVolume buckets an unmuted volume percentage into icon tiers.
func (r *Reader) formatVolume(volume int) string {
	var icon string
	switch {
	case volume < 33:
		icon = r.icons.VolLow
	case volume < 66:
		icon = r.icons.VolMid
	default:
		icon = r.icons.VolHigh
	}
	return fmt.Sprintf("%s %d%%", icon, volume)
}

// parseVolume extracts the first percentage token from `pactl
// get-sink-volume` output, e.g.
//
//	Volume: front-left: 39321 /  60% / -13.31 dB,   front-right: ...
func parseVolume(out string) (int, bool) {
	for _, f := range strings.Fields(out) {
		if !strings.HasSuffix(f, "%") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSuffix(f, "%"))
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}
