// Package form holds the view state shared by the lookup forms: dropdown
// options, the sound list, and the result panel.
package form

// Option is one entry of a dropdown. The placeholder has an empty value.
type Option struct {
	Label string
	Value string
}

// Placeholder returns the leading empty-valued option of a dropdown.
func Placeholder(label string) Option {
	return Option{Label: label}
}

// Options returns the placeholder followed by one option per value, in order.
func Options(placeholder string, values []string) []Option {
	opts := make([]Option, 0, len(values)+1)
	opts = append(opts, Placeholder(placeholder))
	for _, v := range values {
		opts = append(opts, Option{Label: v, Value: v})
	}
	return opts
}

// SoundStatus tracks where the sound dropdown is in its fetch cycle.
type SoundStatus int

const (
	SoundsIdle SoundStatus = iota
	SoundsLoading
	SoundsReady
	SoundsEmpty
	SoundsFailed
)

// SoundList is the content of a sound dropdown.
type SoundList struct {
	Status SoundStatus
	Items  []string

	// IdleLabel overrides the placeholder shown before an animal is chosen.
	IdleLabel string
}

// Enabled reports whether a sound may be picked.
func (l SoundList) Enabled() bool {
	return l.Status == SoundsReady && len(l.Items) > 0
}

// Contains reports whether sound is one of the loaded items.
func (l SoundList) Contains(sound string) bool {
	for _, s := range l.Items {
		if s == sound {
			return true
		}
	}
	return false
}

// Placeholder returns the label of the empty option for the current status.
func (l SoundList) Placeholder() string {
	switch l.Status {
	case SoundsLoading:
		return "Loading sounds..."
	case SoundsReady:
		return "-- Select Sound --"
	case SoundsEmpty:
		return "No sounds available"
	case SoundsFailed:
		return "Error loading sounds"
	default:
		if l.IdleLabel != "" {
			return l.IdleLabel
		}
		return "Select animal first"
	}
}

// Options returns the dropdown content for the list.
func (l SoundList) Options() []Option {
	if !l.Enabled() {
		return []Option{Placeholder(l.Placeholder())}
	}
	return Options(l.Placeholder(), l.Items)
}

// Reset returns an idle list that keeps its idle label.
func (l SoundList) Reset() SoundList {
	return SoundList{IdleLabel: l.IdleLabel}
}

// Loaded returns the list after a fetch finished with sounds or err.
func (l SoundList) Loaded(sounds []string, err error) SoundList {
	next := l.Reset()
	switch {
	case err != nil:
		next.Status = SoundsFailed
	case len(sounds) == 0:
		next.Status = SoundsEmpty
	default:
		next.Status = SoundsReady
		next.Items = append([]string(nil), sounds...)
	}
	return next
}
