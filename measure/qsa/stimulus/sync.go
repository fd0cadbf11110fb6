package stimulus

import "strconv"

// Sync tags each stimulus sample with the waveform phase it belongs to.
// The codes travel on an analog channel next to the stimulus itself.
type Sync int8

// Synchronization codes.
const (
	SyncOff       Sync = -1
	SyncIgnore    Sync = 0
	SyncStep      Sync = 2
	SyncMultisine Sync = 3
	SyncDrop      Sync = 4
)

// Level returns the code as an analog channel value.
func (s Sync) Level() float64 { return float64(s) }

func (s Sync) String() string {
	switch s {
	case SyncOff:
		return "off"
	case SyncIgnore:
		return "ignore"
	case SyncStep:
		return "step"
	case SyncMultisine:
		return "multisine"
	case SyncDrop:
		return "drop"
	default:
		return "sync(" + strconv.Itoa(int(s)) + ")"
	}
}
