package model

// FlashCategory tags a flash message with its severity.
type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashError   FlashCategory = "error"
	FlashInfo    FlashCategory = "info"
	FlashWarning FlashCategory = "warning"
)

// Valid reports whether the category is one of the known severities.
func (c FlashCategory) Valid() bool {
	switch c {
	case FlashSuccess, FlashError, FlashInfo, FlashWarning:
		return true
	default:
		return false
	}
}

// Flash is a one-shot notice queued for the next page render.
// Flashes are stored per visitor and consumed exactly once.
type Flash struct {
	Category FlashCategory `json:"category"`
	Message  string        `json:"message"`
}
