package menu

import "fmt"

// ConfigurationError means the menu source cannot be read as a table at all.
// It is an operator problem, never shown to guests.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "menu source misconfigured: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Warning reasons.
const (
	ReasonMissingField = "missing category or item name"
	ReasonUnavailable  = "not marked available"
	ReasonBadPrice     = "price unavailable"
)

// RowWarning describes a row that was dropped or degraded while building a
// catalog. Warnings never stop the build.
type RowWarning struct {
	Row      int    `json:"row"`
	Category string `json:"category,omitempty"`
	Item     string `json:"item,omitempty"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

func (w RowWarning) String() string {
	s := fmt.Sprintf("row %d", w.Row)
	if w.Item != "" {
		s += fmt.Sprintf(" (%s / %s)", w.Category, w.Item)
	}
	s += ": " + w.Reason
	if w.Detail != "" {
		s += ": " + w.Detail
	}
	return s
}
