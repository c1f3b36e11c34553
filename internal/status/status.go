// Package status normalizes the incident lifecycle tokens reported by
// clients into the canonical stored states and decides closing semantics.
package status

import "strings"

// Canonical incident states as stored.
const (
	Open       = "OPEN"
	InProgress = "IN_PROGRESS"
	Closed     = "CLOSED"
)

// normalization maps the token variants historically sent by the intake
// frontend onto the canonical states. Lookups are trimmed and uppercased
// first.
var normalization = map[string]string{
	"ACTIVA":      Open,
	"ABIERTA":     Open,
	"ABIERTO":     Open,
	"OPEN":        Open,
	"EN CURSO":    InProgress,
	"CURSO":       InProgress,
	"EN PROGRESO": InProgress,
	"PROGRESO":    InProgress,
	"MONITOREO":   InProgress,
	"IN_PROGRESS": InProgress,
	"CERRADA":     Closed,
	"CERRADO":     Closed,
	"ATENDIDA":    Closed,
	"ATENDIDO":    Closed,
	"CONTROLADA":  Closed,
	"CLOSED":      Closed,
}

// Normalize maps a raw status token to its canonical state. Unrecognized
// tokens pass through uppercased rather than being rejected; callers that
// want stricter validation must layer it on top.
// TODO: decide whether unrecognized tokens should be an input error instead
// of a pass-through once the intake clients stop sending free-form states.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := normalization[key]; ok {
		return canonical
	}
	return key
}

// IsClosed reports whether a stored status token is the terminal state.
func IsClosed(stored string) bool {
	return Normalize(stored) == Closed
}

// ClosesIncident reports whether persisting this status must also set the
// closure timestamp.
func ClosesIncident(raw string) bool {
	return Normalize(raw) == Closed
}
