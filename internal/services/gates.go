package services

import (
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
)

// BusinessHoursGate blocks writes while the nightly ERP batch runs. The window is
// inclusive on both hours, so 6 to 8 means 06:00 through 08:59 server time.
type BusinessHoursGate struct {
	StartHour int
	EndHour   int
	Now       func() time.Time
}

func NewBusinessHoursGate() *BusinessHoursGate {
	return &BusinessHoursGate{StartHour: 6, EndHour: 8, Now: time.Now}
}

func (g *BusinessHoursGate) Blocked(t time.Time) bool {
	h := t.Hour()
	return h >= g.StartHour && h <= g.EndHour
}

func (g *BusinessHoursGate) Check() error {
	if g.Blocked(g.Now()) {
		return apperr.New(apperr.ErrPermissionDenied, "Changes not allowed between 6-8 AM during business processing")
	}
	return nil
}

// Actor is the caller of a mutating operation, derived from the session.
type Actor struct {
	UserID  string
	IsAdmin bool
}
