package appointment

import (
	"fmt"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
)

// DefaultDuration is the length given to windowed feed events.
const DefaultDuration = 30 * time.Minute

// FeedEvent is one calendar entry in the shape calendar widgets consume.
type FeedEvent struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"allDay"`
	Color  string `json:"color"`
	URL    string `json:"url"`
}

var stateColors = map[string]string{
	StatePending:   "#007bff",
	StateConfirmed: "#ffc107",
	StateAttended:  "#28a745",
	StateCancelled: "#dc3545",
}

const defaultColor = "#6c757d"

func StateColor(state string) string {
	if c, ok := stateColors[state]; ok {
		return c
	}
	return defaultColor
}

// BuildFeed renders appointments for mode. Active mode never emits a
// cancelled appointment.
func BuildFeed(appts []Appointment, mode string) []FeedEvent {
	events := make([]FeedEvent, 0, len(appts))
	for _, a := range appts {
		title := patientTitle(a)
		end := a.ScheduledAt
		if mode == config.FeedModeActive {
			if a.State == StateCancelled {
				continue
			}
		} else {
			title += " - " + StateLabel(a.State)
			end = a.ScheduledAt.Add(DefaultDuration)
		}
		events = append(events, FeedEvent{
			ID:     a.ID,
			Title:  title,
			Start:  a.ScheduledAt.Format(time.RFC3339),
			End:    end.Format(time.RFC3339),
			AllDay: false,
			Color:  StateColor(a.State),
			URL:    fmt.Sprintf("/appointments/%d", a.ID),
		})
	}
	return events
}

func patientTitle(a Appointment) string {
	if a.Patient == nil {
		return fmt.Sprintf("Patient #%d", a.PatientID)
	}
	return a.Patient.Surname + ", " + a.Patient.Name
}
