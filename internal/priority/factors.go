package priority

import (
	"math"
	"time"

	"github.com/abatilo/clarity/internal/task"
)

// Energy levels on the 1-5 scale.
const (
	MinEnergy     = 1
	DefaultEnergy = 3
	MaxEnergy     = 5
)

const alignmentBonus = 10

//nolint:gochecknoglobals // fixed type affinities
var (
	highFocusTypes = map[string]bool{task.TypeDeepWork: true, task.TypeCoding: true}
	lowFocusTypes  = map[string]bool{task.TypeAdmin: true, task.TypeCommunication: true}
)

// Urgency scores how soon a task is scheduled relative to now. Overdue tasks score 100.
func Urgency(t task.Task, now time.Time) float64 {
	hours := t.ScheduledAt.Sub(now).Hours()
	switch {
	case hours < 0:
		return 100
	case hours < 0.5:
		return 95
	case hours < 1:
		return 85
	case hours < 2:
		return 70
	case hours < 4:
		return 50
	case hours < 8:
		return 30
	default:
		return math.Max(0, 20-(hours-8)*2)
	}
}

// Impact grows with complexity and with duration up to two hours.
func Impact(t task.Task) float64 {
	return t.ComplexityScore/5*60 + math.Min(t.EstimatedMinutes/120, 1)*40
}

// Effort is inverted: short tasks score high.
func Effort(t task.Task) float64 {
	m := t.EstimatedMinutes
	switch {
	case m <= 15:
		return 100
	case m <= 30:
		return 80
	case m <= 60:
		return 60
	case m <= 90:
		return 40
	default:
		return math.Max(0, 40-(m-90)/10)
	}
}

// EnergyAlignment scores how well a task's complexity and type suit the current energy and hour.
func EnergyAlignment(t task.Task, energy, hour int) float64 {
	c := t.ComplexityScore

	var score float64
	switch {
	case energy >= 4:
		switch {
		case c >= 4:
			score = 100
		case c >= 3:
			score = 80
		default:
			score = 60
		}
	case energy >= 3:
		switch {
		case c >= 2.5 && c <= 3.5:
			score = 100
		case c >= 4:
			score = 70
		default:
			score = 80
		}
	default:
		switch {
		case c <= 2:
			score = 100
		case c <= 3:
			score = 70
		default:
			score = 40
		}
	}

	peak := hour >= 8 && hour <= 11
	late := hour >= 16
	if (peak && c >= 3) || (late && c <= 2) {
		score = math.Min(100, score+alignmentBonus)
	}

	if (energy >= 4 && highFocusTypes[t.Type]) || (energy <= 2 && lowFocusTypes[t.Type]) {
		score = math.Min(100, score+alignmentBonus)
	}
	return score
}
