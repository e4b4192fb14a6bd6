package priority

import "github.com/abatilo/clarity/internal/task"

// matrixThreshold splits urgency and impact into high and low halves.
const matrixThreshold = 50

// Matrix sorts ranked tasks into Eisenhower quadrants by urgency and impact.
// Each quadrant keeps the ranked order.
type Matrix struct {
	DoFirst   []task.Task `json:"do_first"`
	Schedule  []task.Task `json:"schedule"`
	Delegate  []task.Task `json:"delegate"`
	Eliminate []task.Task `json:"eliminate"`
}

// Quadrants builds the priority matrix for scored tasks.
func Quadrants(scored []Scored) Matrix {
	m := Matrix{DoFirst: []task.Task{}, Schedule: []task.Task{}, Delegate: []task.Task{}, Eliminate: []task.Task{}}
	for _, s := range scored {
		urgent := s.UrgencyScore >= matrixThreshold
		important := s.ImpactScore >= matrixThreshold
		switch {
		case urgent && important:
			m.DoFirst = append(m.DoFirst, s.Task)
		case important:
			m.Schedule = append(m.Schedule, s.Task)
		case urgent:
			m.Delegate = append(m.Delegate, s.Task)
		default:
			m.Eliminate = append(m.Eliminate, s.Task)
		}
	}
	return m
}
