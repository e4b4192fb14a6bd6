package priority

import (
	"time"

	"github.com/abatilo/clarity/internal/task"
)

// DefaultAvailableHours is the daily budget used by SuggestSchedule.
const DefaultAvailableHours = 8.0

// OverflowReason marks blocks that do not fit the budget.
const OverflowReason = "Overflow - consider tomorrow or delegate"

// Block is one entry of a suggested schedule. Start and End are nil for overflow.
type Block struct {
	Task          task.Task  `json:"task"`
	Start         *time.Time `json:"suggested_start"`
	End           *time.Time `json:"suggested_end"`
	PriorityScore float64    `json:"priority_score"`
	Reason        string     `json:"reason"`
	Overflow      bool       `json:"overflow"`
}

// Schedule is a greedy time-boxed plan for a ranking.
type Schedule struct {
	Blocks           []Block `json:"schedule"`
	FitsCount        int     `json:"fits_count"`
	OverflowCount    int     `json:"overflow_count"`
	TotalTimeNeeded  float64 `json:"total_time_needed"`
	AvailableMinutes float64 `json:"available_time"`
	Utilization      float64 `json:"utilization"`
}

// SuggestSchedule walks the ranking in order and lays tasks back to back from
// start while the cumulative estimate stays within availableHours. A task that
// would exceed the budget is flagged as overflow and later, shorter tasks may
// still fit.
func SuggestSchedule(scored []Scored, start time.Time, availableHours float64) Schedule {
	available := availableHours * 60
	out := Schedule{Blocks: []Block{}, AvailableMinutes: available}

	var used float64
	for _, s := range scored {
		est := s.Task.EstimatedMinutes
		out.TotalTimeNeeded += est

		if used+est > available {
			out.Blocks = append(out.Blocks, Block{
				Task:          s.Task,
				PriorityScore: s.PriorityScore,
				Reason:        OverflowReason,
				Overflow:      true,
			})
			out.OverflowCount++
			continue
		}

		begin := start.Add(minutes(used))
		end := begin.Add(minutes(est))
		out.Blocks = append(out.Blocks, Block{
			Task:          s.Task,
			Start:         &begin,
			End:           &end,
			PriorityScore: s.PriorityScore,
			Reason:        schedulingReason(s),
		})
		out.FitsCount++
		used += est
	}

	if available > 0 {
		out.Utilization = min(100, used/available*100)
	}
	return out
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// schedulingReason names the strongest factor. Ties resolve in factor order.
func schedulingReason(s Scored) string {
	factors := []struct {
		score  float64
		reason string
	}{
		{s.UrgencyScore, "Time-sensitive"},
		{s.ImpactScore, "High-impact work"},
		{s.EnergyAlignmentScore, "Matches your current energy"},
		{s.StrategicValueScore, "Strategically important"},
	}
	best := factors[0]
	for _, f := range factors[1:] {
		if f.score > best.score {
			best = f
		}
	}
	return best.reason
}
