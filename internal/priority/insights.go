package priority

import (
	"fmt"

	"github.com/abatilo/clarity/internal/task"
)

const (
	viewSize = 3

	quickWinEffort   = 80
	quickWinPriority = 60

	deferUrgency  = 30
	deferPriority = 50
)

// Insight kinds.
const (
	InsightWarning = "warning"
	InsightInfo    = "info"
	InsightSuccess = "success"
)

// Insight is a short observation about a ranking with a suggested action.
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Insights summarizes a ranked list.
type Insights struct {
	Top3        []task.Task `json:"top_3_now"`
	QuickWins   []task.Task `json:"quick_wins"`
	DeferLater  []task.Task `json:"defer_later"`
	Notes       []Insight   `json:"insights"`
	TotalTasks  int         `json:"total_tasks"`
	AvgPriority float64     `json:"avg_priority_score"`
}

// Analyze derives top picks, quick wins, deferrable tasks and notes from a
// ranking produced by Prioritize.
func Analyze(scored []Scored) Insights {
	out := Insights{
		Top3:       []task.Task{},
		QuickWins:  []task.Task{},
		DeferLater: []task.Task{},
		Notes:      []Insight{},
	}
	if len(scored) == 0 {
		return out
	}

	top := scored[:min(viewSize, len(scored))]
	for _, s := range top {
		out.Top3 = append(out.Top3, s.Task)
	}

	var deferrable []task.Task
	var total float64
	urgent := 0
	for _, s := range scored {
		total += s.PriorityScore
		if s.UrgencyScore > 80 {
			urgent++
		}
		if s.EffortScore >= quickWinEffort && s.PriorityScore >= quickWinPriority && len(out.QuickWins) < viewSize {
			out.QuickWins = append(out.QuickWins, s.Task)
		}
		if s.UrgencyScore < deferUrgency && s.PriorityScore < deferPriority {
			deferrable = append(deferrable, s.Task)
		}
	}
	out.DeferLater = append(out.DeferLater, deferrable[max(0, len(deferrable)-viewSize):]...)
	out.TotalTasks = len(scored)
	out.AvgPriority = total / float64(len(scored))

	if urgent > 3 {
		out.Notes = append(out.Notes, Insight{
			Type:    InsightWarning,
			Message: fmt.Sprintf("%d urgent tasks detected - consider blocking distractions", urgent),
			Action:  "Focus mode recommended",
		})
	}

	misaligned := 0
	for _, s := range scored[:min(5, len(scored))] {
		if s.EnergyAlignmentScore < 50 {
			misaligned++
		}
	}
	if misaligned >= 3 {
		out.Notes = append(out.Notes, Insight{
			Type:    InsightInfo,
			Message: "Top tasks may not match your current energy - adjust schedule?",
			Action:  "Consider reordering based on energy",
		})
	}

	if len(out.QuickWins) >= 2 {
		out.Notes = append(out.Notes, Insight{
			Type:    InsightSuccess,
			Message: fmt.Sprintf("%d quick wins available - great for momentum!", len(out.QuickWins)),
			Action:  "Knock out quick wins first",
		})
	}

	highImpact := 0
	for _, s := range top {
		if s.ImpactScore > 70 {
			highImpact++
		}
	}
	if highImpact >= 2 {
		out.Notes = append(out.Notes, Insight{
			Type:    InsightInfo,
			Message: "Multiple high-impact tasks ahead - pace yourself",
			Action:  "Schedule breaks between major tasks",
		})
	}
	return out
}
