package analytics

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/abatilo/clarity/internal/task"
)

const (
	minLoadDenominator      = 5
	minInterruptDenominator = 3
	minSwitchDenominator    = 3

	lateHour        = 17
	latePenaltyHour = 20

	loadWeight              = 0.30
	interruptWeight         = 0.25
	switchWeight            = 0.20
	lateWorkWeight          = 0.15
	fatigueComplexityWeight = 0.10
)

// FatigueDay is the decision fatigue of one calendar day.
type FatigueDay struct {
	Date            string  `json:"date"`
	FatigueScore    float64 `json:"fatigue_score"`
	TaskLoadScore   float64 `json:"task_load_score"`
	InterruptScore  float64 `json:"interrupt_score"`
	SwitchScore     float64 `json:"switch_score"`
	LateWorkScore   float64 `json:"late_work_score"`
	ComplexityScore float64 `json:"complexity_score"`
}

type dayStats struct {
	date          string
	count         int
	complexities  []float64
	interruptions int
	switches      int
	latestHour    int
}

// DecisionFatigue aggregates completed tasks per calendar day, oldest first.
func DecisionFatigue(tasks []task.Task) []FatigueDay {
	byDate := map[string]*dayStats{}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		date := t.Date()
		d, ok := byDate[date]
		if !ok {
			d = &dayStats{date: date, latestHour: t.Hour()}
			byDate[date] = d
		}
		d.count++
		d.complexities = append(d.complexities, t.ComplexityScore)
		d.interruptions += t.InterruptionCount
		d.switches += t.ContextSwitchCount
		d.latestHour = max(d.latestHour, t.Hour())
	}
	if len(byDate) == 0 {
		return []FatigueDay{}
	}

	maxLoad, maxInterrupts, maxSwitches := minLoadDenominator, minInterruptDenominator, minSwitchDenominator
	for _, d := range byDate {
		maxLoad = max(maxLoad, d.count)
		maxInterrupts = max(maxInterrupts, d.interruptions)
		maxSwitches = max(maxSwitches, d.switches)
	}

	days := make([]FatigueDay, 0, len(byDate))
	for _, d := range byDate {
		load := float64(d.count) / float64(maxLoad) * 100
		interrupt := float64(d.interruptions) / float64(maxInterrupts) * 100
		switching := float64(d.switches) / float64(maxSwitches) * 100
		late := 0.0
		if d.latestHour > lateHour {
			late = math.Min(100, float64((d.latestHour-lateHour)*latePenaltyHour))
		}
		complexity := stat.Mean(d.complexities, nil) / 5 * 100

		days = append(days, FatigueDay{
			Date: d.date,
			FatigueScore: loadWeight*load + interruptWeight*interrupt + switchWeight*switching +
				lateWorkWeight*late + fatigueComplexityWeight*complexity,
			TaskLoadScore:   load,
			InterruptScore:  interrupt,
			SwitchScore:     switching,
			LateWorkScore:   late,
			ComplexityScore: complexity,
		})
	}
	slices.SortFunc(days, func(a, b FatigueDay) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return days
}
