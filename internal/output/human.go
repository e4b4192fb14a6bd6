package output

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/clarity/internal/analytics"
	"github.com/abatilo/clarity/internal/dashboard"
	"github.com/abatilo/clarity/internal/drift"
	"github.com/abatilo/clarity/internal/mood"
	"github.com/abatilo/clarity/internal/priority"
	"github.com/abatilo/clarity/internal/task"
)

const (
	timeLayout = "2006-01-02 15:04"
	barWidth   = 20
)

//nolint:gochecknoglobals // terminal styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, label(t))
	fmt.Fprintf(&sb, "  Type:          %s\n", t.Type)
	fmt.Fprintf(&sb, "  Estimate:      %s\n", minutes(t.EstimatedMinutes))
	fmt.Fprintf(&sb, "  Complexity:    %.1f/5\n", t.ComplexityScore)
	fmt.Fprintf(&sb, "  Scheduled:     %s\n", t.ScheduledAt.Format(timeLayout))

	if actual, ok := t.Actual(); ok {
		fmt.Fprintf(&sb, "  Actual:        %s\n", minutes(actual))
		fmt.Fprintf(&sb, "  Focus:         %d/5\n", t.FocusLevel)
	}
	if t.InterruptionCount > 0 || t.ContextSwitchCount > 0 {
		fmt.Fprintf(&sb, "  Interruptions: %d\n", t.InterruptionCount)
		fmt.Fprintf(&sb, "  Switches:      %d\n", t.ContextSwitchCount)
	}
	status := "pending"
	if t.Completed {
		status = "completed"
	}
	fmt.Fprintf(&sb, "  Status:        %s\n", status)

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task) string {
	icon := "[ ]"
	est := minutes(t.EstimatedMinutes)
	if actual, ok := t.Actual(); ok {
		icon = "[X]"
		est = fmt.Sprintf("%s/%s", minutes(actual), est)
	} else if t.Completed {
		icon = "[X]"
	}
	return fmt.Sprintf("%s [%s] %s %-13s %9s  c%.1f  %s\n",
		icon, t.ID, t.ScheduledAt.Format(timeLayout), t.Type, est, t.ComplexityScore, t.Title)
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

func (f *HumanFormatter) FormatLoad(r analytics.LoadResult) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Cognitive load") + "\n")
	fmt.Fprintf(&sb, "  Score: %.1f %s\n", r.Score, levelStyle(r.Level, false).Render("("+string(r.Level)+")"))
	writeComponents(&sb, r.Components)
	return sb.String()
}

func (f *HumanFormatter) FormatRealism(r analytics.RealismResult) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Schedule realism") + "\n")
	fmt.Fprintf(&sb, "  Score: %.1f %s\n", r.Score, levelStyle(r.Level, true).Render("("+string(r.Level)+")"))
	writeComponents(&sb, r.Components)
	return sb.String()
}

func (f *HumanFormatter) FormatFatigue(days []analytics.FatigueDay) string {
	if len(days) == 0 {
		return "No completed tasks yet.\n"
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Decision fatigue") + "\n")
	sb.WriteString(dimStyle.Render("  date        fatigue  load  interrupts  switches  late  complexity") + "\n")
	for _, d := range days {
		fmt.Fprintf(&sb, "  %s  %7.1f  %4.1f  %10.1f  %8.1f  %4.1f  %10.1f\n",
			d.Date, d.FatigueScore, d.TaskLoadScore, d.InterruptScore, d.SwitchScore, d.LateWorkScore, d.ComplexityScore)
	}
	return sb.String()
}

func (f *HumanFormatter) FormatInterruptions(r analytics.InterruptionResult, ok bool) string {
	if !ok {
		return "Not enough history: complete tasks with interruptions recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Interruption cost") + "\n")
	fmt.Fprintf(&sb, "  Average cost: %s per interruption (%d tasks)\n",
		minutes(r.OverallAvgCostPerInterrupt), r.Samples)
	for _, typ := range slices.Sorted(maps.Keys(r.ByTaskType)) {
		fmt.Fprintf(&sb, "    %-13s %s\n", typ, minutes(r.ByTaskType[typ]))
	}
	return sb.String()
}

func (f *HumanFormatter) FormatRhythm(r analytics.RhythmResult, ok bool) string {
	if !ok {
		return "Not enough history: complete a few more tasks first.\n"
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Productivity rhythm") + "\n")
	fmt.Fprintf(&sb, "  Best focus:  %02d:00 (%.1f/5)\n", r.BestFocusHour, r.BestFocusValue)
	fmt.Fprintf(&sb, "  Worst drift: %02d:00 (%.2fx)\n", r.WorstDriftHour, r.WorstDriftValue)
	sb.WriteString("\n")
	for _, hv := range r.HourlyFocus {
		n := int(hv.Value / mood.MaxScore * barWidth)
		fmt.Fprintf(&sb, "  %02d:00 %s %.1f\n", hv.Hour, goodStyle.Render(strings.Repeat("█", max(0, n))), hv.Value)
	}
	return sb.String()
}

func (f *HumanFormatter) FormatTrainResult(r drift.TrainResult) string {
	if r.Status == drift.StatusInsufficientData {
		return fmt.Sprintf("Not enough history to train: %d more completed tasks needed.\n", r.TasksNeeded)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Model trained on %d tasks (MAE %.3f).\n", r.Samples, r.MAE)
	if r.ModelID != nil {
		fmt.Fprintf(&sb, "  Model: %s\n", r.ModelID)
	}
	return sb.String()
}

func (f *HumanFormatter) FormatPrediction(p drift.Prediction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Estimate:  %s\n", minutes(p.UserEstimate))
	fmt.Fprintf(&sb, "Predicted: %s (%s)\n", minutes(p.AIPrediction), p.Method)
	if p.DriftRatio != nil {
		fmt.Fprintf(&sb, "Drift:     %.2fx\n", *p.DriftRatio)
	}
	return sb.String()
}

func (f *HumanFormatter) FormatPlan(p dashboard.Plan) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Energy: %d/5", p.Energy)
	if p.Mood != nil {
		fmt.Fprintf(&sb, " (mood: %s)", p.Mood.Energy)
	}
	if p.Enhanced {
		sb.WriteString(" " + goodStyle.Render("[strategic]"))
	}
	sb.WriteString("\n\n")

	if len(p.Tasks) == 0 {
		sb.WriteString("No pending tasks.\n")
		return sb.String()
	}

	sb.WriteString(headerStyle.Render("Priorities") + "\n")
	for i, s := range p.Tasks {
		writeScored(&sb, i+1, s)
	}

	sb.WriteString("\n" + headerStyle.Render("Schedule") + "\n")
	for _, b := range p.Schedule.Blocks {
		if b.Overflow || b.Start == nil || b.End == nil {
			fmt.Fprintf(&sb, "  %s [%s] %s\n", badStyle.Render("overflow   "), b.Task.ID, label(b.Task))
			continue
		}
		fmt.Fprintf(&sb, "  %s-%s [%s] %s %s\n",
			b.Start.Format("15:04"), b.End.Format("15:04"), b.Task.ID, label(b.Task), dimStyle.Render(b.Reason))
	}
	fmt.Fprintf(&sb, "  %d fit, %d overflow, %s of %s used (%.0f%%)\n",
		p.Schedule.FitsCount, p.Schedule.OverflowCount,
		minutes(p.Schedule.TotalTimeNeeded), minutes(p.Schedule.AvailableMinutes), p.Schedule.Utilization)

	if len(p.Insights.Notes) > 0 {
		sb.WriteString("\n" + headerStyle.Render("Insights") + "\n")
		for _, n := range p.Insights.Notes {
			fmt.Fprintf(&sb, "  %s %s\n", insightStyle(n.Type).Render("•"), n.Message)
			if n.Action != "" {
				fmt.Fprintf(&sb, "    %s\n", dimStyle.Render(n.Action))
			}
		}
	}

	writeMatrix(&sb, p.Matrix)

	if p.Explanation != "" {
		sb.WriteString("\n" + p.Explanation + "\n")
	}
	return sb.String()
}

func (f *HumanFormatter) FormatMood(m dashboard.MoodReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mood: %d/5 (%s energy)\n", m.Reading.Score, m.Reading.Energy)
	sb.WriteString(dimStyle.Render(m.Reading.Explanation) + "\n\n")
	sb.WriteString(m.Coaching + "\n")

	if len(m.Suggestion.RecommendedNow) > 0 {
		sb.WriteString("\n" + headerStyle.Render("Recommended now") + "\n")
		for _, t := range m.Suggestion.RecommendedNow {
			fmt.Fprintf(&sb, "  [%s] %s\n", t.ID, label(t))
		}
	}
	if len(m.Suggestion.BetterForLater) > 0 {
		sb.WriteString("\n" + headerStyle.Render("Better for later") + "\n")
		for _, t := range m.Suggestion.BetterForLater {
			fmt.Fprintf(&sb, "  [%s] %s\n", t.ID, label(t))
		}
	}
	return sb.String()
}

func (f *HumanFormatter) FormatSnapshot(s dashboard.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Clarity dashboard "+s.Date) + "\n")
	fmt.Fprintf(&sb, "  Tasks: %d total, %d completed, %d pending, %d today\n\n",
		s.Counts.Total, s.Counts.Completed, s.Counts.Incomplete, s.Counts.Today)

	fmt.Fprintf(&sb, "  Cognitive load:   %5.1f %s\n",
		s.CognitiveLoad.Score, levelStyle(s.CognitiveLoad.Level, false).Render(string(s.CognitiveLoad.Level)))
	fmt.Fprintf(&sb, "  Schedule realism: %5.1f %s\n",
		s.Realism.Score, levelStyle(s.Realism.Level, true).Render(string(s.Realism.Level)))
	if n := len(s.Fatigue); n > 0 {
		last := s.Fatigue[n-1]
		fmt.Fprintf(&sb, "  Fatigue (%s): %.1f\n", last.Date, last.FatigueScore)
	}
	if s.Interruptions != nil {
		fmt.Fprintf(&sb, "  Interruption cost: %s\n", minutes(s.Interruptions.OverallAvgCostPerInterrupt))
	}
	if s.Rhythm != nil {
		fmt.Fprintf(&sb, "  Best focus hour:  %02d:00\n", s.Rhythm.BestFocusHour)
	}

	sb.WriteString("\n  Drift model: ")
	switch s.Drift.State {
	case dashboard.DriftActive:
		mae := 0.0
		if s.Drift.MAE != nil {
			mae = *s.Drift.MAE
		}
		sb.WriteString(goodStyle.Render("active") + fmt.Sprintf(" (%d samples, MAE %.3f)\n", s.Drift.Samples, mae))
	case dashboard.DriftReady:
		sb.WriteString(warnStyle.Render("ready to train") + fmt.Sprintf(" (%d samples)\n", s.Drift.Samples))
	default:
		sb.WriteString(dimStyle.Render("collecting") + fmt.Sprintf(" (%d more tasks needed)\n", s.Drift.Needed))
	}

	if len(s.Priorities) > 0 {
		sb.WriteString("\n" + headerStyle.Render("Top priorities") + "\n")
		for i, p := range s.Priorities {
			writeScored(&sb, i+1, p)
		}
	}
	writeMatrix(&sb, s.Matrix)
	return sb.String()
}

func writeScored(sb *strings.Builder, rank int, s priority.Scored) {
	fmt.Fprintf(sb, "  %d. [%s] %s %s\n", rank, s.Task.ID, label(s.Task), scoreStyle(s.PriorityScore).Render(fmt.Sprintf("%.1f", s.PriorityScore)))
	fmt.Fprintf(sb, "     %s\n", dimStyle.Render(fmt.Sprintf("urgency %.0f, impact %.0f, effort %.0f, energy %.0f, strategic %.0f",
		s.UrgencyScore, s.ImpactScore, s.EffortScore, s.EnergyAlignmentScore, s.StrategicValueScore)))
	if s.Reasoning != "" {
		fmt.Fprintf(sb, "     %s\n", s.Reasoning)
	}
}

func writeMatrix(sb *strings.Builder, m priority.Matrix) {
	quadrants := []struct {
		name  string
		tasks []task.Task
	}{
		{"Do first", m.DoFirst},
		{"Schedule", m.Schedule},
		{"Delegate", m.Delegate},
		{"Eliminate", m.Eliminate},
	}
	sb.WriteString("\n" + headerStyle.Render("Priority matrix") + "\n")
	for _, q := range quadrants {
		names := make([]string, len(q.tasks))
		for i, t := range q.tasks {
			names[i] = t.ID
		}
		list := dimStyle.Render("none")
		if len(names) > 0 {
			list = strings.Join(names, ", ")
		}
		fmt.Fprintf(sb, "  %-10s %s\n", q.name+":", list)
	}
}

func writeComponents(sb *strings.Builder, components map[string]float64) {
	for _, name := range slices.Sorted(maps.Keys(components)) {
		fmt.Fprintf(sb, "    %-16s %6.1f\n", name, components[name])
	}
}

// levelStyle colors a level. highIsGood selects whether high reads as good or bad.
func levelStyle(l analytics.Level, highIsGood bool) lipgloss.Style {
	switch l {
	case analytics.LevelMedium:
		return warnStyle
	case analytics.LevelHigh:
		if highIsGood {
			return goodStyle
		}
		return badStyle
	default:
		if highIsGood {
			return badStyle
		}
		return goodStyle
	}
}

func scoreStyle(score float64) lipgloss.Style {
	switch analytics.LevelFor(score) {
	case analytics.LevelHigh:
		return badStyle
	case analytics.LevelMedium:
		return warnStyle
	default:
		return dimStyle
	}
}

func insightStyle(kind string) lipgloss.Style {
	switch kind {
	case priority.InsightWarning:
		return warnStyle
	case priority.InsightSuccess:
		return goodStyle
	default:
		return headerStyle
	}
}

func label(t task.Task) string {
	if t.Title != "" {
		return t.Title
	}
	return t.Type
}

func minutes(m float64) string {
	if m >= 60 {
		return fmt.Sprintf("%dh%02dm", int(m)/60, int(m)%60)
	}
	return fmt.Sprintf("%.0fm", m)
}
