package report

import (
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/utils"
)

// Counts is the summary shape shared by every report.
type Counts struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Leave   int `json:"leave"`
}

func (c *Counts) Add(s attendance.Status) {
	c.Total++
	switch s {
	case attendance.StatusPresent:
		c.Present++
	case attendance.StatusAbsent:
		c.Absent++
	case attendance.StatusLate:
		c.Late++
	case attendance.StatusLeave:
		c.Leave++
	}
}

// Percentage formats present/total*100 with one decimal place. It is "0.0" when total is 0.
func Percentage(present, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(present)/float64(total)*100)
}

// Breakdown is the per-student or per-class row of a summary.
type Breakdown struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Counts
}

// Tally accumulates an overall summary plus one Breakdown per group key.
// The name recorded for a group is the first one seen.
type Tally struct {
	Summary Counts
	groups  map[string]*Breakdown
	order   []string
}

func NewTally() *Tally {
	return &Tally{groups: make(map[string]*Breakdown)}
}

func (t *Tally) Add(id, name string, s attendance.Status) {
	t.Summary.Add(s)

	g, ok := t.groups[id]
	if !ok {
		g = &Breakdown{ID: id, Name: name}
		t.groups[id] = g
		t.order = append(t.order, id)
	}
	g.Add(s)
}

// Groups returns the breakdowns ordered by name.
func (t *Tally) Groups() []Breakdown {
	out := make([]Breakdown, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.groups[id])
	}
	utils.SortByName(out, func(b Breakdown) string { return b.Name })
	return out
}
