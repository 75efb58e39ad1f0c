package template

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Source records where a resolved stage list came from.
type Source string

const (
	SourceNone          Source = "none"
	SourceStyleProcess  Source = "style_process"
	SourceStyleProgress Source = "style_progress"
	SourceTenantDefault Source = "tenant_default"
	SourceGlobalDefault Source = "global_default"
)

// Resolved is the cacheable outcome of template resolution for one style.
type Resolved struct {
	Source     Source `json:"source"`
	TemplateID string `json:"templateId,omitempty"`
	Version    int    `json:"version,omitempty"`
	Nodes      []Node `json:"nodes,omitempty"`
	Steps      []Step `json:"steps,omitempty"`
}

// ResolvedFrom builds a Resolved from a stored template.
func ResolvedFrom(l *Library, source Source) (Resolved, error) {
	doc, err := l.Document()
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		Source:     source,
		TemplateID: l.ID().String(),
		Version:    l.Version(),
		Nodes:      doc.ProgressNodes(),
		Steps:      doc.ProcessSteps(),
	}, nil
}

// Found reports whether a template was resolved.
func (r Resolved) Found() bool {
	return r.Source != SourceNone && r.Source != "" && len(r.Nodes) > 0
}

// StageNames returns the ordered node names.
func (r Resolved) StageNames() []string {
	names := make([]string, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		names = append(names, n.Name)
	}
	return names
}

// StepNamed returns the step whose process name or process code is name.
func (r Resolved) StepNamed(name string) (Step, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Step{}, false
	}
	for _, s := range r.Steps {
		if strings.TrimSpace(s.ProcessName) == name {
			return s, true
		}
	}
	for _, s := range r.Steps {
		if strings.TrimSpace(s.ProcessCode) == name {
			return s, true
		}
	}
	return Step{}, false
}

// SubSteps returns the steps of stage that are scanned under their own name,
// in template order.
func (r Resolved) SubSteps(stage string) []Step {
	var steps []Step
	for _, s := range r.Steps {
		if s.IsSubStep() && s.Stage() == stage {
			steps = append(steps, s)
		}
	}
	return steps
}

// TotalUnitPrice sums the positive node prices, rounded to 2 decimals half-up.
func (r Resolved) TotalUnitPrice() decimal.Decimal {
	total := decimal.Zero
	for _, n := range r.Nodes {
		if n.UnitPrice.IsPositive() {
			total = total.Add(n.UnitPrice)
		}
	}
	return total.Round(2)
}
