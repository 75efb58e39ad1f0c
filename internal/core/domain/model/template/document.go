package template

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Node is one progress stage with its unit price.
type Node struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Step is one payroll process of a process template.
type Step struct {
	ProcessCode   string          `json:"processCode"`
	ProcessName   string          `json:"processName"`
	ProgressStage string          `json:"progressStage"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	MachineType   string          `json:"machineType"`
	StandardTime  decimal.Decimal `json:"standardTime"`
}

// Stage returns the progress stage a step rolls up into.
func (s Step) Stage() string {
	if stage := strings.TrimSpace(s.ProgressStage); stage != "" {
		return stage
	}
	return strings.TrimSpace(s.ProcessName)
}

// IsSubStep reports whether the step is recorded under its own name and rolls
// up into a differently named stage.
func (s Step) IsSubStep() bool {
	return strings.TrimSpace(s.ProcessName) != s.Stage()
}

// Document is the parsed content of a template.
type Document struct {
	Nodes []Node `json:"nodes,omitempty"`
	Steps []Step `json:"steps,omitempty"`
}

// ParseDocument decodes template content. Empty content yields an empty document.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(raw))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, errs.NewValueIsInvalidErrorWithCause("template content", err)
	}
	return doc, nil
}

// IsEmpty reports whether the document defines no stage at all.
func (d Document) IsEmpty() bool {
	return len(d.ProgressNodes()) == 0
}

// ProgressNodes returns the ordered stage list. Steps take precedence over
// nodes; steps sharing a progress stage merge into one node whose unit price
// is the sum of their prices. Blank names are skipped.
func (d Document) ProgressNodes() []Node {
	if len(d.Steps) > 0 {
		return groupSteps(d.Steps)
	}

	nodes := make([]Node, 0, len(d.Nodes))
	for i, n := range d.Nodes {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			continue
		}
		id := strings.TrimSpace(n.ID)
		if id == "" {
			id = fmt.Sprintf("node-%d", i+1)
		}
		nodes = append(nodes, Node{ID: id, Name: name, UnitPrice: n.UnitPrice})
	}
	return nodes
}

// ProcessSteps returns the payroll processes. A nodes-only document yields one
// step per node.
func (d Document) ProcessSteps() []Step {
	if len(d.Steps) > 0 {
		steps := make([]Step, 0, len(d.Steps))
		for _, s := range d.Steps {
			if strings.TrimSpace(s.ProcessName) == "" {
				continue
			}
			steps = append(steps, s)
		}
		return steps
	}

	nodes := d.ProgressNodes()
	steps := make([]Step, 0, len(nodes))
	for _, n := range nodes {
		steps = append(steps, Step{ProcessCode: n.ID, ProcessName: n.Name, ProgressStage: n.Name, UnitPrice: n.UnitPrice})
	}
	return steps
}

func groupSteps(steps []Step) []Node {
	index := make(map[string]int)
	nodes := make([]Node, 0, len(steps))
	for _, s := range steps {
		stage := s.Stage()
		if stage == "" {
			continue
		}
		if i, ok := index[stage]; ok {
			nodes[i].UnitPrice = nodes[i].UnitPrice.Add(s.UnitPrice)
			continue
		}
		index[stage] = len(nodes)
		id := strings.TrimSpace(s.ProcessCode)
		if id == "" {
			id = stage
		}
		nodes = append(nodes, Node{ID: id, Name: stage, UnitPrice: s.UnitPrice})
	}
	return nodes
}
