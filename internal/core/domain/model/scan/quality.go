package scan

import (
	"context"
	"errors"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/looplab/fsm"
)

// ErrStageOutOfOrder rejects a quality sub-stage whose predecessor is missing.
var ErrStageOutOfOrder = errs.NewPreconditionError("STAGE_OUT_OF_ORDER", "quality stage requires the previous stage first")

// QualityState is the furthest quality sub-stage recorded for a bundle.
type QualityState string

const (
	StateAbsent    QualityState = "absent"
	StateReceived  QualityState = "received"
	StateInspected QualityState = "inspected"
	StateConfirmed QualityState = "confirmed"
)

// stateAfter maps a recorded sub-stage to the state it leaves the bundle in.
func stateAfter(stage QualityStage) QualityState {
	switch stage {
	case Receive:
		return StateReceived
	case Inspect:
		return StateInspected
	case Confirm:
		return StateConfirmed
	default:
		return StateAbsent
	}
}

// Predecessor returns the sub-stage that must be recorded before stage.
func Predecessor(stage QualityStage) (QualityStage, bool) {
	switch stage {
	case Inspect:
		return Receive, true
	case Confirm:
		return Inspect, true
	default:
		return NoQualityStage, false
	}
}

// QualityMachine validates quality sub-stage transitions for one bundle.
type QualityMachine struct {
	fsm *fsm.FSM
}

// NewQualityMachine restores the machine from the sub-stages already recorded.
func NewQualityMachine(recorded []QualityStage) *QualityMachine {
	current := StateAbsent
	for _, stage := range recorded {
		if s := stateAfter(stage); rank(s) > rank(current) {
			current = s
		}
	}

	return &QualityMachine{
		fsm: fsm.NewFSM(
			string(current),
			fsm.Events{
				{Name: string(Receive), Src: []string{string(StateAbsent)}, Dst: string(StateReceived)},
				{Name: string(Inspect), Src: []string{string(StateReceived)}, Dst: string(StateInspected)},
				{Name: string(Confirm), Src: []string{string(StateInspected)}, Dst: string(StateConfirmed)},
			},
			fsm.Callbacks{},
		),
	}
}

// Current returns the furthest recorded state.
func (m *QualityMachine) Current() QualityState {
	return QualityState(m.fsm.Current())
}

// Advance moves the machine through stage, returning ErrStageOutOfOrder when
// stage does not directly follow the current state.
func (m *QualityMachine) Advance(ctx context.Context, stage QualityStage) error {
	err := m.fsm.Event(ctx, string(stage))
	if err == nil {
		return nil
	}

	var invalid fsm.InvalidEventError
	var unknown fsm.UnknownEventError
	if errors.As(err, &invalid) || errors.As(err, &unknown) {
		return ErrStageOutOfOrder.WithDetail("cannot %s while %s", stage, m.Current())
	}
	return err
}

func rank(s QualityState) int {
	switch s {
	case StateReceived:
		return 1
	case StateInspected:
		return 2
	case StateConfirmed:
		return 3
	default:
		return 0
	}
}
