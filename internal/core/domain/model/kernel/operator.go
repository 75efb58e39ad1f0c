package kernel

import (
	"errors"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// Operator is the shop-floor worker a scan is attributed to.
type Operator struct {
	id   string
	name string
}

// NewOperator validates and builds an operator identity.
func NewOperator(id, name string) (Operator, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	var idErr, nameErr error
	if id == "" {
		idErr = errs.NewValueIsRequiredError("operatorId")
	}
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("operatorName")
	}
	if err := errors.Join(idErr, nameErr); err != nil {
		return Operator{}, err
	}

	return Operator{id: id, name: name}, nil
}

// RestoreOperator rebuilds an operator from storage.
func RestoreOperator(id, name string) Operator {
	return Operator{id: id, name: name}
}

func (o Operator) ID() string { return o.id }
func (o Operator) Name() string { return o.name }

// Same compares operators by id only; display names may change.
func (o Operator) Same(other Operator) bool {
	return o.id == other.id
}

// IsZero reports whether the operator is unset.
func (o Operator) IsZero() bool {
	return o.id == ""
}
