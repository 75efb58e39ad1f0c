package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("bundle", "QR-001")

		assert.Equal(t, "bundle", err.ParamName)
		assert.Equal(t, "QR-001", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: QR-001", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("order", "PO-1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: order, ID is: PO-1 (cause: database connection failed)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("scanType")

		assert.Equal(t, "value is invalid: scanType", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("qualityStage", errors.New("unknown stage"))

		assert.Equal(t, "value is invalid: qualityStage (cause: unknown stage)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100)

		assert.Equal(t, "value is invalid: 0 is quantity, min value is 1, max value is 100", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("operatorId")

	assert.Equal(t, "value is required: operatorId", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestRuleViolationError(t *testing.T) {
	conflict := errs.NewConflictError("OPERATOR_CONFLICT", "scan belongs to another operator")
	missing := errs.NewPreconditionError("PATTERN_MISSING", "pattern file required before cutting scan")

	t.Run("category sentinels", func(t *testing.T) {
		require.ErrorIs(t, conflict, errs.ErrConflict)
		require.ErrorIs(t, missing, errs.ErrPreconditionFailed)
		assert.NotErrorIs(t, conflict, errs.ErrPreconditionFailed)
	})

	t.Run("detail keeps identity", func(t *testing.T) {
		detailed := conflict.WithDetail("held by %s", "W-7")

		require.ErrorIs(t, detailed, conflict)
		assert.NotErrorIs(t, detailed, missing)
		assert.Equal(t, "OPERATOR_CONFLICT: scan belongs to another operator: held by W-7", detailed.Error())
		assert.Equal(t, "scan belongs to another operator", conflict.Message)
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		wrapped := fmt.Errorf("submit scan: %w", missing)

		require.ErrorIs(t, wrapped, missing)
		code, ok := errs.RuleCode(wrapped)
		assert.True(t, ok)
		assert.Equal(t, "PATTERN_MISSING", code)
	})

	t.Run("cause is reachable", func(t *testing.T) {
		cause := errors.New("version moved")
		err := conflict.WithCause(cause)

		require.ErrorIs(t, err, cause)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("no rule in chain", func(t *testing.T) {
		_, ok := errs.RuleCode(errors.New("plain"))
		assert.False(t, ok)
	})
}
