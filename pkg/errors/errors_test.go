package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/skumerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "conflict field",
			ID:       "weight",
		}
		assert.Equal(t, "conflict field weight not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("template", "deluxe")
		wrapped := fmt.Errorf("set template: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("priority", nil, "cannot be empty")
		assert.Equal(t, "validation failed for field priority: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad registry"}
		assert.Equal(t, "validation failed: bad registry", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapValidation("x", nil))
		err := pkgerrors.WrapValidation("source", errors.New("unknown"))
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestPreconditionError(t *testing.T) {
	err := pkgerrors.NewPreconditionError("proceed", "Please resolve all 3 remaining conflicts before proceeding.")
	assert.Equal(t, "Please resolve all 3 remaining conflicts before proceeding.", err.Error())
	assert.True(t, pkgerrors.IsPrecondition(err))
	assert.True(t, pkgerrors.IsPrecondition(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestParseError(t *testing.T) {
	t.Run("with line", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "csv", File: "shopify.csv", Line: 4, Message: "bare quote"}
		assert.Equal(t, "csv parse error in shopify.csv at line 4: bare quote", err.Error())
	})

	t.Run("file only", func(t *testing.T) {
		err := pkgerrors.NewParseError("csv", "empty.csv", "no header row", nil)
		assert.Equal(t, "csv parse error in empty.csv: no header row", err.Error())
		assert.True(t, pkgerrors.IsParse(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		base := errors.New("unexpected EOF")
		err := pkgerrors.WrapParse("yaml", "schema.yaml", base)
		var parseErr *pkgerrors.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, base, parseErr.Unwrap())
	})
}

func TestIOError(t *testing.T) {
	baseErr := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "/tmp/out.csv", baseErr)
	ioErr, ok := err.(*pkgerrors.IOError)
	require.True(t, ok)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Contains(t, err.Error(), "/tmp/out.csv")
	assert.Equal(t, baseErr, errors.Unwrap(err))
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
}

func TestTransformError(t *testing.T) {
	t.Run("full message", func(t *testing.T) {
		err := pkgerrors.NewTransformError("X1", "weight", errors.New("boom"))
		assert.Equal(t, "conversion failed for product X1 (field weight): boom", err.Error())
		assert.True(t, pkgerrors.IsTransform(err))
	})

	t.Run("bare", func(t *testing.T) {
		err := &pkgerrors.TransformError{}
		assert.Equal(t, "conversion failed", err.Error())
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("no such file")
	err := pkgerrors.WrapConfig("schema", base)
	assert.Equal(t, "configuration error in schema: no such file", err.Error())
	assert.ErrorIs(t, err, base)
}
