// Package testutil provides common test utilities and assertions for envnative tests
package testutil

import (
	stdErrors "errors"
	"testing"

	"github.com/reglet-dev/envnative/domain/entities"
	"github.com/reglet-dev/envnative/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireValue asserts that a call returned exactly want.
func RequireValue(t *testing.T, want entities.RuntimeValue, got *entities.RuntimeValue, msgAndArgs ...interface{}) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	assert.Equal(t, want, *got, msgAndArgs...)
}

// AssertMissingNative asserts that err is a missing native function error for index.
func AssertMissingNative(t *testing.T, err error, index uint32, msgAndArgs ...interface{}) {
	t.Helper()
	var missing *errors.MissingNativeFunctionError
	if assert.True(t, stdErrors.As(err, &missing), msgAndArgs...) {
		assert.Equal(t, index, missing.Index, msgAndArgs...)
	}
}

// AssertCalls asserts the recorded operations of a fake module, in order.
func AssertCalls(t *testing.T, m *FakeModule, ops ...string) {
	t.Helper()
	calls := m.Calls()
	got := make([]string, len(calls))
	for i, c := range calls {
		got[i] = c.Op
	}
	if len(ops) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, ops, got)
}

// RequireNoError is a convenience wrapper for require.NoError
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}
