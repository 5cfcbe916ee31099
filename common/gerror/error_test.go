package gerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	err := NewErrAlreadyExists("job foo already exists")
	err = err.Wrap(fmt.Errorf("i'm a scary internal error"))
	require.Equal(t, "job foo already exists: i'm a scary internal error", err.Error())
	require.Equal(t, "job foo already exists", err.Message())
	require.True(t, IsAlreadyExists(err))

	err = err.Wrap(NewErrNotFound("job foo does not exist").Wrap(fmt.Errorf("i'm a scary internal error")))
	require.Equal(t, "job foo already exists: job foo does not exist: i'm a scary internal error", err.Error())
	require.True(t, IsAlreadyExists(err))
	require.True(t, IsNotFound(err))
	require.False(t, IsUnauthorized(err))
}

func TestMultiError(t *testing.T) {
	// Compose a multierror with our tested error in the middle
	var results *multierror.Error

	results = multierror.Append(results, fmt.Errorf("error 1: %w", errors.New("1")))
	results = multierror.Append(results, NewErrRemoteOperationFailed("deploy", "create", errors.New("2")))
	results = multierror.Append(results, fmt.Errorf("error 3: %w", errors.New("3")))

	// Assert that our Is chaining returns an error in the middle of the chain
	err := results.ErrorOrNil()
	require.True(t, IsRemoteOperationFailed(err))

	// Wrap up the above error with another multierror
	var outerResults *multierror.Error
	outerResults = multierror.Append(err, fmt.Errorf("outer error 1: %w", errors.New("11")))

	// And assert our Is chaining returns the error we are after.
	outerErr := outerResults.ErrorOrNil()
	require.True(t, IsRemoteOperationFailed(outerErr))
}

func TestRenderFailedNamesJob(t *testing.T) {
	err := NewErrRenderFailed("deploy", errors.New("unclosed element"))
	require.Contains(t, err.Error(), `"deploy"`)
	require.True(t, IsRenderFailed(err))
	require.False(t, IsRemoteOperationFailed(err))
}
