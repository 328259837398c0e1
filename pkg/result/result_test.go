package result_test

import (
	"testing"

	"github.com/michat/michat/pkg/result"
	"github.com/stretchr/testify/require"
)

func TestOk(t *testing.T) {
	t.Parallel()

	r := result.Ok(42)
	require.True(t, r.Success())
	require.Equal(t, 42, r.Value())
	require.Empty(t, r.ErrMsg())
}

func TestErr(t *testing.T) {
	t.Parallel()

	r := result.Err[string]("something went wrong")
	require.False(t, r.Success())
	require.Equal(t, "something went wrong", r.ErrMsg())
	require.Empty(t, r.Value())
}
