package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/logging"
)

func TestProceedLeavesStateOnMappingFailure(t *testing.T) {
	ctx := context.Background()
	s, err := New(WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	_, err = s.LoadFiles(ctx, []intake.Input{
		intake.OpenBytes("shopify.csv", []byte("Handle,Title,Variant SKU\nwidget,Widget,X1\n")),
		intake.OpenBytes("cin7.csv", []byte("ProductCode,Name\nX1,Widget\n")),
	})
	require.NoError(t, err)
	_, err = s.RunMerge(ctx)
	require.NoError(t, err)
	require.Zero(t, s.UnresolvedCount())

	s.opts.Template = "retired"
	require.Error(t, s.ProceedToConversion())
	assert.False(t, s.Snapshot().Ready)

	s.opts.Template = s.defaults.Template
	require.NoError(t, s.ProceedToConversion())
	assert.True(t, s.Snapshot().Ready)
}
