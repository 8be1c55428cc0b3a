package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatureFlag(t *testing.T) {
	f := New([]string{" disable_slice_plot", "", "feature1"})

	t.Run("normalized", func(t *testing.T) {
		require.True(t, f.IsSet(FlagDisableSlicePlot))
		require.True(t, f.IsSet("FEATURE1"))
		require.False(t, f.IsSet(FlagDisableProbeModule))
		require.Equal(t, []string{"DISABLE_SLICE_PLOT", "FEATURE1"}, f.List())
	})

	t.Run("run if enabled", func(t *testing.T) {
		var runSlicePlot bool
		f.IfSet(FlagDisableSlicePlot, func() {
			runSlicePlot = true
		})
		require.True(t, runSlicePlot)

		var runProbe bool
		f.IfSet(FlagDisableProbeModule, func() {
			runProbe = true
		})
		require.False(t, runProbe)
	})

	t.Run("run if disabled", func(t *testing.T) {
		var runSlicePlot bool
		f.IfNotSet(FlagDisableSlicePlot, func() {
			runSlicePlot = true
		})
		require.False(t, runSlicePlot)

		var runProbe bool
		f.IfNotSet(FlagDisableProbeModule, func() {
			runProbe = true
		})
		require.True(t, runProbe)
	})

	t.Run("nil flags", func(t *testing.T) {
		var empty FeatureFlag
		require.False(t, empty.IsSet(FlagDisableSlicePlot))
		require.Empty(t, empty.List())
	})
}
