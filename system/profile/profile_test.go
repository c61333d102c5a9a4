package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVendorCodeRoundTrip(t *testing.T) {
	for _, level := range SupportedLevels() {
		code, ok := levelToCode[level]
		require.True(t, ok, "%s must have a vendor code", level)

		back, ok := codeToLevel[code]
		require.True(t, ok)
		require.Equal(t, level, back)
	}
}

func TestMappingIsInjective(t *testing.T) {
	require.Len(t, levelToCode, len(SupportedLevels()))
	require.Len(t, codeToLevel, len(SupportedLevels()))
}

func TestParseLevelRoundTrip(t *testing.T) {
	for _, level := range SupportedLevels() {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		require.Equal(t, level, parsed)
	}
}

func TestParseLevelUnknown(t *testing.T) {
	_, err := ParseLevel("ludicrous")
	require.Error(t, err)
}

func TestSupportedLevelsStatic(t *testing.T) {
	levels := SupportedLevels()
	require.Equal(t, []Level{LowPower, Quiet, Balanced, BalancedPerformance, Performance}, levels)

	// mutating the returned slice must not affect later calls
	levels[0] = Performance
	require.Equal(t, LowPower, SupportedLevels()[0])
}
