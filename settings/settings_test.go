package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()

	assert.Equal(t, "auto", s.Policy.SelectionMode)
	assert.Equal(t, 64, s.Policy.MaxInputs)
	assert.Equal(t, "adaptive", s.Policy.FeeMode)
	assert.True(t, s.TxBuilder.IncludeTxJSON)
	assert.NotZero(t, s.Telemetry.TTL)
	assert.Greater(t, s.Telemetry.StaleHardWindow, s.Telemetry.StaleSoftWindow)

	require.NoError(t, s.Validate())
}

func TestValidateRejectsUnknownModes(t *testing.T) {
	s := NewSettings()

	s.Policy.SelectionMode = "newest_first"
	require.Error(t, s.Validate())

	s = NewSettings()
	s.Policy.FeeMode = "free"
	require.Error(t, s.Validate())

	s = NewSettings()
	s.Policy.MaxInputs = 0
	require.Error(t, s.Validate())
}

func TestDescribeIsIdempotent(t *testing.T) {
	s := NewSettings()

	first := s.Describe()
	second := s.Describe()

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}
