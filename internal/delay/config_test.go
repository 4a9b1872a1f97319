package delay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pace", func(c *Config) { c.CreditsPerIdealSemester = 0 }},
		{"zero length", func(c *Config) { c.TotalSemesters = 0 }},
		{"negative margin", func(c *Config) { c.DelayMargin = -1 }},
		{"ratio above one", func(c *Config) { c.CriticalThresholdRatio = 1.5 }},
		{"no plan", func(c *Config) { c.MaxPlannedCourses = 0 }},
		{"negative ttl", func(c *Config) { c.CacheTTL = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOverrides_RoundTrip(t *testing.T) {
	o, err := ParseOverrides(`{"creditsPerIdealSemester": 24, "delayMargin": 4, "unknown": true}`)
	require.NoError(t, err)
	require.NotNil(t, o.CreditsPerIdealSemester)
	assert.Nil(t, o.TotalSemesters)
	assert.False(t, o.IsZero())

	cfg := o.Apply(DefaultConfig())
	assert.Equal(t, 24, cfg.CreditsPerIdealSemester)
	assert.Equal(t, 11, cfg.TotalSemesters)
	assert.Equal(t, 4, cfg.DelayMargin)

	raw, err := o.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"creditsPerIdealSemester": 24, "delayMargin": 4}`, raw)
}

func TestOverrides_Malformed(t *testing.T) {
	_, err := ParseOverrides(`[1,2]`)
	assert.Error(t, err)

	assert.True(t, Overrides{}.IsZero())
	assert.Equal(t, DefaultConfig(), Overrides{}.Apply(DefaultConfig()))
}
