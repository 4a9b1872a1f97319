package delay

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config holds the analysis tunables.
type Config struct {
	// CreditsPerIdealSemester is the pace used for projections and the
	// low-load check.
	CreditsPerIdealSemester int `json:"creditsPerIdealSemester" toml:"credits_per_ideal_semester"`
	// TotalSemesters is the formal program length.
	TotalSemesters int `json:"totalSemesters" toml:"total_semesters"`
	// DelayMargin is the minimum credit deficit that counts as behind.
	DelayMargin int `json:"delayMargin" toml:"delay_margin"`

	CriticalThresholdBase  int     `json:"criticalThresholdBase" toml:"critical_threshold_base"`
	CriticalThresholdRatio float64 `json:"criticalThresholdRatio" toml:"critical_threshold_ratio"`

	MaxPlannedCourses int `json:"maxPlannedCourses" toml:"max_planned_courses"`
	MaxPlannedCredits int `json:"maxPlannedCredits" toml:"max_planned_credits"`

	LoadImbalanceFactor float64 `json:"loadImbalanceFactor" toml:"load_imbalance_factor"`
	LowLoadRatio        float64 `json:"lowLoadRatio" toml:"low_load_ratio"`

	CacheTTL time.Duration `json:"-" toml:"cache_ttl"`
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		CreditsPerIdealSemester: 22,
		TotalSemesters:          11,
		DelayMargin:             6,
		CriticalThresholdBase:   2,
		CriticalThresholdRatio:  0.1,
		MaxPlannedCourses:       4,
		MaxPlannedCredits:       24,
		LoadImbalanceFactor:     1.5,
		LowLoadRatio:            0.6,
		CacheTTL:                2 * time.Second,
	}
}

// Validate rejects tunables that would make the analysis meaningless.
func (c Config) Validate() error {
	switch {
	case c.CreditsPerIdealSemester < 1:
		return fmt.Errorf("credits per ideal semester must be positive, got %d", c.CreditsPerIdealSemester)
	case c.TotalSemesters < 1:
		return fmt.Errorf("total semesters must be positive, got %d", c.TotalSemesters)
	case c.DelayMargin < 0:
		return fmt.Errorf("delay margin must not be negative, got %d", c.DelayMargin)
	case c.CriticalThresholdBase < 1:
		return fmt.Errorf("critical threshold base must be positive, got %d", c.CriticalThresholdBase)
	case c.CriticalThresholdRatio < 0 || c.CriticalThresholdRatio > 1:
		return fmt.Errorf("critical threshold ratio must be within [0,1], got %g", c.CriticalThresholdRatio)
	case c.MaxPlannedCourses < 1 || c.MaxPlannedCredits < 1:
		return fmt.Errorf("plan limits must be positive, got %d courses / %d credits", c.MaxPlannedCourses, c.MaxPlannedCredits)
	case c.LoadImbalanceFactor <= 0 || c.LowLoadRatio < 0:
		return fmt.Errorf("load factors must be positive")
	case c.CacheTTL < 0:
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// Overrides is the user-tunable subset persisted under the delay_config key.
// Nil fields keep the configured value.
type Overrides struct {
	CreditsPerIdealSemester *int `json:"creditsPerIdealSemester,omitempty"`
	TotalSemesters          *int `json:"totalSemesters,omitempty"`
	DelayMargin             *int `json:"delayMargin,omitempty"`
}

// IsZero reports whether no field is set.
func (o Overrides) IsZero() bool {
	return o.CreditsPerIdealSemester == nil && o.TotalSemesters == nil && o.DelayMargin == nil
}

// Apply returns c with the set fields of o replaced.
func (o Overrides) Apply(c Config) Config {
	if o.CreditsPerIdealSemester != nil {
		c.CreditsPerIdealSemester = *o.CreditsPerIdealSemester
	}
	if o.TotalSemesters != nil {
		c.TotalSemesters = *o.TotalSemesters
	}
	if o.DelayMargin != nil {
		c.DelayMargin = *o.DelayMargin
	}
	return c
}

// ParseOverrides decodes a persisted delay_config value. Unknown keys are
// ignored.
func ParseOverrides(raw string) (Overrides, error) {
	var o Overrides
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return Overrides{}, fmt.Errorf("decode delay overrides: %w", err)
	}
	return o, nil
}

// Encode returns the JSON form stored under delay_config.
func (o Overrides) Encode() (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode delay overrides: %w", err)
	}
	return string(b), nil
}
