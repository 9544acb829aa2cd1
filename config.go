package reactfx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default tunables.
const (
	DefaultPoolMaxSize           = 10
	DefaultMemoryThreshold       = 50 << 20 // 50 MiB-equivalent
	DefaultPerInstanceCost       = 1 << 20  // 1 MiB per live instance
	DefaultDroppedFrameThreshold = 33 * time.Millisecond
	DefaultLowFPSThreshold       = 30.0
	DefaultCleanupInterval       = 5 * time.Second
	DefaultGracePeriod           = 100 * time.Millisecond
	DefaultSampleWindow          = 60
	DefaultFallbackDuration      = 3 * time.Second
)

// ReduceMotionEnv is consulted when neither an override nor a host probe
// decides reduced motion. Any value parsed as true by strconv.ParseBool
// enables it.
const ReduceMotionEnv = "REDUCE_MOTION"

// Config controls the scheduler, lifecycle manager, and their resource layers.
// Zero-valued numeric fields fall back to the defaults above.
type Config struct {
	// ReducedMotion overrides the host accessibility setting when non-nil.
	ReducedMotion *bool `json:"reducedMotion,omitempty"`
	// PoolMaxSize is the number of retired instances retained per effect type.
	PoolMaxSize int `json:"poolMaxSize,omitempty"`
	// MemoryThreshold is the estimated usage in bytes above which eviction runs.
	MemoryThreshold int64 `json:"memoryThreshold,omitempty"`
	// PerInstanceCost is the estimated cost of one live instance in bytes.
	PerInstanceCost int64 `json:"perInstanceCost,omitempty"`
	// MeasureHeap makes the memory manager sample the Go heap instead of the
	// instance-count estimate.
	MeasureHeap bool `json:"measureHeap,omitempty"`
	// DroppedFrameThreshold is the frame time above which a frame counts as dropped.
	DroppedFrameThreshold Duration `json:"droppedFrameThreshold,omitempty"`
	// LowFPSThreshold is the rolling fps below which quality should be reduced.
	LowFPSThreshold float64 `json:"lowFpsThreshold,omitempty"`
	// SampleWindow is the number of frame deltas in the rolling window.
	SampleWindow int `json:"sampleWindow,omitempty"`
	// CleanupInterval is how often the memory manager samples usage.
	CleanupInterval Duration `json:"cleanupInterval,omitempty"`
	// GracePeriod is the delay between completion and removal.
	GracePeriod Duration `json:"gracePeriod,omitempty"`
	// Tuning holds renderer duration defaults and multipliers.
	Tuning RenderTuning `json:"tuning,omitempty"`

	// Clock drives frame timestamps. Defaults to SystemClock.
	Clock Clock `json:"-"`
	// Logger receives contained failures. Defaults to stderr.
	Logger Logger `json:"-"`
	// AccessibilityProbe reports the host's reduced-motion preference.
	AccessibilityProbe func() bool `json:"-"`
}

// DefaultConfig returns a Config with every tunable set to its default.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.PoolMaxSize <= 0 {
		c.PoolMaxSize = DefaultPoolMaxSize
	}
	if c.MemoryThreshold <= 0 {
		c.MemoryThreshold = DefaultMemoryThreshold
	}
	if c.PerInstanceCost <= 0 {
		c.PerInstanceCost = DefaultPerInstanceCost
	}
	if c.DroppedFrameThreshold <= 0 {
		c.DroppedFrameThreshold = Duration(DefaultDroppedFrameThreshold)
	}
	if c.LowFPSThreshold <= 0 {
		c.LowFPSThreshold = DefaultLowFPSThreshold
	}
	if c.SampleWindow <= 0 {
		c.SampleWindow = DefaultSampleWindow
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = Duration(DefaultCleanupInterval)
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = Duration(DefaultGracePeriod)
	}
	c.Tuning = c.Tuning.withDefaults()
	c.Clock = clockOrDefault(c.Clock)
	c.Logger = loggerOrDefault(c.Logger)
	return c
}

// ResolveReducedMotion decides the reduced-motion flag: explicit override,
// then the host probe, then the REDUCE_MOTION environment variable.
func (c Config) ResolveReducedMotion() bool {
	if c.ReducedMotion != nil {
		return *c.ReducedMotion
	}
	if c.AccessibilityProbe != nil {
		return c.AccessibilityProbe()
	}
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(ReduceMotionEnv)))
	return err == nil && v
}

// LoadConfig decodes a JSON config and applies defaults. Unknown fields are
// rejected so typos surface early.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) validate() error {
	switch {
	case c.PoolMaxSize < 0:
		return fmt.Errorf("poolMaxSize must not be negative, got %d", c.PoolMaxSize)
	case c.MemoryThreshold < 0:
		return fmt.Errorf("memoryThreshold must not be negative, got %d", c.MemoryThreshold)
	case c.LowFPSThreshold < 0:
		return fmt.Errorf("lowFpsThreshold must not be negative, got %v", c.LowFPSThreshold)
	}
	return nil
}

// Duration is a time.Duration that reads and writes JSON as either a Go
// duration string ("250ms") or a number of milliseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Duration(time.Duration(v * float64(time.Millisecond)))
		return nil
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
}
