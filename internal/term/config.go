package term

// Config is the Terminal's construction-time configuration. Fields mirror
// the functional Option list below; Config itself is exported so a caller
// can snapshot/diff/apply_config-style reconfigure at runtime through
// Terminal.ApplyConfig.
type Config struct {
	Rows, Cols int

	ScrollbackHotLimit   int
	ScrollbackWarmLimit  int
	ScrollbackColdLimit  int
	ScrollbackBlockSize  int
	ScrollbackMemBudget  int64
	ScrollbackSpillDir   string

	AutoResize bool
	Sixel      bool
	Kitty      bool
}

const (
	DefaultRows = 24
	DefaultCols = 80

	DefaultScrollbackHotLimit  = 2000
	DefaultScrollbackWarmLimit = 50000
	DefaultScrollbackColdLimit = 1000000
	DefaultScrollbackBlockSize = 256
	DefaultScrollbackMemBudget = 64 << 20
)

// DefaultConfig returns the power-on configuration (80x24, sixel and kitty
// graphics enabled, scrollback tiers at their spec-default thresholds).
func DefaultConfig() Config {
	return Config{
		Rows: DefaultRows, Cols: DefaultCols,
		ScrollbackHotLimit:  DefaultScrollbackHotLimit,
		ScrollbackWarmLimit: DefaultScrollbackWarmLimit,
		ScrollbackColdLimit: DefaultScrollbackColdLimit,
		ScrollbackBlockSize: DefaultScrollbackBlockSize,
		ScrollbackMemBudget: DefaultScrollbackMemBudget,
		Sixel:               true,
		Kitty:               true,
	}
}

// Option configures a Terminal during construction.
type Option func(*Config)

// WithSize sets the terminal dimensions. Values <= 0 fall back to defaults.
func WithSize(rows, cols int) Option {
	return func(c *Config) {
		if rows > 0 {
			c.Rows = rows
		}
		if cols > 0 {
			c.Cols = cols
		}
	}
}

// WithAutoResize sets Config.AutoResize. The grid does not read this flag:
// output still scrolls and wraps as usual, and no rows are added.
func WithAutoResize() Option {
	return func(c *Config) { c.AutoResize = true }
}

// WithSixel enables or disables Sixel graphics protocol support.
func WithSixel(enabled bool) Option {
	return func(c *Config) { c.Sixel = enabled }
}

// WithKitty enables or disables Kitty graphics protocol support.
func WithKitty(enabled bool) Option {
	return func(c *Config) { c.Kitty = enabled }
}

// WithScrollbackLimits overrides the hot/warm/cold tier thresholds (spec §5).
func WithScrollbackLimits(hot, warm, cold, blockSize int) Option {
	return func(c *Config) {
		if hot > 0 {
			c.ScrollbackHotLimit = hot
		}
		if warm > 0 {
			c.ScrollbackWarmLimit = warm
		}
		if cold > 0 {
			c.ScrollbackColdLimit = cold
		}
		if blockSize > 0 {
			c.ScrollbackBlockSize = blockSize
		}
	}
}

// WithScrollbackMemoryBudget sets Config.ScrollbackMemBudget, which New
// passes to the scrollback store as MemBudget. The store does not consult
// it: tier promotion and eviction follow the line-count limits only.
func WithScrollbackMemoryBudget(bytes int64) Option {
	return func(c *Config) { c.ScrollbackMemBudget = bytes }
}

// WithScrollbackSpillDir sets the directory cold-tier blocks spill to. Empty
// keeps cold blocks in memory (useful for tests).
func WithScrollbackSpillDir(dir string) Option {
	return func(c *Config) { c.ScrollbackSpillDir = dir }
}
