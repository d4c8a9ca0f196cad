package generator

// Config drives the synthetic account generator.
type Config struct {
	NumAccounts int
	MinBalance  float64
	MaxBalance  float64
	Seed        int64
}

// DefaultConfig returns baseline settings for a usable seed dataset.
func DefaultConfig() Config {
	return Config{
		NumAccounts: 1000,
		MinBalance:  0,
		MaxBalance:  50000,
		Seed:        42,
	}
}
