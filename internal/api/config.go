package api

import "time"

type SeedMode string

const (
	// SeedOnStartup seeds empty stores once, before the server starts.
	SeedOnStartup SeedMode = "startup"

	// SeedOnRequest seeds an empty store inside every list request.
	// Costs one index read per list call.
	SeedOnRequest SeedMode = "request"
)

type Config struct {
	Proxy struct {
		Header  string   `yaml:"header"`
		Trusted []string `yaml:"trusted"`
	} `yaml:"proxy"`

	HTTP struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"http"`

	SeedMode SeedMode `yaml:"seed_mode"`
}
