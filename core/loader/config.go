package loader

import "time"

const (
	// DefaultQueueSize is used when Config.QueueSize is not positive.
	DefaultQueueSize = 256
	// DefaultPollInterval is used when Config.PollInterval is not positive.
	DefaultPollInterval = 10 * time.Millisecond
)

// Config holds configuration for the async loader.
type Config struct {
	// Workers is the number of concurrent loads. Zero means runtime.NumCPU().
	Workers int `mapstructure:"workers" default:"0"`
	// QueueSize bounds the number of jobs waiting for a worker.
	QueueSize int `mapstructure:"queue_size" default:"256"`
	// PollInterval is how often WaitForAll checks for completion.
	PollInterval time.Duration `mapstructure:"poll_interval" default:"10ms"`
}
