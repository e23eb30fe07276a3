package config

import "fmt"

// DatabaseConfig defines the PostgreSQL connection settings used by
// the worker's persistence writer.
//
// An empty DSN is a valid state: the worker then runs with an
// unconfigured store and every persistence attempt fails with a
// configuration error, driving a batch item failure.
type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`             // PostgreSQL connection string
	MaxConnections int    `yaml:"max_connections"` // Maximum number of pool connections
	MinConnections int    `yaml:"min_connections"` // Minimum number of pool connections
}

// SetDefaults sets sensible default values for the database configuration
func (c *DatabaseConfig) SetDefaults() {
	if c.MaxConnections <= 0 {
		c.MaxConnections = 10
		fmt.Printf("Warning: database.max_connections not set or invalid, defaulting to %d\n", c.MaxConnections)
	}
	if c.MinConnections <= 0 {
		c.MinConnections = 2
		fmt.Printf("Warning: database.min_connections not set or invalid, defaulting to %d\n", c.MinConnections)
	}
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min_connections (%d) cannot be greater than max_connections (%d)",
			c.MinConnections, c.MaxConnections)
	}
	return nil
}

// Configured reports whether a backing store has been configured.
func (c *DatabaseConfig) Configured() bool {
	return c.DSN != ""
}
