package config

import "fmt"

// Validate checks cross-field constraints that tag defaults cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	switch c.Video.Executor {
	case "inline", "background":
	default:
		return fmt.Errorf("video.executor must be %q or %q, got %q", "inline", "background", c.Video.Executor)
	}
	if c.Video.Workers < 1 {
		return fmt.Errorf("video.workers must be at least 1, got %d", c.Video.Workers)
	}
	if c.Storage.MediaDir == "" {
		return fmt.Errorf("storage.media_dir must not be empty")
	}
	return nil
}
