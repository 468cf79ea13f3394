package config

import (
	"fmt"
	"os"
)

// Validate checks that required configuration is present and that
// referenced paths exist on disk.
func (c *Config) Validate() error {
	if err := c.validateLMS(); err != nil {
		return err
	}
	if err := c.validateDB(); err != nil {
		return err
	}
	return c.validatePort()
}

func (c *Config) validateLMS() error {
	if c.LMS == "" {
		return fmt.Errorf("'lms' not in config file")
	}
	return nil
}

func (c *Config) validateDB() error {
	if c.DB == "" {
		return fmt.Errorf("'db' not in config file")
	}
	if _, err := os.Stat(c.DB); err != nil {
		return fmt.Errorf("'%s' does not exist", c.DB)
	}
	return nil
}

func (c *Config) validatePort() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("'port' %d is out of range", c.Port)
	}
	return nil
}
