package config

import "strings"

// normalize expands user paths and trims whitespace so the rest of the
// program can rely on absolute, clean values.
func (c *Config) normalize() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.Flutter.Binary = strings.TrimSpace(c.Flutter.Binary)
	c.Flutter.GitBinary = strings.TrimSpace(c.Flutter.GitBinary)

	for _, field := range []*string{
		&c.Paths.DataDir,
		&c.Paths.LogDir,
		&c.Paths.CredentialsFile,
		&c.Flutter.Root,
	} {
		if strings.TrimSpace(*field) == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
