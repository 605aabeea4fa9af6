// Package config loads and validates the TOML configuration file.
//
// The file lives at ~/.config/ripsub/config.toml by default; every
// setting has a working default, and the scraper user agent can also be
// supplied through RIPSUB_USER_AGENT.
package config
