package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Provider limits
	LinksPerPage     int
	BacklinksPerPage int

	// Title rules
	SeparatorChars string

	// Time constraints
	ProviderTimeout time.Duration
	SearchDeadline  time.Duration

	// Record lifecycle
	PageTTL time.Duration // 0 means records never expire
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Provider limits
		LinksPerPage:     200,
		BacklinksPerPage: 200,

		// Title rules: path and namespace delimiters flag technical pages
		SeparatorChars: "/:",

		// Time constraints
		ProviderTimeout: 15 * time.Second,
		SearchDeadline:  5 * time.Minute,

		// Record lifecycle: append-only by default
		PageTTL: 0,
	}
}
