// Package config defines the options of a conversion worker and loads them from flags,
// environment variables and configuration files.
package config
