// Package config loads Cascade settings from environment variables.
//
// Settings are read once at startup with [Load]. Command line flags
// override the loaded values in the cascade binary:
//
//	CASCADE_LOG_LEVEL       logrus level name (default "info")
//	CASCADE_LOG_FORMAT      "text" or "json" (default "text")
//	CASCADE_RECOVER_PANICS  recover subscriber panics (default false)
//	CASCADE_NO_COLOR        disable colored output (default false)
package config
