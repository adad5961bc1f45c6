// Package config loads loginform configuration.
//
// Values are resolved in increasing priority from Default(), an optional
// loginform.json, LOGINFORM_* environment variables and command-line
// flags. Nested keys map to environment names by upper-casing and
// replacing dots with underscores:
//
//	{"session": {"read_timeout": "90s"}}
//	LOGINFORM_SESSION_READ_TIMEOUT=90s
//
// Durations are Go duration strings. List values such as devapi.users
// accept a comma-separated string from the environment.
package config
