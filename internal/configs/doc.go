// Package configs manages wrench's configuration file and local paths.
//
// Configuration is stored in TOML format at
// $XDG_CONFIG_HOME/wrench/config.toml:
//
//	[auth]
//	server_url = "https://passbolt.example.com"
//	server_fingerprint = "..."
//	http_username = ""
//	http_password = ""
//	user_fingerprint = "..."
//
//	[sharing]
//	default_owners = "alice@example.com, admins"
//	default_readers = ""
//
// Every [auth] value can be overridden with a WRENCH_* environment variable,
// e.g. WRENCH_SERVER_URL. Older installations stored the same sections in
// config.ini; MigrateLegacyConfig converts such a file in place.
//
// # Settings
//
// WrenchSettings holds the paths derived from the XDG base directories. The
// data directory ($XDG_DATA_HOME/wrench) holds the imported private key and
// the audit log.
package configs
