// Package audit records the changes wrench makes on the Passbolt server.
//
// Entries are appended as JSON Lines to audit.jsonl in the data directory
// ($XDG_DATA_HOME/wrench). Each line describes one operation:
//
//	{"ts":"2026-01-02T15:04:05.000000Z","user":"alice@example.com","op":"add","resource_id":"...","resource_name":"GitHub"}
//
// Logging never fails the operation being logged. `wrench log` prints the
// entries back.
package audit
