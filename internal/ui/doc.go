// Package ui provides semantic text formatting for wrench's terminal output.
//
// Formatters render content according to what it is (a command, a path, a
// recipient, a resource field) rather than how it should look. With colors
// available the content is colorized; with NO_COLOR set or a terminal that
// cannot render colors, plain text decorations are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("wrench import-key key.asc") // Commands
//	ui.Path.Sprint("~/.config/wrench/config.toml")
//	ui.Success.Sprint("✓")
//	ui.Error.Sprint("✗")
//	ui.Warning.Sprint("⚠")
//	ui.Info.Sprint("→")
//	ui.Highlight.Sprint("alice@example.com")  // Recipients and user values
//	ui.Muted.Sprint("optional")
//
// # Resource Fields
//
// Resource fields each get their own color so that a decrypted entry can be
// read at a glance. The secret is printed red on red: it is invisible on
// screen but can still be selected and pasted.
//
//	fmt.Println(ui.FormatResource(resource))
//	fmt.Println(ui.FormatResourceShort("3", resource))
package ui
