// Package utils provides shared helpers used across wrench's packages.
//
// # Filesystem Utilities
//
//   - FileExists: reports whether a regular file exists
//   - WritePrivateFile: writes a file readable by its owner only
//
// # System Utilities
//
//   - LocalAccount: identifies the local account for the audit log
//
// # String Utilities
//
//   - SplitCSV: splits comma separated user input
//
// # I/O Utilities
//
//   - PipedInput: reads piped standard input
//
// # Terminal Utilities
//
//   - ReadSecret: reads a secret without echo
//   - ReadKey: read a single key press
//   - CopyToClipboard: copy a secret to the system clipboard
package utils
