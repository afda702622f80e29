// Package workflows provides high-level orchestration for wrench commands.
//
// Workflows coordinate the lower packages (passbolt, services, sharing,
// importer, audit) to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns like
// flag parsing, prompts, spinners, and output formatting.
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Asks the interactive questions
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// # Sessions
//
// Commands talking to the server first call OpenSession, which loads the
// imported private key, checks the server fingerprint and logs in with
// GPGAuth. A Session caches the users and groups of the server so that
// recipient names are resolved with a single request per collection.
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package,
// allowing the CLI layer to provide appropriate user-facing messages
// without string matching:
//
//	sess, err := workflows.OpenSession(ctx, opts)
//	if errors.Is(err, werrors.ErrPrivateKeyNotFound) {
//	    // Ask the user to run import-key
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
package workflows
