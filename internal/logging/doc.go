// Package logger provides leveled, colored logging for wrench commands.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two persistent flags on the root command:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always written to stderr.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Always shown
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Logs at debug level and returns the error
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Fetched %d resources", len(resources))
//
// Commands create a logger in the root PersistentPreRun and pass it to
// workflows through their options.
package logger
