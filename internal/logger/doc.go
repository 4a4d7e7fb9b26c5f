// Package logger wraps zap for the updater:
//   - a global sugared logger writing console-formatted entries to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and switching for the --log-level flag,
//   - convenience functions (Infof, WarnKV, etc.) that log from a context.
//
// Status lines meant for the user are printed by the console package; this
// package carries the diagnostic trace.
package logger
