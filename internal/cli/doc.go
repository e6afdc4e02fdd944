// Package cli turns the command line into an app.Config. It owns the cobra
// root command, reads the logging environment variables and maps usage
// problems to an ExitError carrying the process exit code.
package cli
