// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load the parameter file,
// build the landscape model and run it. It is decoupled from any specific
// entrypoint like a CLI.
package app
