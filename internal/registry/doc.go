// Package registry maps grid class names used in configuration (for example
// "RasterModelGrid") to the Go constructors that build them.
//
// A Registry is created per application instance and populated by Modules;
// there is no process-wide table. The grid provisioner resolves the single
// class name found in a create_grid section through the registry, passing the
// positional and keyword arguments the configuration supplied.
package registry
