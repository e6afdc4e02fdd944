// Package components defines the contract shared by the process components
// the models drive each time step. Implementations live in subpackages and
// read and write named node fields on the grid they were constructed with.
package components

// Component advances one physical process by a time step.
type Component interface {
	RunOneStep(dt float64) error
}
