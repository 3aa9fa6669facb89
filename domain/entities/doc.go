// Package entities provides the core value types shared by module instances,
// native functions and the executors that implement them.
// These types carry no runtime dependency; adapters convert them to and from
// the representation of a concrete engine (e.g. wazero).
package entities
