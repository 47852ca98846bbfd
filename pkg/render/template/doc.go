// Package template defines renderer-agnostic template interfaces and adapters.
// It mirrors the configurability described in go-form-gen.md:443-460 while
// following the interface-first guidance from ARCH_DESIGN.md:1-8.
package template
