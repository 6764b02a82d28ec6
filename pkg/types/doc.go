// Package types defines the entry, slot, preset, and response types shared by
// the cycle stores, the persistence codec, and the controller, together with
// the standard error values of the cyclehud system.
package types
