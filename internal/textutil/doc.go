// Package textutil provides the filename sanitization helper used by the
// backup component.
package textutil
