// Package printing holds the page geometry value objects used when laying out
// paged documents: paper sizes, orientation and margins. All lengths are in
// millimetres.
package printing
