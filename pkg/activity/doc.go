// Package activity turns select lifecycle transitions into events and fans
// them out to hooks. Controllers emit selection.changed,
// selection.all_toggled, select.opened and select.closed with the
// controller id as object id.
package activity
