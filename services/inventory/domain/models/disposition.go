package models

import "strings"

// Disposition says what happens to the items of a category being deleted.
// Build one with DeleteOrphans or ReassignTo; the zero value deletes.
type Disposition struct {
	reassign bool
	target   string
}

// DeleteOrphans removes every item tagged with the deleted category.
func DeleteOrphans() Disposition {
	return Disposition{}
}

// ReassignTo moves every item tagged with the deleted category to the
// category named name.
func ReassignTo(name string) Disposition {
	return Disposition{reassign: true, target: strings.TrimSpace(name)}
}

// Target returns the reassignment category name and true, or "" and false
// for DeleteOrphans.
func (d Disposition) Target() (string, bool) {
	return d.target, d.reassign
}

// String describes the disposition for logs.
func (d Disposition) String() string {
	if !d.reassign {
		return "delete"
	}
	return "reassign:" + d.target
}
