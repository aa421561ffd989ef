package domain

import (
	"fmt"
	"strings"
)

// Field names used in change records. These match the document-store
// attribute names, so a ChangeSet can drive the mirror patch directly.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
)

// TaskPatch is a partial update for a task. A nil field is absent from
// the request and leaves the stored value untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// Empty reports whether the patch carries no fields at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Normalized returns a copy of the patch with empty-string fields
// dropped. An empty value is treated the same as an absent one, so a
// partial update can never blank out a required field.
func (p TaskPatch) Normalized() TaskPatch {
	out := TaskPatch{}
	if p.Title != nil && *p.Title != "" {
		out.Title = p.Title
	}
	if p.Description != nil && *p.Description != "" {
		out.Description = p.Description
	}
	if p.Status != nil && *p.Status != "" {
		out.Status = p.Status
	}
	return out
}

// FieldChange records one field-level difference between a task's
// pre-update and post-update state.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// ChangeSet is the set of field-level differences computed at update
// time. It drives both the document-store patch and the notification
// body; an empty set suppresses both.
type ChangeSet struct {
	Changes []FieldChange
}

// Empty reports whether no fields actually changed.
func (c ChangeSet) Empty() bool {
	return len(c.Changes) == 0
}

// Fields returns the names of the changed fields, in diff order.
func (c ChangeSet) Fields() []string {
	fields := make([]string, 0, len(c.Changes))
	for _, ch := range c.Changes {
		fields = append(fields, ch.Field)
	}
	return fields
}

// Describe renders the change set as the human-readable bullet list used
// in notification bodies. Description changes omit the values since they
// can be arbitrarily long.
func (c ChangeSet) Describe() string {
	lines := make([]string, 0, len(c.Changes))
	for _, ch := range c.Changes {
		switch ch.Field {
		case FieldTitle:
			lines = append(lines, fmt.Sprintf("- Title changed from '%s' to '%s'", ch.Old, ch.New))
		case FieldDescription:
			lines = append(lines, "- Description changed.")
		case FieldStatus:
			lines = append(lines, fmt.Sprintf("- Status changed from '%s' to '%s'", ch.Old, ch.New))
		default:
			lines = append(lines, fmt.Sprintf("- %s changed from '%s' to '%s'", ch.Field, ch.Old, ch.New))
		}
	}
	return strings.Join(lines, "\n")
}

// DiffTask computes the ChangeSet between a task's current state and a
// patch. A field that is absent (nil) or empty contributes nothing; a
// field present but equal to the stored value contributes no change
// entry either.
func DiffTask(current *Task, patch TaskPatch) ChangeSet {
	var cs ChangeSet

	if v := patchValue(patch.Title); v != "" && v != current.Title {
		cs.Changes = append(cs.Changes, FieldChange{Field: FieldTitle, Old: current.Title, New: v})
	}
	if v := patchValue(patch.Description); v != "" && v != current.Description {
		cs.Changes = append(cs.Changes, FieldChange{Field: FieldDescription, Old: current.Description, New: v})
	}
	if v := patchValue(patch.Status); v != "" && v != current.Status {
		cs.Changes = append(cs.Changes, FieldChange{Field: FieldStatus, Old: current.Status, New: v})
	}

	return cs
}

// patchValue dereferences an optional patch field, treating nil as "".
func patchValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
