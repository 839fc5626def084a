// Package views projects API results into target-independent view
// descriptions. Every list renders as exactly one of an error, empty, or
// content state.
package views

import (
	"strings"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
)

type State string

const (
	StateError   State = "error"
	StateEmpty   State = "empty"
	StateContent State = "content"
)

type Kind string

const (
	KindProfile             Kind = "profile"
	KindDoctors             Kind = "doctors"
	KindTreatments          Kind = "treatments"
	KindBills               Kind = "bills"
	KindPendingAppointments Kind = "pending_appointments"
	KindAssignedPatients    Kind = "assigned_patients"
	KindStaffAppointments   Kind = "staff_appointments"
)

type ActionKind string

const (
	ActionApprove        ActionKind = "approve"
	ActionBook           ActionKind = "book"
	ActionCopyID         ActionKind = "copy_id"
	ActionGenerateLetter ActionKind = "generate_letter"
)

// Action is an item-level trigger referencing the item's id.
type Action struct {
	Kind     ActionKind
	Label    string
	TargetID string
	Confirm  string
}

type Line struct {
	Label string
	Value string
}

type Fragment struct {
	ID       string
	Title    string
	Subtitle string
	ImageURL string
	Lines    []Line
	Actions  []Action
}

type ListView struct {
	Kind    Kind
	State   State
	Message string
	Items   []Fragment
}

func (v ListView) IsError() bool   { return v.State == StateError }
func (v ListView) IsEmpty() bool   { return v.State == StateEmpty }
func (v ListView) IsContent() bool { return v.State == StateContent }

type ListDef struct {
	Kind          Kind
	EmptyMessage  string
	ErrorFallback string
}

// Build renders items fetched for def. A non-nil err wins over items.
func Build[T any](def ListDef, items []T, err error, project func(T) Fragment) ListView {
	if err != nil {
		return ListView{Kind: def.Kind, State: StateError, Message: apiclient.UserMessage(err, def.ErrorFallback)}
	}
	if len(items) == 0 {
		return ListView{Kind: def.Kind, State: StateEmpty, Message: def.EmptyMessage}
	}
	fragments := make([]Fragment, 0, len(items))
	for _, item := range items {
		fragments = append(fragments, project(item))
	}
	return ListView{Kind: def.Kind, State: StateContent, Items: fragments}
}

// orDash substitutes the placeholder for absent values.
func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
