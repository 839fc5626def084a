package views

import (
	"strconv"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
)

const DoctorPhotoPlaceholder = "https://via.placeholder.com/60"

var (
	ProfileDef = ListDef{Kind: KindProfile, ErrorFallback: "Error"}

	DoctorsDef = ListDef{Kind: KindDoctors, EmptyMessage: "No doctors found", ErrorFallback: "Error loading doctors"}

	TreatmentsDef = ListDef{Kind: KindTreatments, EmptyMessage: "No treatments found", ErrorFallback: "Error"}

	BillsDef = ListDef{Kind: KindBills, EmptyMessage: "No bills yet", ErrorFallback: "Error"}

	PendingAppointmentsDef = ListDef{Kind: KindPendingAppointments, EmptyMessage: "No pending appointments", ErrorFallback: "Error"}

	AssignedPatientsDef = ListDef{Kind: KindAssignedPatients, EmptyMessage: "No patients yet", ErrorFallback: "Error"}

	StaffAppointmentsDef = ListDef{Kind: KindStaffAppointments, EmptyMessage: "No appointments found", ErrorFallback: "Error"}
)

// Profile renders the single patient record as a one-fragment view.
func Profile(p apiclient.PatientProfile, err error) ListView {
	if err != nil {
		return Build[apiclient.PatientProfile](ProfileDef, nil, err, nil)
	}
	return Build(ProfileDef, []apiclient.PatientProfile{p}, nil, func(p apiclient.PatientProfile) Fragment {
		return Fragment{
			Title: orDash(p.Name),
			Lines: []Line{
				{Label: "Name", Value: orDash(p.Name)},
				{Label: "Email", Value: orDash(p.Email)},
				{Label: "Age", Value: orDash(string(p.Age))},
				{Label: "Gender", Value: orDash(p.Gender)},
				{Label: "Contact", Value: orDash(p.Contact)},
				{Label: "Address", Value: orDash(p.Address)},
			},
		}
	})
}

func Doctors(items []apiclient.DoctorSummary, err error) ListView {
	return Build(DoctorsDef, items, err, func(d apiclient.DoctorSummary) Fragment {
		id := d.ID.String()
		return Fragment{
			ID:       id,
			Title:    orDash(d.Name),
			Subtitle: orDash(d.Specialization) + " • " + orDash(d.Qualification),
			ImageURL: firstNonEmpty(d.Photo, DoctorPhotoPlaceholder),
			Actions: []Action{
				{Kind: ActionBook, Label: "Book", TargetID: id},
				{Kind: ActionCopyID, Label: "Copy ID", TargetID: id},
			},
		}
	})
}

func Treatments(items []apiclient.Treatment, err error) ListView {
	return Build(TreatmentsDef, items, err, func(t apiclient.Treatment) Fragment {
		return Fragment{
			Title: "Doctor ID: " + orDash(t.DoctorID.String()),
			Lines: []Line{
				{Label: "Start", Value: orDash(t.StartDate)},
				{Label: "Days", Value: orDash(string(t.DaysEstimate))},
				{Label: "Status", Value: orDash(t.Status)},
				{Label: "Medicines", Value: orDash(t.Medicines)},
			},
		}
	})
}

func Bills(items []apiclient.Bill, err error) ListView {
	return Build(BillsDef, items, err, func(b apiclient.Bill) Fragment {
		return Fragment{
			ID:    b.ID.String(),
			Title: "₹" + FormatAmount(b.Amount),
			Lines: []Line{
				{Label: "Paid", Value: YesNo(b.Paid)},
				{Label: "Details", Value: orDash(b.Details)},
				{Label: "Created", Value: orDash(b.CreatedAt)},
			},
		}
	})
}

func PendingAppointments(items []apiclient.PendingAppointment, err error) ListView {
	return Build(PendingAppointmentsDef, items, err, func(a apiclient.PendingAppointment) Fragment {
		id := a.ID.String()
		return Fragment{
			ID:       id,
			Title:    "Appointment #" + id,
			Subtitle: orDash(a.AppointmentTime),
			Lines: []Line{
				{Label: "Patient ID", Value: orDash(a.PatientID.String())},
			},
			Actions: []Action{
				{Kind: ActionApprove, Label: "Approve", TargetID: id, Confirm: "Approve this appointment?"},
			},
		}
	})
}

func AssignedPatients(items []apiclient.AssignedPatient, err error) ListView {
	return Build(AssignedPatientsDef, items, err, func(p apiclient.AssignedPatient) Fragment {
		return Fragment{
			ID:    p.ID.String(),
			Title: orDash(p.Name),
			Lines: []Line{
				{Label: "ID", Value: orDash(p.ID.String())},
				{Label: "Contact", Value: orDash(p.Contact)},
			},
		}
	})
}

func StaffAppointments(items []apiclient.StaffAppointment, err error) ListView {
	return Build(StaffAppointmentsDef, items, err, func(a apiclient.StaffAppointment) Fragment {
		id := a.ID.String()
		return Fragment{
			ID:       id,
			Title:    "Appointment #" + id,
			Subtitle: orDash(a.Status),
			Lines: []Line{
				{Label: "Patient", Value: orDash(firstNonEmpty(a.PatientName, a.PatientID.String()))},
				{Label: "Doctor", Value: orDash(firstNonEmpty(a.DoctorName, a.DoctorID.String()))},
				{Label: "Time", Value: orDash(a.AppointmentTime)},
			},
			Actions: []Action{
				{Kind: ActionGenerateLetter, Label: "Generate Letter", TargetID: id},
			},
		}
	})
}

// FormatAmount renders a bill amount; absent amounts render as 0.
func FormatAmount(amount *float64) string {
	if amount == nil {
		return "0"
	}
	return strconv.FormatFloat(*amount, 'f', -1, 64)
}

func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
