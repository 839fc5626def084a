package dashboard

import (
	"context"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/export"
	"github.com/phillip-england/hospitalsuite/internal/views"
)

func (c *Controller) AppointmentsTable(ctx context.Context) (export.Table, error) {
	items, err := c.api.StaffAppointments(ctx, c.session.Token)
	if err != nil {
		return export.Table{}, fail(err, "Error")
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			a.ID.String(),
			a.Status,
			a.PatientID.String(),
			a.PatientName,
			a.DoctorID.String(),
			a.DoctorName,
			a.AppointmentTime,
		})
	}
	return export.Table{
		Sheet:  "Appointments",
		Header: []string{"ID", "Status", "Patient ID", "Patient", "Doctor ID", "Doctor", "Time"},
		Rows:   rows,
	}, nil
}

func (c *Controller) BillsTable(ctx context.Context) (export.Table, error) {
	items, err := c.api.Bills(ctx, c.session.Token)
	if err != nil {
		return export.Table{}, fail(err, "Error")
	}
	rows := make([][]string, 0, len(items))
	for _, b := range items {
		rows = append(rows, []string{
			b.ID.String(),
			views.FormatAmount(b.Amount),
			views.YesNo(b.Paid),
			b.Details,
			b.CreatedAt,
		})
	}
	return export.Table{
		Sheet:  "Bills",
		Header: []string{"ID", "Amount", "Paid", "Details", "Created"},
		Rows:   rows,
	}, nil
}

var _ API = (*apiclient.Client)(nil)
