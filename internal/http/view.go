package http

import (
	"physiobudget/internal/core"
)

// formOptions are the fixed choices offered by the form controls.
type formOptions struct {
	Currency     string
	Plans        []string
	SessionTypes []string
	Amounts      []string
	Hours        []string
	Minutes      []string
}

func newFormOptions() *formOptions {
	amounts := make([]string, len(core.AmountOptions))
	for i, v := range core.AmountOptions {
		amounts[i] = core.FormatPlain(v)
	}
	return &formOptions{
		Currency:     core.Currency,
		Plans:        core.Plans,
		SessionTypes: core.SessionTypes(),
		Amounts:      amounts,
		Hours:        core.HourOptions,
		Minutes:      core.MinuteOptions,
	}
}

type sessionView struct {
	Index             int
	Day               string
	Patient           string
	Plan              string
	Hour              string
	Minute            string
	SessionType       string
	FuelCost          string
	IncomeFromPatient string
	SessionSalary     string
	Subtotal          string
}

type practitionerView struct {
	Index       int
	Name        string
	Salary      string
	Sessions    []sessionView
	WeeklyTotal string
	Options     *formOptions
}

type overheadView struct {
	Field string
	Label string
	Value string
}

type summaryLine struct {
	Label  string
	Amount string
}

type summaryView struct {
	Currency      string
	Weeks         []summaryLine
	TotalIncome   string
	Expenses      []summaryLine
	TotalExpenses string
	NetIncome     string
	Negative      bool
}

type pageView struct {
	Options       *formOptions
	Overheads     []overheadView
	Practitioners []practitionerView
	Summary       summaryView
}

func newPractitionerView(i int, p core.Practitioner, opts *formOptions) practitionerView {
	v := practitionerView{
		Index:       i,
		Name:        p.Name,
		Salary:      core.FormatFixed(p.Salary),
		Sessions:    make([]sessionView, len(p.WeeklySessions)),
		WeeklyTotal: core.FormatFixed(core.WeeklyTotal(p.WeeklySessions)),
		Options:     opts,
	}
	for d, s := range p.WeeklySessions {
		hh, mm := core.SplitDuration(s.Duration)
		v.Sessions[d] = sessionView{
			Index:             d,
			Day:               s.Day,
			Patient:           s.Patient,
			Plan:              s.Plan,
			Hour:              hh,
			Minute:            mm,
			SessionType:       s.SessionType,
			FuelCost:          core.FormatPlain(s.FuelCost),
			IncomeFromPatient: core.FormatPlain(s.IncomeFromPatient),
			SessionSalary:     core.FormatPlain(s.SessionSalary),
			Subtotal:          core.FormatFixed(core.SessionTotal(s)),
		}
	}
	return v
}

func newOverheadViews(o core.Overheads) []overheadView {
	return []overheadView{
		{Field: string(core.OverheadHeadSalary), Label: "Head Physio Salary", Value: core.FormatPlain(o.HeadSalary)},
		{Field: string(core.OverheadEquipment), Label: "Equipment", Value: core.FormatPlain(o.Equipment)},
		{Field: string(core.OverheadMarketing), Label: "Marketing", Value: core.FormatPlain(o.Marketing)},
		{Field: string(core.OverheadSoftware), Label: "Software", Value: core.FormatPlain(o.Software)},
		{Field: string(core.OverheadPhoneInternet), Label: "Phone & Internet", Value: core.FormatPlain(o.PhoneInternet)},
		{Field: string(core.OverheadMiscellaneous), Label: "Miscellaneous", Value: core.FormatPlain(o.Miscellaneous)},
	}
}

// newSummaryView lists expense lines in the order TotalExpenses adds them.
func newSummaryView(sum core.MonthlySummary) summaryView {
	v := summaryView{
		Currency:      core.Currency,
		Weeks:         make([]summaryLine, len(sum.Weeks)),
		TotalIncome:   core.FormatFixed(sum.TotalIncome),
		TotalExpenses: core.FormatFixed(sum.TotalExpenses),
		NetIncome:     core.FormatFixed(sum.NetIncome),
		Negative:      sum.NetIncome < 0,
	}
	for i, w := range sum.Weeks {
		v.Weeks[i] = summaryLine{Label: w.Name, Amount: core.FormatFixed(w.Total)}
	}
	o := sum.Overheads
	v.Expenses = []summaryLine{
		{Label: "Head Physio Salary", Amount: core.FormatFixed(o.HeadSalary)},
		{Label: "Fuel", Amount: core.FormatFixed(sum.TotalFuel)},
		{Label: "Session Salaries", Amount: core.FormatFixed(sum.TotalSessionSalary)},
		{Label: "Equipment", Amount: core.FormatFixed(o.Equipment)},
		{Label: "Marketing", Amount: core.FormatFixed(o.Marketing)},
		{Label: "Software", Amount: core.FormatFixed(o.Software)},
		{Label: "Phone & Internet", Amount: core.FormatFixed(o.PhoneInternet)},
		{Label: "Miscellaneous", Amount: core.FormatFixed(o.Miscellaneous)},
	}
	return v
}

func newPageView(b core.Book) pageView {
	opts := newFormOptions()
	v := pageView{
		Options:       opts,
		Overheads:     newOverheadViews(b.Overheads),
		Practitioners: make([]practitionerView, len(b.Practitioners)),
		Summary:       newSummaryView(core.Summarize(b)),
	}
	for i, p := range b.Practitioners {
		v.Practitioners[i] = newPractitionerView(i, p, opts)
	}
	return v
}
