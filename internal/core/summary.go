package core

// SessionTotal is the amount a session contributes to income.
func SessionTotal(s Session) float64 {
	return s.IncomeFromPatient
}

// WeeklyTotal sums SessionTotal over sessions.
func WeeklyTotal(sessions []Session) float64 {
	var sum float64
	for _, s := range sessions {
		sum += SessionTotal(s)
	}
	return sum
}

// TotalIncome sums incomeFromPatient over every session of every practitioner.
func TotalIncome(ps []Practitioner) float64 {
	return sumSessions(ps, func(s Session) float64 { return s.IncomeFromPatient })
}

// TotalFuel sums fuelCost over every session of every practitioner.
func TotalFuel(ps []Practitioner) float64 {
	return sumSessions(ps, func(s Session) float64 { return s.FuelCost })
}

// TotalSessionSalary sums sessionSalary over every session of every practitioner.
func TotalSessionSalary(ps []Practitioner) float64 {
	return sumSessions(ps, func(s Session) float64 { return s.SessionSalary })
}

// TotalExpenses adds the overheads to the session-driven costs, in the
// order the monthly summary lists them.
func TotalExpenses(ps []Practitioner, o Overheads) float64 {
	return o.HeadSalary +
		TotalFuel(ps) +
		TotalSessionSalary(ps) +
		o.Equipment +
		o.Marketing +
		o.Software +
		o.PhoneInternet +
		o.Miscellaneous
}

// NetIncome is TotalIncome minus TotalExpenses.
func NetIncome(ps []Practitioner, o Overheads) float64 {
	return TotalIncome(ps) - TotalExpenses(ps, o)
}

func sumSessions(ps []Practitioner, field func(Session) float64) float64 {
	var sum float64
	for _, p := range ps {
		var week float64
		for _, s := range p.WeeklySessions {
			week += field(s)
		}
		sum += week
	}
	return sum
}

// PractitionerWeek is one practitioner's weekly income line.
type PractitionerWeek struct {
	Name  string
	Total float64
}

// MonthlySummary is every derived figure the summary card shows.
type MonthlySummary struct {
	Weeks              []PractitionerWeek
	TotalIncome        float64
	TotalFuel          float64
	TotalSessionSalary float64
	Overheads          Overheads
	TotalExpenses      float64
	NetIncome          float64
}

// Summarize recomputes every total from b. Nothing is cached between calls.
func Summarize(b Book) MonthlySummary {
	sum := MonthlySummary{
		Weeks:              make([]PractitionerWeek, len(b.Practitioners)),
		TotalIncome:        TotalIncome(b.Practitioners),
		TotalFuel:          TotalFuel(b.Practitioners),
		TotalSessionSalary: TotalSessionSalary(b.Practitioners),
		Overheads:          b.Overheads,
		TotalExpenses:      TotalExpenses(b.Practitioners, b.Overheads),
	}
	sum.NetIncome = sum.TotalIncome - sum.TotalExpenses
	for i, p := range b.Practitioners {
		sum.Weeks[i] = PractitionerWeek{Name: p.Name, Total: WeeklyTotal(p.WeeklySessions)}
	}
	return sum
}
