package core

import (
	"errors"
	"strconv"
)

// PractitionerCount is the number of practitioner cards on the form.
const PractitionerCount = 5

// Currency is the label shown next to every amount.
const Currency = "KWD"

// Weekdays lists the configured working days in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Friday", "Saturday", "Sunday"}

// DaysPerWeek is len(Weekdays); every practitioner carries exactly this many sessions.
const DaysPerWeek = 6

// Plans are the treatment plans offered by the plan dropdown. Any other
// string is kept as a custom plan.
var Plans = []string{
	"Stroke Recovery (Intensive)",
	"Parkinson's Rehab (Moderate)",
	"Geriatric Post-op Recovery",
	"Elderly Mobility & Fall Prevention",
	"Custom",
}

// AmountOptions are the preset values for fuel, income and salary dropdowns.
var AmountOptions = []float64{0, 5, 10, 15, 20, 25, 30, 40, 50, 75, 100}

// HourOptions and MinuteOptions build the HH:MM duration pickers.
var (
	HourOptions   = []string{"00", "01", "02", "03"}
	MinuteOptions = []string{"00", "15", "30", "45"}
)

// SessionTypes returns "Session 1" through "Session 20".
func SessionTypes() []string {
	out := make([]string, 20)
	for i := range out {
		out[i] = "Session " + strconv.Itoa(i+1)
	}
	return out
}

const (
	defaultPractitionerSalary = 1200
	defaultHeadSalary         = 1500
	defaultEquipment          = 600
	defaultMarketing          = 400
	defaultSoftware           = 150
	defaultPhoneInternet      = 100
	defaultMiscellaneous      = 250
)

type (
	// SessionField names an editable Session attribute.
	SessionField string

	// OverheadField names an editable Overheads attribute.
	OverheadField string

	// DurationPart selects the hour or minute half of a duration.
	DurationPart string

	Session struct {
		Day               string
		Patient           string
		Plan              string
		Duration          string // HH:MM
		SessionType       string
		FuelCost          float64
		IncomeFromPatient float64
		SessionSalary     float64
	}

	Practitioner struct {
		Name           string
		WeeklySessions []Session
		Salary         float64
	}

	Overheads struct {
		HeadSalary    float64
		Equipment     float64
		Marketing     float64
		Software      float64
		PhoneInternet float64
		Miscellaneous float64
	}

	// Book is the complete record set edited by the form.
	Book struct {
		Practitioners []Practitioner
		Overheads     Overheads
	}
)

const (
	FieldPatient           SessionField = "patient"
	FieldPlan              SessionField = "plan"
	FieldDuration          SessionField = "duration"
	FieldSessionType       SessionField = "sessionType"
	FieldFuelCost          SessionField = "fuelCost"
	FieldIncomeFromPatient SessionField = "incomeFromPatient"
	FieldSessionSalary     SessionField = "sessionSalary"
)

const (
	OverheadHeadSalary    OverheadField = "headSalary"
	OverheadEquipment     OverheadField = "equipment"
	OverheadMarketing     OverheadField = "marketing"
	OverheadSoftware      OverheadField = "software"
	OverheadPhoneInternet OverheadField = "phoneInternet"
	OverheadMiscellaneous OverheadField = "miscellaneous"
)

const (
	DurationHour   DurationPart = "hour"
	DurationMinute DurationPart = "minute"
)

var (
	ErrUnknownField = errors.New("unknown field")
)

// NewWeek returns one empty session per configured weekday.
func NewWeek() []Session {
	week := make([]Session, len(Weekdays))
	for i, day := range Weekdays {
		week[i] = Session{Day: day}
	}
	return week
}

// NewPractitioner returns a practitioner with the default salary and an empty week.
func NewPractitioner(name string) Practitioner {
	return Practitioner{
		Name:           name,
		WeeklySessions: NewWeek(),
		Salary:         defaultPractitionerSalary,
	}
}

// DefaultOverheads returns the overheads the form starts with.
func DefaultOverheads() Overheads {
	return Overheads{
		HeadSalary:    defaultHeadSalary,
		Equipment:     defaultEquipment,
		Marketing:     defaultMarketing,
		Software:      defaultSoftware,
		PhoneInternet: defaultPhoneInternet,
		Miscellaneous: defaultMiscellaneous,
	}
}

// NewBook returns the initial record set: five practitioners named
// "Physio 1".."Physio 5" and the default overheads.
func NewBook() Book {
	b := Book{
		Practitioners: make([]Practitioner, PractitionerCount),
		Overheads:     DefaultOverheads(),
	}
	for i := range b.Practitioners {
		b.Practitioners[i] = NewPractitioner("Physio " + strconv.Itoa(i+1))
	}
	return b
}

// Clone returns a deep copy; editing the copy never touches b.
func (b Book) Clone() Book {
	out := Book{
		Practitioners: make([]Practitioner, len(b.Practitioners)),
		Overheads:     b.Overheads,
	}
	for i, p := range b.Practitioners {
		p.WeeklySessions = append([]Session(nil), p.WeeklySessions...)
		out.Practitioners[i] = p
	}
	return out
}

// DayIndex returns the position of day in Weekdays, or -1.
func DayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// Set assigns value to the named field, coercing numeric fields.
func (s *Session) Set(field SessionField, value string) error {
	switch field {
	case FieldPatient:
		s.Patient = value
	case FieldPlan:
		s.Plan = value
	case FieldDuration:
		s.Duration = value
	case FieldSessionType:
		s.SessionType = value
	case FieldFuelCost:
		s.FuelCost = ParseAmount(value)
	case FieldIncomeFromPatient:
		s.IncomeFromPatient = ParseAmount(value)
	case FieldSessionSalary:
		s.SessionSalary = ParseAmount(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// SetDurationPart replaces the hour or minute half of the duration,
// keeping the other half ("00" when unset).
func (s *Session) SetDurationPart(part DurationPart, value string) error {
	hh, mm := SplitDuration(s.Duration)
	switch part {
	case DurationHour:
		if mm == "" {
			mm = "00"
		}
		s.Duration = value + ":" + mm
	case DurationMinute:
		if hh == "" {
			hh = "00"
		}
		s.Duration = hh + ":" + value
	default:
		return ErrUnknownField
	}
	return nil
}

// Set assigns value to the named overhead, coercing it to a number.
func (o *Overheads) Set(field OverheadField, value string) error {
	v := ParseAmount(value)
	switch field {
	case OverheadHeadSalary:
		o.HeadSalary = v
	case OverheadEquipment:
		o.Equipment = v
	case OverheadMarketing:
		o.Marketing = v
	case OverheadSoftware:
		o.Software = v
	case OverheadPhoneInternet:
		o.PhoneInternet = v
	case OverheadMiscellaneous:
		o.Miscellaneous = v
	default:
		return ErrUnknownField
	}
	return nil
}
