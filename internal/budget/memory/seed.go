package memory

import (
	"fmt"

	"physiobudget/internal/core"
)

// Seed is the YAML layout of a practice seed file. Only the values present
// in the file override the defaults.
//
//	overheads:
//	  headSalary: 1800
//	practitioners:
//	  - name: Dr. Hana
//	    sessions:
//	      Monday: {patient: Sara, plan: Custom, duration: "01:00", incomeFromPatient: 50}
type Seed struct {
	Overheads     SeedOverheads      `yaml:"overheads"`
	Practitioners []SeedPractitioner `yaml:"practitioners"`
}

type SeedOverheads struct {
	HeadSalary    *float64 `yaml:"headSalary"`
	Equipment     *float64 `yaml:"equipment"`
	Marketing     *float64 `yaml:"marketing"`
	Software      *float64 `yaml:"software"`
	PhoneInternet *float64 `yaml:"phoneInternet"`
	Miscellaneous *float64 `yaml:"miscellaneous"`
}

type SeedPractitioner struct {
	Name     string                 `yaml:"name"`
	Salary   *float64               `yaml:"salary"`
	Sessions map[string]SeedSession `yaml:"sessions"`
}

type SeedSession struct {
	Patient           string  `yaml:"patient"`
	Plan              string  `yaml:"plan"`
	Duration          string  `yaml:"duration"`
	SessionType       string  `yaml:"sessionType"`
	FuelCost          float64 `yaml:"fuelCost"`
	IncomeFromPatient float64 `yaml:"incomeFromPatient"`
	SessionSalary     float64 `yaml:"sessionSalary"`
}

// Apply overlays the seed onto b. The book keeps its fixed shape: extra
// practitioners and unknown weekday names are errors.
func (sd Seed) Apply(b *core.Book) error {
	setIf(&b.Overheads.HeadSalary, sd.Overheads.HeadSalary)
	setIf(&b.Overheads.Equipment, sd.Overheads.Equipment)
	setIf(&b.Overheads.Marketing, sd.Overheads.Marketing)
	setIf(&b.Overheads.Software, sd.Overheads.Software)
	setIf(&b.Overheads.PhoneInternet, sd.Overheads.PhoneInternet)
	setIf(&b.Overheads.Miscellaneous, sd.Overheads.Miscellaneous)

	if len(sd.Practitioners) > len(b.Practitioners) {
		return fmt.Errorf("seed lists %d practitioners, the form has %d", len(sd.Practitioners), len(b.Practitioners))
	}
	for i, sp := range sd.Practitioners {
		p := &b.Practitioners[i]
		if sp.Name != "" {
			p.Name = sp.Name
		}
		setIf(&p.Salary, sp.Salary)
		for day, ss := range sp.Sessions {
			idx := core.DayIndex(day)
			if idx < 0 {
				return fmt.Errorf("practitioner %d: unknown weekday %q", i+1, day)
			}
			p.WeeklySessions[idx] = core.Session{
				Day:               core.Weekdays[idx],
				Patient:           ss.Patient,
				Plan:              ss.Plan,
				Duration:          ss.Duration,
				SessionType:       ss.SessionType,
				FuelCost:          ss.FuelCost,
				IncomeFromPatient: ss.IncomeFromPatient,
				SessionSalary:     ss.SessionSalary,
			}
		}
	}
	return nil
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
