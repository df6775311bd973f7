package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"physiobudget/internal/budget"
	"physiobudget/internal/core"
)

func TestStoreUpdateSessionIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	before, _ := s.Snapshot(ctx)

	if err := s.UpdateSession(ctx, 1, 2, core.FieldIncomeFromPatient, "50"); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := s.Snapshot(ctx)

	for p := range after.Practitioners {
		for d := range after.Practitioners[p].WeeklySessions {
			got := after.Practitioners[p].WeeklySessions[d]
			want := before.Practitioners[p].WeeklySessions[d]
			if p == 1 && d == 2 {
				want.IncomeFromPatient = 50
			}
			if got != want {
				t.Fatalf("session %d/%d changed unexpectedly: %+v", p, d, got)
			}
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	snap, _ := s.Snapshot(ctx)
	snap.Practitioners[0].WeeklySessions[0].Patient = "mutated"
	snap.Overheads.Equipment = 0

	again, _ := s.Snapshot(ctx)
	if again.Practitioners[0].WeeklySessions[0].Patient != "" || again.Overheads.Equipment != 600 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestStoreCoercesAndAddresses(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.UpdateSession(ctx, 0, 0, core.FieldFuelCost, "ten"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.SetOverhead(ctx, core.OverheadHeadSalary, "oops"); err != nil {
		t.Fatalf("set overhead: %v", err)
	}
	b, _ := s.Snapshot(ctx)
	if b.Practitioners[0].WeeklySessions[0].FuelCost != 0 || b.Overheads.HeadSalary != 0 {
		t.Fatalf("expected coercion to 0, got %+v / %+v", b.Practitioners[0].WeeklySessions[0], b.Overheads)
	}

	if err := s.UpdateSession(ctx, 5, 0, core.FieldPatient, "x"); !errors.Is(err, budget.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for practitioner, got %v", err)
	}
	if err := s.UpdateSession(ctx, 0, 6, core.FieldPatient, "x"); !errors.Is(err, budget.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for day, got %v", err)
	}
	if err := s.UpdateSession(ctx, 0, 0, "nope", "x"); !errors.Is(err, budget.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := s.RenamePractitioner(ctx, -1, "x"); !errors.Is(err, budget.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for rename, got %v", err)
	}
	if err := s.SetOverhead(ctx, "rent", "1"); !errors.Is(err, budget.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for overhead, got %v", err)
	}
}

func TestRenameAndDuration(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.RenamePractitioner(ctx, 2, "Dr. Hana"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetDuration(ctx, 2, 0, core.DurationMinute, "15"); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Snapshot(ctx)
	if b.Practitioners[2].Name != "Dr. Hana" {
		t.Fatalf("rename not applied: %q", b.Practitioners[2].Name)
	}
	if b.Practitioners[2].WeeklySessions[0].Duration != "00:15" {
		t.Fatalf("duration not applied: %q", b.Practitioners[2].WeeklySessions[0].Duration)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	// Missing file -> defaults
	s, err := NewFromFile(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	b, _ := s.Snapshot(context.Background())
	if b.Practitioners[0].Name != "Physio 1" {
		t.Fatalf("expected defaults, got %q", b.Practitioners[0].Name)
	}

	mustWrite := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	path := mustWrite("practice.yaml", `
overheads:
  headSalary: 1800
  software: 0
practitioners:
  - name: Dr. Hana
    salary: 1300
    sessions:
      Friday:
        patient: Sara
        plan: Custom
        duration: "01:00"
        incomeFromPatient: 50
        fuelCost: 5
`)
	s, err = NewFromFile(path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	b, _ = s.Snapshot(context.Background())
	if b.Overheads.HeadSalary != 1800 || b.Overheads.Software != 0 || b.Overheads.Equipment != 600 {
		t.Fatalf("unexpected overheads: %+v", b.Overheads)
	}
	p := b.Practitioners[0]
	if p.Name != "Dr. Hana" || p.Salary != 1300 {
		t.Fatalf("unexpected practitioner: %+v", p)
	}
	fri := p.WeeklySessions[core.DayIndex("Friday")]
	if fri.Day != "Friday" || fri.Patient != "Sara" || fri.IncomeFromPatient != 50 || fri.FuelCost != 5 {
		t.Fatalf("unexpected friday: %+v", fri)
	}
	if b.Practitioners[1].Name != "Physio 2" {
		t.Fatalf("unseeded practitioner changed: %q", b.Practitioners[1].Name)
	}

	bad := mustWrite("bad.yaml", "practitioners:\n  - sessions:\n      Thursday: {patient: x}\n")
	if _, err := NewFromFile(bad); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
	broken := mustWrite("broken.yaml", "overheads: [")
	if _, err := NewFromFile(broken); err == nil {
		t.Fatalf("expected parse error")
	}
}
