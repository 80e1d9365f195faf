package core

import (
	"reflect"
	"testing"
)

func app(applicant, programme int64, priority, total int, consent bool) Application {
	return Application{
		ApplicantID: applicant,
		ProgrammeID: programme,
		Day:         "01.08",
		Consent:     consent,
		Priority:    priority,
		Total:       total,
	}
}

func TestAllocateCascadeCrossProgramme(t *testing.T) {
	// Applicant 1 prefers A over B, applicants 2 and 3 prefer B over A.
	// B holds a single seat: 2 outscores 3 there, so 3 falls back to A.
	programmes := []Programme{
		{ID: 1, Name: "ProgA", Seats: 2},
		{ID: 2, Name: "ProgB", Seats: 1},
	}
	applications := []Application{
		app(1, 1, 1, 195, true),
		app(1, 2, 2, 195, true),
		app(2, 2, 1, 185, true),
		app(2, 1, 2, 185, true),
		app(3, 2, 1, 180, true),
		app(3, 1, 2, 180, true),
	}

	result := allocate(programmes, applications)

	progA := result["ProgA"]
	if progA.Underenrolled {
		t.Fatalf("ProgA unexpectedly underenrolled")
	}
	if !reflect.DeepEqual(progA.Admitted, []int64{1, 3}) {
		t.Fatalf("ProgA admitted = %v, want [1 3]", progA.Admitted)
	}
	if progA.PassingScore != 180 {
		t.Fatalf("ProgA passing score = %d, want 180", progA.PassingScore)
	}

	progB := result["ProgB"]
	if !reflect.DeepEqual(progB.Admitted, []int64{2}) {
		t.Fatalf("ProgB admitted = %v, want [2]", progB.Admitted)
	}
	if progB.Underenrolled {
		t.Fatalf("ProgB unexpectedly underenrolled")
	}
	if progB.PassingScore != 185 {
		t.Fatalf("ProgB passing score = %d, want 185", progB.PassingScore)
	}
}

func TestAllocatePriorityBeatsTotal(t *testing.T) {
	// One seat left: the priority-1 applicant wins it even with the lower total.
	programmes := []Programme{{ID: 1, Name: "X", Seats: 1}}
	applications := []Application{
		app(10, 1, 2, 290, true),
		app(20, 1, 1, 210, true),
	}

	result := allocate(programmes, applications)
	got := result["X"]
	if !reflect.DeepEqual(got.Admitted, []int64{20}) {
		t.Fatalf("admitted = %v, want [20]", got.Admitted)
	}
	if got.PassingScore != 210 {
		t.Fatalf("passing score = %d, want 210", got.PassingScore)
	}
}

func TestAllocateScoreOrderWithinTier(t *testing.T) {
	programmes := []Programme{{ID: 1, Name: "X", Seats: 2}}
	applications := []Application{
		app(5, 1, 1, 180, true),
		app(6, 1, 1, 200, true),
		app(7, 1, 1, 190, true),
	}

	result := allocate(programmes, applications)
	got := result["X"]
	if !reflect.DeepEqual(got.Admitted, []int64{6, 7}) {
		t.Fatalf("admitted = %v, want [6 7]", got.Admitted)
	}
	if got.PassingScore != 190 {
		t.Fatalf("passing score = %d, want 190", got.PassingScore)
	}
}

func TestAllocateTieBrokenByApplicantID(t *testing.T) {
	programmes := []Programme{{ID: 1, Name: "X", Seats: 1}}
	applications := []Application{
		app(9, 1, 1, 200, true),
		app(4, 1, 1, 200, true),
	}

	result := allocate(programmes, applications)
	if got := result["X"].Admitted; !reflect.DeepEqual(got, []int64{4}) {
		t.Fatalf("admitted = %v, want [4]", got)
	}
}

func TestAllocateConsentExcluded(t *testing.T) {
	programmes := []Programme{{ID: 1, Name: "X", Seats: 1}}
	applications := []Application{
		app(1, 1, 1, 300, false),
		app(2, 1, 1, 150, true),
	}

	result := allocate(programmes, applications)
	if got := result["X"].Admitted; !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("admitted = %v, want [2]", got)
	}
}

func TestAllocateUnderenrolled(t *testing.T) {
	programmes := []Programme{{ID: 1, Name: "X", Seats: 5}}
	applications := []Application{
		app(1, 1, 1, 250, true),
		app(2, 1, 1, 240, true),
	}

	result := allocate(programmes, applications)
	got := result["X"]
	if !got.Underenrolled {
		t.Fatalf("expected underenrolled programme")
	}
	if !reflect.DeepEqual(got.Admitted, []int64{1, 2}) {
		t.Fatalf("admitted = %v, want [1 2]", got.Admitted)
	}
}

func TestAllocateZeroSeatsAlwaysUnderenrolled(t *testing.T) {
	programmes := []Programme{{ID: 1, Name: "X", Seats: 0}}
	applications := []Application{app(1, 1, 1, 300, true)}

	result := allocate(programmes, applications)
	got := result["X"]
	if !got.Underenrolled {
		t.Fatalf("zero-seat programme must report underenrolled")
	}
	if len(got.Admitted) != 0 {
		t.Fatalf("zero-seat programme admitted %v", got.Admitted)
	}
}

func TestAllocateGlobalExclusivityAndCapacity(t *testing.T) {
	programmes := []Programme{
		{ID: 1, Name: "A", Seats: 2},
		{ID: 2, Name: "B", Seats: 2},
		{ID: 3, Name: "C", Seats: 1},
	}
	var applications []Application
	for applicant := int64(1); applicant <= 8; applicant++ {
		for prog := int64(1); prog <= 3; prog++ {
			applications = append(applications, app(applicant, prog, int(prog), 100+int(applicant)*7%50, true))
		}
	}

	result := allocate(programmes, applications)
	seen := make(map[int64]string)
	for name, pr := range result {
		var seats int
		for _, p := range programmes {
			if p.Name == name {
				seats = p.Seats
			}
		}
		if len(pr.Admitted) > seats {
			t.Fatalf("programme %s admitted %d over %d seats", name, len(pr.Admitted), seats)
		}
		for _, id := range pr.Admitted {
			if other, dup := seen[id]; dup {
				t.Fatalf("applicant %d admitted to both %s and %s", id, other, name)
			}
			seen[id] = name
		}
	}
}

func TestAllocateSkipsStrayProgrammeRows(t *testing.T) {
	programmes := []Programme{{ID: 1, Name: "X", Seats: 1}}
	applications := []Application{
		app(1, 99, 1, 300, true), // programme 99 was never registered
		app(2, 1, 1, 200, true),
	}

	result := allocate(programmes, applications)
	if got := result["X"].Admitted; !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("admitted = %v, want [2]", got)
	}
	if _, ok := result["99"]; ok {
		t.Fatalf("stray programme id leaked into result")
	}
}
