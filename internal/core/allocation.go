package core

import "sort"

// programmeSlot tracks a programme's running admitted list during the
// cascade pass.
type programmeSlot struct {
	name     string
	seats    int
	admitted []Application
}

// allocate runs the cascade admission pass for a single day's consenting
// applications and returns the outcome per programme.
//
// Applications are processed in ascending priority order, higher totals
// first within a tier. A single global set of admitted applicant ids
// enforces at most one placement per applicant across all programmes.
// Processing strictly by priority tier guarantees an applicant is never
// denied a more-preferred programme in favour of a less-preferred one. The
// pass is linear with no backtracking: a placement, once made, is final.
//
// The final per-programme ordering (total descending, applicant id
// ascending) is a presentation ordering distinct from the processing
// ordering; both are applied deliberately at their own stage.
func allocate(programmes []Programme, applications []Application) AllocationResult {
	slots := make(map[int64]*programmeSlot, len(programmes))
	for _, p := range programmes {
		slots[p.ID] = &programmeSlot{name: p.Name, seats: p.Seats}
	}

	candidates := make([]Application, 0, len(applications))
	for _, a := range applications {
		if a.Consent {
			candidates = append(candidates, a)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i], candidates[j]
		if ai.Priority != aj.Priority {
			return ai.Priority < aj.Priority
		}
		if ai.Total != aj.Total {
			return ai.Total > aj.Total
		}
		// Remaining keys only make the pass deterministic; the reference
		// left the order of exact ties unspecified.
		if ai.ApplicantID != aj.ApplicantID {
			return ai.ApplicantID < aj.ApplicantID
		}
		return ai.ProgrammeID < aj.ProgrammeID
	})

	admittedGlobal := make(map[int64]struct{})
	for _, a := range candidates {
		slot, ok := slots[a.ProgrammeID]
		if !ok {
			// Stray row referencing an unregistered programme: stale data,
			// not this call's fault.
			continue
		}
		if len(slot.admitted) >= slot.seats {
			continue
		}
		if _, taken := admittedGlobal[a.ApplicantID]; taken {
			continue
		}
		slot.admitted = append(slot.admitted, a)
		admittedGlobal[a.ApplicantID] = struct{}{}
	}

	result := make(AllocationResult, len(programmes))
	for _, p := range programmes {
		slot := slots[p.ID]
		sort.Slice(slot.admitted, func(i, j int) bool {
			if slot.admitted[i].Total != slot.admitted[j].Total {
				return slot.admitted[i].Total > slot.admitted[j].Total
			}
			return slot.admitted[i].ApplicantID < slot.admitted[j].ApplicantID
		})
		ids := make([]int64, 0, len(slot.admitted))
		for _, a := range slot.admitted {
			ids = append(ids, a.ApplicantID)
		}
		pr := ProgrammeResult{Admitted: ids}
		if len(slot.admitted) >= slot.seats && slot.seats > 0 {
			pr.PassingScore = slot.admitted[slot.seats-1].Total
		} else {
			// Zero-seat programmes always report under-enrollment, matching
			// the reference behaviour even for the vacuous fill.
			pr.Underenrolled = true
		}
		result[p.Name] = pr
	}
	return result
}
