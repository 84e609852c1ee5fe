package diplomacy

import "fmt"

// NextPhase computes the next phase after the current one.
// Movement -> Retreat (if dislodgements) or straight to Fall Movement / Build.
// Retreat -> Fall Movement or Build (if Fall).
// Build -> Spring Movement of next year.
func NextPhase(gs *GameState, hasDislodgements bool) (Season, PhaseType) {
	switch gs.Phase {
	case PhaseMovement:
		if hasDislodgements {
			return gs.Season, PhaseRetreat
		}
		return afterMovement(gs.Season)
	case PhaseRetreat:
		return afterMovement(gs.Season)
	case PhaseBuild:
		return Spring, PhaseMovement
	}
	return Spring, PhaseMovement
}

func afterMovement(season Season) (Season, PhaseType) {
	if season == Spring {
		return Fall, PhaseMovement
	}
	// After Fall movement, always go to Build phase for adjustments
	return Fall, PhaseBuild
}

// NeedsBuildPhase returns true if any power has a unit/SC mismatch requiring adjustments.
func NeedsBuildPhase(gs *GameState) bool {
	for _, power := range AllPowers() {
		if gs.SupplyCenterCount(power) != gs.UnitCount(power) {
			return true
		}
	}
	return false
}

// MaxYear is the highest year a game can reach before ending as a draw.
const MaxYear = 3000

// IsYearLimitReached returns true if the game has exceeded the maximum year.
func IsYearLimitReached(gs *GameState) bool {
	return gs.Year > MaxYear
}

// IsGameOver checks if any single power controls 18+ supply centers (solo victory).
func IsGameOver(gs *GameState) (bool, Power) {
	for _, power := range AllPowers() {
		if gs.SupplyCenterCount(power) >= 18 {
			return true, power
		}
	}
	return false, Neutral
}

// AdvanceState transitions the game state to the next phase.
// For movement: updates year/season/phase, updates SC ownership after Fall.
// Callers must apply resolution results to units before calling this.
func AdvanceState(gs *GameState, hasDislodgements bool) {
	nextSeason, nextPhase := NextPhase(gs, hasDislodgements)

	// After Fall movement or Fall retreat, update SC ownership
	if gs.Season == Fall && (gs.Phase == PhaseMovement || gs.Phase == PhaseRetreat) {
		UpdateSupplyCenterOwnership(gs)
	}

	if nextSeason == Spring && nextPhase == PhaseMovement {
		gs.Year++
	}
	gs.Season = nextSeason
	gs.Phase = nextPhase
	if nextPhase != PhaseRetreat {
		gs.Dislodged = nil
	}
}

// UpdateSupplyCenterOwnership assigns SCs to the power whose unit occupies them.
// This is called automatically by AdvanceState after Fall movement/retreat phases.
// It is also safe to call explicitly (idempotent) when the caller needs updated
// SC ownership before AdvanceState runs (e.g. to store the final state_after).
// Ownership changes are routed through GameState.ChangeOwner, the only
// sanctioned way resolvers touch SC ownership, so a capture resets the
// province's coring progress as the coring rule requires.
func UpdateSupplyCenterOwnership(gs *GameState) {
	stdMap := StandardMap()
	for provID, owner := range gs.SupplyCenters {
		prov := stdMap.Provinces[provID]
		if prov == nil || !prov.IsSupplyCenter {
			continue
		}
		if unit := gs.UnitAt(provID); unit != nil && unit.Power != owner {
			gs.ChangeOwner(provID, unit.Power)
		}
		// If no unit present, ownership stays with current owner
	}
}

// homeCentersCache stores pre-computed home centers for each power.
// Computed once on first access since home centers never change.
var homeCentersCache map[Power][]string

// Orders is a phase-tagged bundle of submitted orders; only the field
// matching gs.Phase is read by PhaseDispatcher.Adjudicate.
type Orders struct {
	Movement []Order
	Retreat  []RetreatOrder
	Build    []BuildOrder
}

// PhaseResult is the phase-tagged adjudication outcome of one Adjudicate call.
type PhaseResult struct {
	Movement  []ResolvedOrder
	Dislodged []DislodgedUnit
	Retreat   []RetreatResult
	Build     []BuildResult
	Rebellions []RebellionMarker
}

// PhaseDispatcher selects and runs the adjudicator matching a game's current
// phase, mirroring make_adjudicator(board)'s dispatch on the board's turn
// kind, and advances the game state afterward.
type PhaseDispatcher struct {
	Map *DiplomacyMap
}

// NewPhaseDispatcher creates a dispatcher bound to a map.
func NewPhaseDispatcher(m *DiplomacyMap) *PhaseDispatcher {
	return &PhaseDispatcher{Map: m}
}

// Adjudicate resolves the orders appropriate to gs.Phase, applies the
// result to gs, and advances gs to the next phase. It returns an error if
// gs.Phase is not one of the three recognized phase types, mirroring
// make_adjudicator's ValueError on an unrecognized turn kind.
func (d *PhaseDispatcher) Adjudicate(gs *GameState, orders Orders) (PhaseResult, error) {
	switch gs.Phase {
	case PhaseMovement:
		validated, voided := ValidateAndDefaultOrders(orders.Movement, gs, d.Map)
		results, dislodged := ResolveOrders(validated, gs, d.Map)
		ApplyResolution(gs, d.Map, results, dislodged)
		AdvanceState(gs, len(dislodged) > 0)
		return PhaseResult{Movement: append(results, voided...), Dislodged: dislodged}, nil

	case PhaseRetreat:
		results := ResolveRetreats(orders.Retreat, gs, d.Map)
		ApplyRetreats(gs, results, d.Map)
		rebellions := RunPostRetreatVassalUpdate(gs)
		AdvanceState(gs, false)
		return PhaseResult{Retreat: results, Rebellions: rebellions}, nil

	case PhaseBuild:
		results := ResolveBuildOrders(orders.Build, gs, d.Map)
		ApplyBuildOrders(gs, results)
		RunVassalLayer(gs)
		AdvanceState(gs, false)
		return PhaseResult{Build: results}, nil

	default:
		return PhaseResult{}, fmt.Errorf("diplomacy: unrecognized phase %q", gs.Phase)
	}
}

// HomeCenters returns the home supply center IDs for a given power.
func HomeCenters(power Power) []string {
	if homeCentersCache != nil {
		if c, ok := homeCentersCache[power]; ok {
			return c
		}
	}
	stdMap := StandardMap()
	if homeCentersCache == nil {
		homeCentersCache = make(map[Power][]string, 7)
	}
	var centers []string
	for _, prov := range stdMap.Provinces {
		if prov.HomePower == power && prov.IsSupplyCenter {
			centers = append(centers, prov.ID)
		}
	}
	homeCentersCache[power] = centers
	return centers
}
