package diplomacy

// ChangeOwner transfers a supply center's ownership and resets its coring
// progress, since a newly captured center starts uncored regardless of the
// previous occupant's coring progress. This is the only sanctioned way
// resolvers touch supply center ownership; callers must not write
// gs.SupplyCenters directly.
func (gs *GameState) ChangeOwner(province string, power Power) {
	if gs.SupplyCenters == nil {
		gs.SupplyCenters = make(map[string]Power)
	}
	if gs.SupplyCenters[province] != power {
		gs.SetCoreState(province, CoreNone)
	}
	gs.SupplyCenters[province] = power
}

// CreateUnit adds a new unit to the board. Callers are responsible for
// ensuring the province is unoccupied.
func (gs *GameState) CreateUnit(u Unit) {
	gs.Units = append(gs.Units, u)
}

// DeleteUnit removes the unit belonging to power at province, if any.
func (gs *GameState) DeleteUnit(power Power, province string) {
	for i := range gs.Units {
		if gs.Units[i].Power == power && gs.Units[i].Province == province {
			gs.Units = append(gs.Units[:i], gs.Units[i+1:]...)
			return
		}
	}
}

// SetCoreState sets a province's coring progress directly. Resetting to
// CoreNone also clears the tracked coring power, since a province with no
// progress has no one to credit it to.
func (gs *GameState) SetCoreState(province string, state CoreState) {
	if gs.CoreState == nil {
		gs.CoreState = make(map[string]CoreState)
	}
	if state == CoreNone {
		delete(gs.CoreState, province)
		if gs.CoreOwner != nil {
			delete(gs.CoreOwner, province)
		}
		return
	}
	gs.CoreState[province] = state
}

// setCoreOwner records which power a province's current coring progress
// belongs to, without touching the progress level itself.
func (gs *GameState) setCoreOwner(province string, power Power) {
	if gs.CoreOwner == nil {
		gs.CoreOwner = make(map[string]Power)
	}
	gs.CoreOwner[province] = power
}

// CoreOwnerOf returns the power currently credited with a province's coring
// progress, or Neutral if the province has none.
func (gs *GameState) CoreOwnerOf(province string) Power {
	if gs.CoreOwner == nil {
		return Neutral
	}
	return gs.CoreOwner[province]
}

// AdvanceCoreState progresses a province one step toward being cored by
// power (none -> half -> full) and returns the resulting state, grounded on
// the rule "if half_core already equals the player, promote to full core;
// else set half_core": a different power coring a half-cored province
// restarts progress at half rather than inheriting the previous power's
// count toward a core it doesn't own.
func (gs *GameState) AdvanceCoreState(province string, power Power) CoreState {
	next := CoreHalf
	if gs.ProvinceCoreState(province) != CoreNone && gs.CoreOwnerOf(province) == power {
		next = CoreFull
	}
	gs.SetCoreState(province, next)
	gs.setCoreOwner(province, power)
	return next
}

// ProvinceCoreState returns the coring progress of a province (CoreNone if
// never tracked).
func (gs *GameState) ProvinceCoreState(province string) CoreState {
	if gs.CoreState == nil {
		return CoreNone
	}
	return gs.CoreState[province]
}

// ProvinceIsCoreOf reports whether province is a permanent core (fully
// cored) belonging to power.
func (gs *GameState) ProvinceIsCoreOf(province string, power Power) bool {
	return gs.ProvinceCoreState(province) == CoreFull && gs.CoreOwnerOf(province) == power
}
