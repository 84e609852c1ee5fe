package diplomacy

// RankClass orders powers by political rank for the vassal layer.
// A liege must strictly outrank its vassal (an equal rank is a rebellion in
// RunPostRetreatVassalUpdate); DualMonarchy
// requires both participants to already hold RankKingdom.
type RankClass int

const (
	RankNone RankClass = iota
	RankDuchy
	RankKingdom
)

// Player holds a power's mutable political state for the vassal/liege
// overlay. It is optional: games without the "vassal system" flag never
// populate Liege/Vassals/Points.
type Player struct {
	Power Power

	Rank RankClass

	// Liege is the power this player is a vassal of, or Neutral if none.
	Liege Power
	// Vassals lists the powers subordinate to this player.
	Vassals []Power

	// Points is recomputed by RunVassalLayer every time it is invoked.
	Points int

	// VassalOrders are this player's submitted vassal-layer orders for
	// the current build phase.
	VassalOrders []VassalOrder
}

// VassalOrderType enumerates the vassal/liege political orders.
type VassalOrderType int

const (
	VassalOfferVassal  VassalOrderType = iota // offer vassalage to Target
	VassalAcceptLiege                         // accept Target as liege
	VassalDisown                              // release Target as a vassal
	VassalDefect                              // sever ties with the current liege
	VassalDualMonarchy                        // propose mutual vassalage with Target
)

// VassalOrder is a single political-layer order issued by a power.
type VassalOrder struct {
	Power  Power
	Type   VassalOrderType
	Target Power
}

// RebellionMarker records that a liege's rank no longer exceeds a vassal's;
// RunPostRetreatVassalUpdate frees that vassal in the same call that
// returns the marker.
type RebellionMarker struct {
	Liege  Power
	Vassal Power
}

// isVassalOf reports whether power is (transitively, through Liege chains) a
// vassal or sub-vassal of candidate.
func isVassalOf(gs *GameState, power, candidate Power) bool {
	seen := make(map[Power]bool)
	for p := gs.PlayerState(power).Liege; p != Neutral && !seen[p]; p = gs.PlayerState(p).Liege {
		seen[p] = true
		if p == candidate {
			return true
		}
	}
	return false
}

// RunVassalLayer applies the build-phase vassal/liege political update,
// grounded on builds_adjudicator.py's _vassal_adju: overcommitment pruning,
// reciprocal Vassal/Liege matching, Defect severance, DualMonarchy, and a
// final points recomputation for every power.
func RunVassalLayer(gs *GameState) {
	if !gs.HasVassals() {
		return
	}

	for _, power := range AllPowers() {
		ps := gs.PlayerState(power)
		for _, o := range ps.VassalOrders {
			switch o.Type {
			case VassalDefect:
				severVassal(gs, ps.Liege, power)
				ps.Liege = Neutral
			case VassalDisown:
				severVassal(gs, power, o.Target)
			}
		}
	}

	// Reciprocal Vassal/Liege matching: a power offering VassalOfferVassal
	// to X only takes effect if X submitted VassalAcceptLiege naming power.
	for _, power := range AllPowers() {
		ps := gs.PlayerState(power)
		for _, o := range ps.VassalOrders {
			if o.Type != VassalOfferVassal {
				continue
			}
			target := gs.PlayerState(o.Target)
			if hasVassalOrder(target, VassalAcceptLiege, power) {
				addVassal(gs, power, o.Target)
			}
		}
	}

	// DualMonarchy: both sides must propose it and both must already be
	// RankKingdom.
	for _, power := range AllPowers() {
		ps := gs.PlayerState(power)
		for _, o := range ps.VassalOrders {
			if o.Type != VassalDualMonarchy {
				continue
			}
			other := gs.PlayerState(o.Target)
			if ps.Rank != RankKingdom || other.Rank != RankKingdom {
				continue
			}
			if hasVassalOrder(other, VassalDualMonarchy, power) {
				setDualMonarchy(gs, power, o.Target)
			}
		}
	}

	for _, power := range AllPowers() {
		enforceOvercommitment(gs, power)
	}

	for _, power := range AllPowers() {
		gs.PlayerState(power).Points = computePoints(gs, power)
	}
}

func hasVassalOrder(p *Player, t VassalOrderType, target Power) bool {
	for _, o := range p.VassalOrders {
		if o.Type == t && o.Target == target {
			return true
		}
	}
	return false
}

func addVassal(gs *GameState, liege, vassal Power) {
	if liege == vassal || isVassalOf(gs, liege, vassal) {
		// Would create a liege cycle; ignore.
		return
	}
	lp := gs.PlayerState(liege)
	for _, v := range lp.Vassals {
		if v == vassal {
			return
		}
	}
	lp.Vassals = append(lp.Vassals, vassal)
	gs.PlayerState(vassal).Liege = liege
}

// setDualMonarchy establishes mutual vassalage between two RankKingdom
// powers. Unlike addVassal this intentionally creates a liege cycle, which
// is the definition of a dual monarchy.
func setDualMonarchy(gs *GameState, a, b Power) {
	ap, bp := gs.PlayerState(a), gs.PlayerState(b)
	hasVassal := func(p *Player, v Power) bool {
		for _, x := range p.Vassals {
			if x == v {
				return true
			}
		}
		return false
	}
	if !hasVassal(ap, b) {
		ap.Vassals = append(ap.Vassals, b)
	}
	if !hasVassal(bp, a) {
		bp.Vassals = append(bp.Vassals, a)
	}
	bp.Liege = a
	ap.Liege = b
}

func severVassal(gs *GameState, liege, vassal Power) {
	lp := gs.PlayerState(liege)
	for i, v := range lp.Vassals {
		if v == vassal {
			lp.Vassals = append(lp.Vassals[:i], lp.Vassals[i+1:]...)
			break
		}
	}
	vp := gs.PlayerState(vassal)
	if vp.Liege == liege {
		vp.Liege = Neutral
	}
}

// vassalCapacity is how many vassals a rank may hold; overcommitment beyond
// this disowns the excess, most-recently-added first.
func vassalCapacity(rank RankClass) int {
	switch rank {
	case RankKingdom:
		return 2
	case RankDuchy:
		return 1
	default:
		return 0
	}
}

func enforceOvercommitment(gs *GameState, liege Power) {
	ps := gs.PlayerState(liege)
	capacity := vassalCapacity(ps.Rank)
	for len(ps.Vassals) > capacity {
		excess := ps.Vassals[len(ps.Vassals)-1]
		severVassal(gs, liege, excess)
	}
}

// computePoints implements the points formula from _vassal_adju: a
// subordinate player scores half its liege's points instead of its own
// center count; everyone else scores their own supply centers plus their
// vassals' and sub-vassals' supply centers.
func computePoints(gs *GameState, power Power) int {
	ps := gs.PlayerState(power)
	if ps.Liege != Neutral && !isMutualMonarchy(gs, power, ps.Liege) {
		return gs.PlayerState(ps.Liege).Points / 2
	}
	total := gs.SupplyCenterCount(power)
	visited := map[Power]bool{power: true}
	var walk func(Power)
	walk = func(p Power) {
		for _, v := range gs.PlayerState(p).Vassals {
			if visited[v] {
				continue
			}
			visited[v] = true
			total += gs.SupplyCenterCount(v)
			walk(v)
		}
	}
	walk(power)
	return total
}

// RunPostRetreatVassalUpdate applies the Fall-retreat-phase vassal check:
// any liege whose rank no longer exceeds a vassal's forces that vassal
// independent, grounded on retreats_adjudicator.py's _handle_vassals.
func RunPostRetreatVassalUpdate(gs *GameState) []RebellionMarker {
	if !gs.HasVassals() || gs.Season != Fall {
		return nil
	}

	var markers []RebellionMarker
	for _, power := range AllPowers() {
		ps := gs.PlayerState(power)
		for _, vassal := range append([]Power(nil), ps.Vassals...) {
			vp := gs.PlayerState(vassal)
			if ps.Rank <= vp.Rank {
				markers = append(markers, RebellionMarker{Liege: power, Vassal: vassal})
				severVassal(gs, power, vassal)
			}
		}
		// DualMonarchy breaks if either side drops below RankKingdom.
		if ps.Rank != RankKingdom {
			for _, vassal := range append([]Power(nil), ps.Vassals...) {
				if gs.PlayerState(vassal).Liege == power && isMutualMonarchy(gs, power, vassal) {
					severVassal(gs, power, vassal)
					severVassal(gs, vassal, power)
				}
			}
		}
	}
	return markers
}

func isMutualMonarchy(gs *GameState, a, b Power) bool {
	ap := gs.PlayerState(a)
	bp := gs.PlayerState(b)
	for _, v := range ap.Vassals {
		if v == b {
			for _, v2 := range bp.Vassals {
				if v2 == a {
					return true
				}
			}
		}
	}
	return false
}
