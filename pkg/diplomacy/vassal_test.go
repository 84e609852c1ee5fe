package diplomacy

import "testing"

func vassalState() *GameState {
	gs := stateWith()
	gs.Flags = []string{"vassal system"}
	gs.Season = Fall
	return gs
}

func TestVassalReciprocalMatchingRequiresBothOrders(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Rank = RankKingdom
	gs.PlayerState(Austria).Rank = RankDuchy

	// Germany offers but Austria never accepts: no vassalage should form.
	gs.PlayerState(Germany).VassalOrders = []VassalOrder{{Power: Germany, Type: VassalOfferVassal, Target: Austria}}

	RunVassalLayer(gs)

	if gs.PlayerState(Austria).Liege != Neutral {
		t.Fatal("expected no vassalage to form without a reciprocal accept")
	}
}

func TestVassalReciprocalMatchingFormsOnBothOrders(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Rank = RankKingdom
	gs.PlayerState(Austria).Rank = RankDuchy

	gs.PlayerState(Germany).VassalOrders = []VassalOrder{{Power: Germany, Type: VassalOfferVassal, Target: Austria}}
	gs.PlayerState(Austria).VassalOrders = []VassalOrder{{Power: Austria, Type: VassalAcceptLiege, Target: Germany}}

	RunVassalLayer(gs)

	if gs.PlayerState(Austria).Liege != Germany {
		t.Fatalf("expected Austria vassal to Germany, got %v", gs.PlayerState(Austria).Liege)
	}
}

func TestVassalOvercommitmentPrunesExcess(t *testing.T) {
	gs := vassalState()
	ps := gs.PlayerState(Germany)
	ps.Rank = RankKingdom // capacity 2
	ps.Vassals = []Power{Austria, Italy}
	gs.PlayerState(Austria).Liege = Germany
	gs.PlayerState(Italy).Liege = Germany

	// A third vassal arrives via direct addVassal (simulating an order
	// processed earlier in the same phase), pushing Germany over capacity.
	addVassal(gs, Germany, Russia)

	RunVassalLayer(gs)

	if len(gs.PlayerState(Germany).Vassals) > 2 {
		t.Fatalf("expected overcommitment to prune down to capacity 2, got %d", len(gs.PlayerState(Germany).Vassals))
	}
}

func TestVassalDefectSeversLiege(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Vassals = []Power{Austria}
	gs.PlayerState(Austria).Liege = Germany
	gs.PlayerState(Austria).VassalOrders = []VassalOrder{{Power: Austria, Type: VassalDefect}}

	RunVassalLayer(gs)

	if gs.PlayerState(Austria).Liege != Neutral {
		t.Fatal("expected Defect to sever the liege relationship")
	}
	for _, v := range gs.PlayerState(Germany).Vassals {
		if v == Austria {
			t.Fatal("expected Germany's vassal list to drop Austria after Defect")
		}
	}
}

func TestDualMonarchyRequiresBothKingdomsAndBothOrders(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Rank = RankKingdom
	gs.PlayerState(England).Rank = RankKingdom
	gs.PlayerState(Germany).VassalOrders = []VassalOrder{{Power: Germany, Type: VassalDualMonarchy, Target: England}}
	gs.PlayerState(England).VassalOrders = []VassalOrder{{Power: England, Type: VassalDualMonarchy, Target: Germany}}

	RunVassalLayer(gs)

	if !isMutualMonarchy(gs, Germany, England) {
		t.Fatal("expected mutual vassalage between Germany and England")
	}
}

func TestDualMonarchyDoesNotFormWithoutBothRankKingdom(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Rank = RankKingdom
	gs.PlayerState(England).Rank = RankDuchy
	gs.PlayerState(Germany).VassalOrders = []VassalOrder{{Power: Germany, Type: VassalDualMonarchy, Target: England}}
	gs.PlayerState(England).VassalOrders = []VassalOrder{{Power: England, Type: VassalDualMonarchy, Target: Germany}}

	RunVassalLayer(gs)

	if isMutualMonarchy(gs, Germany, England) {
		t.Fatal("expected no mutual vassalage when one side isn't RankKingdom")
	}
}

func TestRebellionMarkerWhenLiegeRankNoLongerExceedsVassal(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Rank = RankDuchy
	gs.PlayerState(Austria).Rank = RankDuchy
	gs.PlayerState(Germany).Vassals = []Power{Austria}
	gs.PlayerState(Austria).Liege = Germany

	markers := RunPostRetreatVassalUpdate(gs)

	if len(markers) != 1 || markers[0].Liege != Germany || markers[0].Vassal != Austria {
		t.Fatalf("expected one rebellion marker for Germany/Austria, got %v", markers)
	}
	if gs.PlayerState(Austria).Liege != Neutral {
		t.Fatal("expected Austria to become independent after the rebellion")
	}
}

func TestPostRetreatUpdateSkippedOutsideFall(t *testing.T) {
	gs := vassalState()
	gs.Season = Spring
	gs.PlayerState(Germany).Rank = RankDuchy
	gs.PlayerState(Austria).Rank = RankDuchy
	gs.PlayerState(Germany).Vassals = []Power{Austria}
	gs.PlayerState(Austria).Liege = Germany

	markers := RunPostRetreatVassalUpdate(gs)

	if markers != nil {
		t.Fatal("expected no vassal update outside the Fall retreat phase")
	}
}

func TestComputePointsSumsVassalsAndSubVassals(t *testing.T) {
	gs := vassalState()
	gs.SupplyCenters = map[string]Power{
		"ber": Germany, "mun": Germany, "kie": Germany,
		"vie": Austria, "bud": Austria,
		"war": Russia,
	}
	gs.PlayerState(Germany).Vassals = []Power{Austria}
	gs.PlayerState(Austria).Liege = Germany
	gs.PlayerState(Austria).Vassals = []Power{Russia}
	gs.PlayerState(Russia).Liege = Austria

	points := computePoints(gs, Germany)
	want := gs.SupplyCenterCount(Germany) + gs.SupplyCenterCount(Austria) + gs.SupplyCenterCount(Russia)
	if points != want {
		t.Fatalf("expected Germany's points to include vassal and sub-vassal centers (%d), got %d", want, points)
	}
}

func TestComputePointsSubordinateScoresHalfLiege(t *testing.T) {
	gs := vassalState()
	gs.SupplyCenters = map[string]Power{"ber": Germany, "mun": Germany, "vie": Austria}
	gs.PlayerState(Germany).Vassals = []Power{Austria}
	gs.PlayerState(Austria).Liege = Germany

	RunVassalLayer(gs)

	germanyPoints := gs.PlayerState(Germany).Points
	austriaPoints := gs.PlayerState(Austria).Points
	if austriaPoints != germanyPoints/2 {
		t.Fatalf("expected Austria's points (%d) to be half Germany's (%d)", austriaPoints, germanyPoints)
	}
}

func TestAddVassalRejectsLiegeCycle(t *testing.T) {
	gs := vassalState()
	gs.PlayerState(Germany).Vassals = []Power{Austria}
	gs.PlayerState(Austria).Liege = Germany

	// Austria attempting to take Germany as a vassal would create a cycle
	// and must be rejected by the ordinary (non-DualMonarchy) path.
	addVassal(gs, Austria, Germany)

	if gs.PlayerState(Germany).Liege == Austria {
		t.Fatal("expected addVassal to reject a liege cycle")
	}
}

func TestVassalLayerNoopWithoutFlag(t *testing.T) {
	gs := stateWith()
	gs.PlayerState(Germany).VassalOrders = []VassalOrder{{Power: Germany, Type: VassalOfferVassal, Target: Austria}}
	gs.PlayerState(Austria).VassalOrders = []VassalOrder{{Power: Austria, Type: VassalAcceptLiege, Target: Germany}}

	RunVassalLayer(gs)

	if gs.PlayerState(Austria).Liege != Neutral {
		t.Fatal("expected RunVassalLayer to be a no-op for games without the vassal system flag")
	}
}
