package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/diplomacy-adjudicator/internal/logger"
	"github.com/freeeve/diplomacy-adjudicator/internal/store"
	"github.com/freeeve/diplomacy-adjudicator/pkg/diplomacy"
)

func main() {
	logger.Init()

	var (
		statePath  string
		ordersPath string
		outPath    string
		gameID     string
		dbURL      string
		redisURL   string
		power      string
	)

	flag.StringVar(&statePath, "state", "", "Path to a DFEN file describing the board before this phase (required)")
	flag.StringVar(&ordersPath, "orders", "", "Path to a DSON file with this phase's orders (one power's submission, or all of them already merged)")
	flag.StringVar(&outPath, "out", "", "Path to write the resulting DFEN snapshot (default: stdout)")
	flag.StringVar(&gameID, "game", "adhoc", "Game identifier used for the persistence hook")
	flag.StringVar(&dbURL, "db", "", "Postgres DSN for order persistence (optional)")
	flag.StringVar(&redisURL, "redis", "", "Redis URL for snapshot persistence (optional)")
	flag.StringVar(&power, "power", "", "Power submitting the orders, for retreat/build phases (required there)")
	flag.Parse()

	if statePath == "" {
		log.Fatal().Msg("-state is required")
	}

	rawState, err := os.ReadFile(statePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", statePath).Msg("read state file")
	}
	gs, err := diplomacy.DecodeDFEN(string(trimTrailingNewline(rawState)))
	if err != nil {
		log.Fatal().Err(err).Msg("decode DFEN state")
	}

	var dsonOrders []diplomacy.DSONOrder
	if ordersPath != "" {
		raw, err := os.ReadFile(ordersPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", ordersPath).Msg("read orders file")
		}
		dsonOrders, err = diplomacy.ParseDSON(string(raw))
		if err != nil {
			log.Fatal().Err(err).Msg("parse DSON orders")
		}
	}

	orders := ordersForPhase(gs, dsonOrders, diplomacy.Power(power))

	dispatcher := diplomacy.NewPhaseDispatcher(diplomacy.StandardMap())
	result, err := dispatcher.Adjudicate(gs, orders)
	if err != nil {
		log.Fatal().Err(err).Msg("adjudicate phase")
	}

	logResult(gameID, result)

	backing, err := backingStore(dbURL, redisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open persistence backend")
	}
	if backing != nil {
		if err := backing.SaveOrders(context.Background(), gameID, gs, orders, result); err != nil {
			log.Error().Err(err).Msg("save orders (non-fatal)")
		}
	}

	out := diplomacy.EncodeDFEN(gs)
	if outPath == "" {
		os.Stdout.WriteString(out + "\n")
		return
	}
	if err := os.WriteFile(outPath, []byte(out+"\n"), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("write output state")
	}
}

// ordersForPhase routes the parsed DSON orders into the Orders field
// matching the board's current phase, since DSON is phase-agnostic but the
// dispatcher needs a phase-tagged bundle.
func ordersForPhase(gs *diplomacy.GameState, dson []diplomacy.DSONOrder, power diplomacy.Power) diplomacy.Orders {
	switch gs.Phase {
	case diplomacy.PhaseMovement:
		orders := make([]diplomacy.Order, 0, len(dson))
		for _, d := range dson {
			orders = append(orders, diplomacy.DSONToOrder(d, orderPower(gs, d, power)))
		}
		return diplomacy.Orders{Movement: orders}
	case diplomacy.PhaseRetreat:
		orders := make([]diplomacy.RetreatOrder, 0, len(dson))
		for _, d := range dson {
			orders = append(orders, diplomacy.DSONToRetreatOrder(d, orderPower(gs, d, power)))
		}
		return diplomacy.Orders{Retreat: orders}
	case diplomacy.PhaseBuild:
		orders := make([]diplomacy.BuildOrder, 0, len(dson))
		for _, d := range dson {
			orders = append(orders, diplomacy.DSONToBuildOrder(d, orderPower(gs, d, power)))
		}
		return diplomacy.Orders{Build: orders}
	default:
		return diplomacy.Orders{}
	}
}

// orderPower resolves the ordering power for a DSON entry: the -power flag
// if given, otherwise whoever's unit already occupies the ordered location.
func orderPower(gs *diplomacy.GameState, d diplomacy.DSONOrder, flagPower diplomacy.Power) diplomacy.Power {
	if flagPower != diplomacy.Neutral {
		return flagPower
	}
	if u := gs.UnitAt(d.Location); u != nil {
		return u.Power
	}
	return diplomacy.Neutral
}

func backingStore(dbURL, redisURL string) (store.OrderStore, error) {
	switch {
	case dbURL != "":
		pg, err := store.NewPostgres(dbURL)
		if err != nil {
			return nil, err
		}
		return store.NewCache(pg), nil
	case redisURL != "":
		rdb, err := store.NewRedis(redisURL)
		if err != nil {
			return nil, err
		}
		return store.NewCache(rdb), nil
	default:
		return nil, nil
	}
}

func logResult(gameID string, result diplomacy.PhaseResult) {
	l := logger.WithGame(gameID)
	for _, r := range result.Movement {
		l.Info().Str("order", r.Order.Describe()).Str("result", r.Result.String()).Msg("movement order")
	}
	for _, r := range result.Retreat {
		l.Info().Str("power", string(r.Order.Power)).Str("result", r.Result.String()).Msg("retreat order")
	}
	for _, r := range result.Build {
		l.Info().Str("power", string(r.Order.Power)).Str("result", r.Result.String()).Msg("build order")
	}
	for _, d := range result.Dislodged {
		l.Info().Str("power", string(d.Unit.Power)).Str("province", d.DislodgedFrom).Msg("dislodged")
	}
	for _, reb := range result.Rebellions {
		l.Info().Str("liege", string(reb.Liege)).Str("vassal", string(reb.Vassal)).Msg("vassal rebellion")
	}
}

func trimTrailingNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
