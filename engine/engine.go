// Package engine provides the Advance() orchestrator that wires together
// movement, the gameplay systems, inventory use, and dialogue into a single
// tick.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/dialogue"
	"github.com/nathoo/timeward/engine/movement"
	"github.com/nathoo/timeward/engine/save"
	"github.com/nathoo/timeward/engine/spawn"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/engine/systems"
	"github.com/nathoo/timeward/types"
)

// ErrNoStore is returned by the persistence calls when no save store was
// configured.
var ErrNoStore = errors.New("no save store configured")

// Transition describes what one tick did.
type Transition struct {
	From         types.RunMode
	To           types.RunMode
	PlaceChanged bool
	Lines        []string // log lines appended during the tick
}

// Engine holds the world definitions and the session.
type Engine struct {
	Defs  *state.Defs
	World *state.World
	Log   logrus.FieldLogger
	Store save.Store
}

// New creates an engine with a freshly populated world. store may be nil,
// in which case Save and Load return ErrNoStore.
func New(defs *state.Defs, log logrus.FieldLogger, store save.Store) (*Engine, error) {
	w := state.New(defs)
	if err := spawn.Populate(w); err != nil {
		return nil, fmt.Errorf("populate world: %w", err)
	}
	return &Engine{
		Defs:  defs,
		World: w,
		Log:   log,
		Store: store,
	}, nil
}

// Advance runs one tick with the given input. An error means a world
// invariant is broken and the session cannot continue.
func (e *Engine) Advance(in types.Input) (Transition, error) {
	w := e.World
	tr := Transition{From: w.Mode}
	startPlace := w.Place
	startLog := len(w.Log)
	finish := func() (Transition, error) {
		tr.To = w.Mode
		tr.PlaceChanged = w.Place != startPlace
		tr.Lines = append([]string(nil), w.Log[startLog:]...)
		return tr, nil
	}

	// 0. Game over: nothing moves any more.
	if w.Mode.Kind == types.ModeGameOver {
		return finish()
	}

	// 1. Win check overrides every other mode.
	if e.won() {
		return finish()
	}

	// 2. Rebuild the map if the place changed since it was built.
	if err := e.ensureMap(); err != nil {
		return tr, err
	}
	if err := w.SyncPlayer(); err != nil {
		return tr, err
	}

	// 3. Dispatch on the run mode.
	switch w.Mode.Kind {
	case types.ModeGame:
		if err := systems.Run(w, e.Log); err != nil {
			return tr, err
		}
		if in.Kind == types.InputMove {
			mode, err := movement.TryMove(w, e.Log, in.DX, in.DY)
			if err != nil {
				return tr, fmt.Errorf("move: %w", err)
			}
			w.Mode = mode
		}

	case types.ModeUseInventory:
		switch in.Kind {
		case types.InputSelect:
			w.Mode = systems.UseItem(w, e.Log, in.Index)
		case types.InputCancel:
			w.Mode = systems.CancelUse(w)
		}

	case types.ModeInteractNpc:
		npc, ok := w.NpcAt(w.Targeted)
		if !ok {
			e.Log.WithField("at", w.Targeted).Warn("interaction target has no npc")
			w.Mode = dialogue.End(w)
			break
		}
		switch in.Kind {
		case types.InputConfirm:
			mode, err := dialogue.Confirm(w, e.Log, npc)
			w.Mode = mode
			if err != nil {
				return tr, fmt.Errorf("dialogue: %w", err)
			}
		case types.InputCancel:
			w.Mode = dialogue.End(w)
		}
	}

	// 4. A portal may have changed the place.
	if err := e.ensureMap(); err != nil {
		return tr, err
	}
	if err := w.SyncPlayer(); err != nil {
		return tr, err
	}

	// 5. Check again so arriving with the final item ends the game this tick.
	e.won()
	return finish()
}

// won switches to the terminal win mode when the player stands in the
// finish place holding the final item.
func (e *Engine) won() bool {
	w := e.World
	g := e.Defs.Game
	if w.Place != g.FinishPlace || !w.HasItem(g.FinalItem) {
		return false
	}
	w.Mode = types.RunMode{Kind: types.ModeGameOver, Won: true}
	w.ResetTarget()
	e.Log.WithField("place", w.Place).Info("game won")
	return true
}

func (e *Engine) ensureMap() error {
	rebuilt, err := e.World.EnsureMap()
	if err != nil {
		return err
	}
	if rebuilt {
		e.Log.WithField("place", e.World.Place).Debug("map regenerated")
	}
	return nil
}

// Save writes a snapshot of the world to the configured store.
func (e *Engine) Save(ctx context.Context) error {
	if e.Store == nil {
		return ErrNoStore
	}
	data, err := save.Save(e.World)
	if err != nil {
		return err
	}
	if err := e.Store.Write(ctx, data); err != nil {
		return err
	}
	e.Log.WithField("bytes", len(data)).Debug("game saved")
	return nil
}

// Load replaces the world with the stored snapshot. Returns save.ErrNoSave
// when nothing was saved and save.ErrMalformed for a broken snapshot; the
// world is left untouched in both cases.
func (e *Engine) Load(ctx context.Context) error {
	if e.Store == nil {
		return ErrNoStore
	}
	data, err := e.Store.Read(ctx)
	if err != nil {
		return err
	}
	sd, err := save.Load(data)
	if err != nil {
		return err
	}
	if err := save.Apply(e.World, sd); err != nil {
		return err
	}
	e.Log.WithFields(logrus.Fields{
		"place":  e.World.Place,
		"player": e.World.PlayerPos,
	}).Debug("game loaded")
	return nil
}

// SaveExists reports whether a snapshot is available to load.
func (e *Engine) SaveExists(ctx context.Context) bool {
	if e.Store == nil {
		return false
	}
	ok, err := e.Store.Exists(ctx)
	if err != nil {
		e.Log.WithError(err).Warn("checking for a saved game")
		return false
	}
	return ok
}
