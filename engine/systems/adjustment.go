package systems

import (
	"github.com/nathoo/timeward/engine/spawn"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// Adjust recolors every unlocked portal to the open-portal color.
func Adjust(w *state.World) {
	for _, e := range w.ECS.Query().With(w.Portals).With(w.Renderables).Without(w.RequiresItem).Execute() {
		w.Renderables.Update(e, func(r *types.Renderable) {
			r.FG = spawn.PortalColor
		})
	}
}
