package world

import (
	"fmt"

	"github.com/udisondev/warden/internal/config"
)

// Build creates the static world (areas, obstacles) and the tracked target
// from configuration. NPC bodies are spawned separately by the host.
func Build(cfg config.WorldConfig) (*World, error) {
	areas := make([]Area, 0, len(cfg.Areas))
	for i, a := range cfg.Areas {
		if a.MinX > a.MaxX || a.MinY > a.MaxY {
			return nil, fmt.Errorf("area %d: min corner exceeds max corner", i)
		}
		areas = append(areas, Area{MinX: a.MinX, MinY: a.MinY, MaxX: a.MaxX, MaxY: a.MaxY, Z: a.Z})
	}

	w := New(NewNavMesh(areas...))

	for _, o := range cfg.Obstacles {
		w.AddObstacle(o.Tag, NewBox(o.Min.Vec(), o.Max.Vec()))
	}

	if t := cfg.Target; t != nil && len(t.Path) > 0 {
		path := config.Vecs(t.Path)
		e := w.AddEntity(t.Tag, path[0], t.Radius)
		if len(path) > 1 {
			e.SetPath(t.Speed, path...)
		}
	}

	return w, nil
}
