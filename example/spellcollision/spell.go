package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/ImVexed/quadtree"
	log "github.com/sirupsen/logrus"
)

// This file is an example using quadtree to simulate a 2D lingering AoE spell causing damage
// over multiple ticks to a group of enemies

const (
	// Kept small enough that the tree image stays around 16 MB
	worldSize = 2_000

	// Largest mob radius. The broad phase widens the spell by it since the
	// tree only knows mob centers.
	maxMobSize = 1
)

type LingeringAoESpell struct {
	duration time.Duration
	dps      float64
	position quadtree.Point
	radius   float64
}

// Bounds is the square enclosing every mob center the spell can reach, used
// as a query range.
func (l *LingeringAoESpell) Bounds() quadtree.Rect {
	r := l.radius + maxMobSize
	return quadtree.Rect{
		Min: quadtree.Point{X: l.position.X - r, Y: l.position.Y - r},
		Max: quadtree.Point{X: l.position.X + r, Y: l.position.Y + r},
	}
}

// HitTest reports whether a mob centered inside the node boundary could be
// touched by the spell.
func (l *LingeringAoESpell) HitTest(b quadtree.Rect) bool {
	cx := math.Max(b.Min.X, math.Min(l.position.X, b.Max.X))
	cy := math.Max(b.Min.Y, math.Min(l.position.Y, b.Max.Y))
	dx, dy := l.position.X-cx, l.position.Y-cy
	r := l.radius + maxMobSize
	return dx*dx+dy*dy <= r*r
}

func (l *LingeringAoESpell) HitTestEx(m *Mob) bool {
	// Maybe factor in dodge, block, accuracy, etc. here

	distSq := (l.position.X-m.position.X)*(l.position.X-m.position.X) +
		(l.position.Y-m.position.Y)*(l.position.Y-m.position.Y)

	radSq := (l.radius + m.size) * (l.radius + m.size)

	return distSq <= radSq
}

type Mob struct {
	idx      int
	health   float64
	position quadtree.Point
	size     float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rand.Seed(int64(time.Now().Nanosecond()))
	entityCount := 50_000
	log.Infof("Allocating %d entities, this may take a moment...", entityCount)

	tree, err := quadtree.New(quadtree.Config{
		Boundary: quadtree.Rect{Max: quadtree.Point{X: worldSize, Y: worldSize}},
		Capacity: 16,
	})
	if err != nil {
		return err
	}
	defer tree.Destroy()

	// The tree only stores positions, so mobs are looked up by where they stand
	mobs := make(map[quadtree.Point][]*Mob, entityCount)

	// Insert mobs into the scene
	for n := 0; n < entityCount; n++ {
		m := &Mob{
			idx:    n,
			health: float64(rand.Intn(120)), // 100 damage is dealt over 2 seconds, so only ~20% should survive
			size:   maxMobSize,
			position: quadtree.Point{
				X: float64(rand.Intn(worldSize)),
				Y: float64(rand.Intn(worldSize)),
			},
		}
		// Mobs sharing a spot share one point, otherwise they would be hit once per copy
		if _, ok := mobs[m.position]; !ok && !tree.Insert(m.position) {
			log.WithField("mob", m.idx).Warn("mob outside the world, skipped")
			continue
		}
		mobs[m.position] = append(mobs[m.position], m)
	}

	stats := tree.Stats()
	log.WithFields(log.Fields{
		"points": stats.Points,
		"nodes":  stats.Nodes,
		"depth":  stats.Depth,
	}).Info("Tree built")

	tickRate := time.Second / 30
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	spell := &LingeringAoESpell{
		duration: 2 * time.Second,
		dps:      50,
		position: quadtree.Point{
			X: float64(rand.Intn(worldSize)),
			Y: float64(rand.Intn(worldSize)),
		},
		radius: 200,
	}

	// Store when the spell was casted so we know when to stop
	casted := time.Now()
	ticks := 0
	deadMobs := 0
	log.Info("Starting simulation loop!")
	for {
		delta := time.Since(<-ticker.C)
		ticks++
		if delta.Milliseconds() > 0 {
			log.WithField("delta", delta).Warn("Tick rate slipped")
		}

		// Broad phase: collect every point held by a node the spell circle touches
		hits := tree.Traverse(spell.HitTest)

		if time.Since(casted) > spell.duration {
			break
		}

		for _, p := range hits {
			for _, m := range mobs[p] {
				// Points from the broad phase are only candidates, check the actual distance
				if !spell.HitTestEx(m) {
					continue
				}

				if m.health > 0 {
					m.health -= (spell.dps / float64(time.Second.Milliseconds())) * float64((tickRate + delta).Milliseconds())
					if m.health <= 0 {
						m.health = 0
						deadMobs++
					}
				}
			}
		}
	}

	// Dead mobs stay in the tree, deletion is not supported
	inRange := len(tree.Query(spell.Bounds()))
	log.WithFields(log.Fields{
		"ticks":   ticks,
		"elapsed": time.Since(casted),
		"killed":  deadMobs,
		"mobs":    entityCount,
		"inRange": inRange,
	}).Info("Spell ended")

	log.Info("Dumping image of tree at ./spell.bmp")
	return tree.Image("./spell.bmp")
}
