package spatial

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlehold/arena/internal/core/ecs"
)

func randomPoints(rng *rand.Rand, n int, extent float32) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			Pos: mgl32.Vec2{(rng.Float32()*2 - 1) * extent, (rng.Float32()*2 - 1) * extent},
			ID:  ecs.NewEntityID(uint32(i), 1),
		}
	}
	return pts
}

func bruteForce(pts []Point, c mgl32.Vec2, r float32) []ecs.EntityID {
	out := []ecs.EntityID{}
	for _, p := range pts {
		if DistSq(p.Pos, c) <= r*r {
			out = append(out, p.ID)
		}
	}
	return out
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pts := randomPoints(rng, 500, 1000)
	ix := Build(pts)
	require.Equal(t, len(pts), ix.Len())

	for range 200 {
		c := mgl32.Vec2{(rng.Float32()*2 - 1) * 1200, (rng.Float32()*2 - 1) * 1200}
		r := rng.Float32() * 300
		want := bruteForce(pts, c, r)
		got := ix.QueryRadius(c, r)
		if len(want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.ElementsMatch(t, want, got)
	}
}

func TestQueryIndependentOfInsertionOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	pts := randomPoints(rng, 200, 500)
	shuffled := make([]Point, len(pts))
	copy(shuffled, pts)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	a, b := Build(pts), Build(shuffled)
	c := mgl32.Vec2{10, -20}
	assert.ElementsMatch(t, a.QueryRadius(c, 150), b.QueryRadius(c, 150))
	assert.Equal(t, a.QueryNearest(c, 150), b.QueryNearest(c, 150))
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	pts := []Point{
		{Pos: mgl32.Vec2{5, 0}, ID: 1},
		{Pos: mgl32.Vec2{1, 0}, ID: 2},
		{Pos: mgl32.Vec2{3, 0}, ID: 3},
	}
	ix := Build(pts)
	assert.Equal(t, ecs.EntityID(1), pts[0].ID, "input order untouched")

	pts[0].Pos = mgl32.Vec2{1000, 1000}
	assert.ElementsMatch(t, []ecs.EntityID{1, 2, 3}, ix.QueryRadius(mgl32.Vec2{3, 0}, 2))
}

func TestRebuildIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	pts := randomPoints(rng, 64, 100)
	c := mgl32.Vec2{}
	first := Build(pts).QueryNearest(c, 80)
	second := Build(pts).QueryNearest(c, 80)
	assert.Equal(t, first, second)
}

func TestEmptyAndNil(t *testing.T) {
	var nilIx *Index
	assert.Equal(t, 0, nilIx.Len())
	assert.Empty(t, nilIx.QueryRadius(mgl32.Vec2{}, 10))
	assert.Empty(t, nilIx.QueryNearest(mgl32.Vec2{}, 10))

	empty := Build(nil)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.QueryRadius(mgl32.Vec2{}, 10))
}

func TestRadiusEdgeCases(t *testing.T) {
	ix := Build([]Point{
		{Pos: mgl32.Vec2{3, 4}, ID: 1},
		{Pos: mgl32.Vec2{0, 0}, ID: 2},
	})
	assert.ElementsMatch(t, []ecs.EntityID{1, 2}, ix.QueryRadius(mgl32.Vec2{}, 5), "boundary is inclusive")
	assert.Equal(t, []ecs.EntityID{2}, ix.QueryRadius(mgl32.Vec2{}, 0), "zero radius hits coincident points")
	assert.Empty(t, ix.QueryRadius(mgl32.Vec2{}, -1))
}

func TestStackedPoints(t *testing.T) {
	pts := make([]Point, 100)
	for i := range pts {
		pts[i] = Point{Pos: mgl32.Vec2{60, 60}, ID: ecs.EntityID(i + 1)}
	}
	ix := Build(pts)
	assert.Len(t, ix.QueryRadius(mgl32.Vec2{60, 60}, 1), 100)
	assert.Empty(t, ix.QueryRadius(mgl32.Vec2{}, 10))

	nearest := ix.QueryNearest(mgl32.Vec2{60, 60}, 1)
	require.Len(t, nearest, 100)
	assert.Equal(t, ecs.EntityID(1), nearest[0], "ties break by id")
	assert.Equal(t, ecs.EntityID(100), nearest[99])
}

func TestQueryNearestOrder(t *testing.T) {
	ix := Build([]Point{
		{Pos: mgl32.Vec2{20, 0}, ID: 7},
		{Pos: mgl32.Vec2{5, 0}, ID: 9},
		{Pos: mgl32.Vec2{0, -5}, ID: 3},
		{Pos: mgl32.Vec2{0, 50}, ID: 1},
	})
	assert.Equal(t, []ecs.EntityID{3, 9, 7}, ix.QueryNearest(mgl32.Vec2{}, 25))
}
