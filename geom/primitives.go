package geom

import "math"

// Box returns an axis-aligned box mesh centered on the origin with the
// given full extents along X, Y, Z, indexed, with outward face normals.
func Box(sizeX, sizeY, sizeZ float32) *Mesh {
	hx, hy, hz := sizeX/2, sizeY/2, sizeZ/2
	corners := [8]Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	// Each face: 4 corner indices (CCW as seen from outside) and its normal.
	faces := []struct {
		idx [4]int
		n   Vec3
	}{
		{[4]int{3, 2, 1, 0}, Vec3{0, 0, -1}},
		{[4]int{6, 7, 4, 5}, Vec3{0, 0, 1}},
		{[4]int{7, 3, 0, 4}, Vec3{-1, 0, 0}},
		{[4]int{2, 6, 5, 1}, Vec3{1, 0, 0}},
		{[4]int{0, 1, 5, 4}, Vec3{0, -1, 0}},
		{[4]int{7, 6, 2, 3}, Vec3{0, 1, 0}},
	}
	m := New()
	for _, f := range faces {
		base := uint32(len(m.Positions))
		for _, ci := range f.idx {
			m.Positions = append(m.Positions, corners[ci])
			m.Normals = append(m.Normals, f.n)
			m.UVs = append(m.UVs, Vec2{0, 0})
		}
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return m
}

// Cylinder returns a cylinder mesh of the given radius and height,
// centered on the origin, with its axis along +Y and segments radial
// subdivisions (minimum 8). Used by through/blind holes and tapped-hole
// fallbacks.
func Cylinder(radius, height float32, segments int) *Mesh {
	if segments < 8 {
		segments = 8
	}
	m := New()
	hy := height / 2
	// Side wall.
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		x0, z0 := float32(math.Cos(a0))*radius, float32(math.Sin(a0))*radius
		x1, z1 := float32(math.Cos(a1))*radius, float32(math.Sin(a1))*radius
		n0 := Vec3{float32(math.Cos(a0)), 0, float32(math.Sin(a0))}
		n1 := Vec3{float32(math.Cos(a1)), 0, float32(math.Sin(a1))}
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions,
			Vec3{x0, -hy, z0}, Vec3{x1, -hy, z1}, Vec3{x1, hy, z1}, Vec3{x0, hy, z0})
		m.Normals = append(m.Normals, n0, n1, n1, n0)
		m.UVs = append(m.UVs, Vec2{}, Vec2{}, Vec2{}, Vec2{})
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	appendCap(m, radius, -hy, segments, Vec3{0, -1, 0})
	appendCap(m, radius, hy, segments, Vec3{0, 1, 0})
	return m
}

func appendCap(m *Mesh, radius, y float32, segments int, n Vec3) {
	center := uint32(len(m.Positions))
	m.Positions = append(m.Positions, Vec3{0, y, 0})
	m.Normals = append(m.Normals, n)
	m.UVs = append(m.UVs, Vec2{})
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i%segments) / float64(segments)
		m.Positions = append(m.Positions, Vec3{float32(math.Cos(a)) * radius, y, float32(math.Sin(a)) * radius})
		m.Normals = append(m.Normals, n)
		m.UVs = append(m.UVs, Vec2{})
	}
	for i := 0; i < segments; i++ {
		a, b := center+1+uint32(i), center+1+uint32(i+1)
		if n[1] > 0 {
			m.Indices = append(m.Indices, center, a, b)
		} else {
			m.Indices = append(m.Indices, center, b, a)
		}
	}
}

// ContourPoint is a single vertex of a closed 2D polygon, with an
// optional bulge value (DXF convention, tan(arc angle / 4); see GLOSSARY)
// describing the arc on the edge leading to the next point. A bulge of 0
// is a straight segment.
type ContourPoint struct {
	X, Y  float32
	Bulge float32
}

// Tessellate flattens a contour (straight edges plus bulge arcs) into a
// plain polygon with approximately arcSegments segments per full-circle
// arc. Straight edges (Bulge == 0) contribute their endpoint only.
func Tessellate(points []ContourPoint, arcSegments int) []Vec2 {
	if arcSegments < 4 {
		arcSegments = 4
	}
	out := make([]Vec2, 0, len(points))
	n := len(points)
	for i := 0; i < n; i++ {
		p := points[i]
		out = append(out, Vec2{p.X, p.Y})
		if p.Bulge == 0 {
			continue
		}
		q := points[(i+1)%n]
		out = append(out, bulgeArc(p, q, arcSegments)...)
	}
	return out
}

// bulgeArc returns the intermediate points (excluding both endpoints) of
// the arc from p to q implied by p.Bulge.
func bulgeArc(p, q ContourPoint, arcSegments int) []Vec2 {
	theta := 4 * math.Atan(float64(p.Bulge))
	chordX, chordY := float64(q.X-p.X), float64(q.Y-p.Y)
	chordLen := math.Hypot(chordX, chordY)
	if chordLen == 0 || theta == 0 {
		return nil
	}
	radius := chordLen / (2 * math.Sin(theta/2))
	midX, midY := (float64(p.X)+float64(q.X))/2, (float64(p.Y)+float64(q.Y))/2
	// Perpendicular offset from chord midpoint to arc center. radius (and
	// so sagitta) carries the sign of theta, which already puts the center
	// on the correct side of the chord for both arc directions.
	sagitta := radius * math.Cos(theta/2)
	perpX, perpY := -chordY/chordLen, chordX/chordLen
	centerX := midX + perpX*sagitta
	centerY := midY + perpY*sagitta
	startAngle := math.Atan2(float64(p.Y)-centerY, float64(p.X)-centerX)

	steps := int(math.Ceil(math.Abs(theta) / (2 * math.Pi) * float64(arcSegments)))
	if steps < 1 {
		steps = 1
	}
	out := make([]Vec2, 0, steps-1)
	for i := 1; i < steps; i++ {
		a := startAngle + theta*float64(i)/float64(steps)
		out = append(out, Vec2{
			float32(centerX + math.Abs(radius)*math.Cos(a)),
			float32(centerY + math.Abs(radius)*math.Sin(a)),
		})
	}
	return out
}

// ExtrudePolygon extrudes a closed 2D polygon (in the XY plane, Z=0) along
// +Z by depth, producing a solid with capped top/bottom and a side wall.
// The polygon is triangulated with a simple fan from its centroid, which
// is sufficient for the star-convex contours the cut handlers construct
// (rectangles, chamfered rectangles, simple notch/cope outlines); callers
// needing exact ear-clipping for concave DSTV contours should triangulate
// before calling ExtrudePolygon by pre-splitting at reflex vertices.
func ExtrudePolygon(poly []Vec2, depth float32) *Mesh {
	n := len(poly)
	if n < 3 {
		return New()
	}
	m := New()
	// Bottom cap (z=0, normal -Z) and top cap (z=depth, normal +Z), each
	// fanned from the polygon centroid.
	var cx, cy float32
	for _, p := range poly {
		cx += p[0]
		cy += p[1]
	}
	cx /= float32(n)
	cy /= float32(n)

	addCap := func(z float32, normal Vec3, reverse bool) {
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, Vec3{cx, cy, z})
		m.Normals = append(m.Normals, normal)
		m.UVs = append(m.UVs, Vec2{})
		for _, p := range poly {
			m.Positions = append(m.Positions, Vec3{p[0], p[1], z})
			m.Normals = append(m.Normals, normal)
			m.UVs = append(m.UVs, Vec2{})
		}
		for i := 0; i < n; i++ {
			a, b := base+1+uint32(i), base+1+uint32((i+1)%n)
			if reverse {
				m.Indices = append(m.Indices, base, b, a)
			} else {
				m.Indices = append(m.Indices, base, a, b)
			}
		}
	}
	addCap(0, Vec3{0, 0, -1}, true)
	addCap(depth, Vec3{0, 0, 1}, false)

	// Side wall.
	for i := 0; i < n; i++ {
		p0, p1 := poly[i], poly[(i+1)%n]
		edge := Vec2{p1[0] - p0[0], p1[1] - p0[1]}
		normal := Vec3{edge[1], -edge[0], 0}.Normalized()
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions,
			Vec3{p0[0], p0[1], 0}, Vec3{p1[0], p1[1], 0},
			Vec3{p1[0], p1[1], depth}, Vec3{p0[0], p0[1], depth})
		m.Normals = append(m.Normals, normal, normal, normal, normal)
		m.UVs = append(m.UVs, Vec2{}, Vec2{}, Vec2{}, Vec2{})
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// RevolveProfile generates a lathe solid by sweeping a 2D
// radius-vs-height profile (ordered bottom to top) one full turn around
// the Y axis, closing the first and last rings with flat caps so the
// result is watertight. Used by tapped-hole, countersink, counterbore
// and spotface processors.
func RevolveProfile(profile []Vec2, segments int) *Mesh {
	if segments < 8 {
		segments = 8
	}
	m := New()
	rings := len(profile)
	if rings < 2 {
		return m
	}
	for s := 0; s <= segments; s++ {
		a := 2 * math.Pi * float64(s%segments) / float64(segments)
		cosA, sinA := float32(math.Cos(a)), float32(math.Sin(a))
		for _, p := range profile {
			r, y := p[0], p[1]
			m.Positions = append(m.Positions, Vec3{r * cosA, y, r * sinA})
			m.Normals = append(m.Normals, Vec3{cosA, 0, sinA})
			m.UVs = append(m.UVs, Vec2{})
		}
	}
	for s := 0; s < segments; s++ {
		for r := 0; r < rings-1; r++ {
			a := uint32(s*rings + r)
			b := uint32((s+1)*rings + r)
			m.Indices = append(m.Indices, a, b, a+1, b, b+1, a+1)
		}
	}
	appendCap(m, profile[0][0], profile[0][1], segments, Vec3{0, -1, 0})
	appendCap(m, profile[rings-1][0], profile[rings-1][1], segments, Vec3{0, 1, 0})
	m.RecomputeNormals()
	return m
}
