package raster

import gomath "math"

// clipNear clips a clip-space triangle against the near plane (z >= -w),
// projects the surviving polygon and appends it to dst as up to two
// screen triangles. Triangles off screen or with no area are dropped.
func clipNear(dst []screenTri, in [3]clipVertex, width, height int) []screenTri {
	var poly [4]clipVertex
	n := 0

	for i := range 3 {
		a, b := in[i], in[(i+1)%3]
		da, db := a.pos[2]+a.pos[3], b.pos[2]+b.pos[3]
		if da >= 0 {
			poly[n] = a
			n++
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			poly[n] = lerpClip(a, b, t)
			n++
		}
	}
	if n < 3 {
		return dst
	}

	var sv [4]screenVertex
	for i := range n {
		sv[i] = project(poly[i], width, height)
	}

	dst = appendTri(dst, sv[0], sv[1], sv[2], width, height)
	if n == 4 {
		dst = appendTri(dst, sv[0], sv[2], sv[3], width, height)
	}
	return dst
}

func lerpClip(a, b clipVertex, t float32) clipVertex {
	var out clipVertex
	for k := range 4 {
		out.pos[k] = a.pos[k] + (b.pos[k]-a.pos[k])*t
	}
	out.e = a.e + (b.e-a.e)*t
	return out
}

func project(v clipVertex, width, height int) screenVertex {
	w := v.pos[3]
	if w <= 0 {
		w = 1e-6 // near plane at zero
	}
	invW := 1 / w
	return screenVertex{
		x:      (v.pos[0]*invW*0.5 + 0.5) * float32(width),
		y:      (0.5 - v.pos[1]*invW*0.5) * float32(height),
		z:      v.pos[2] * invW,
		invW:   invW,
		eOverW: v.e * invW,
	}
}

func appendTri(dst []screenTri, a, b, c screenVertex, width, height int) []screenTri {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 || gomath.IsNaN(float64(area)) || gomath.IsInf(float64(area), 0) {
		return dst
	}

	minX := int(gomath.Floor(float64(min(a.x, b.x, c.x))))
	maxX := int(gomath.Ceil(float64(max(a.x, b.x, c.x))))
	minY := int(gomath.Floor(float64(min(a.y, b.y, c.y))))
	maxY := int(gomath.Ceil(float64(max(a.y, b.y, c.y))))
	minX, maxX = max(minX, 0), min(maxX, width-1)
	minY, maxY = max(minY, 0), min(maxY, height-1)
	if minX > maxX || minY > maxY {
		return dst
	}

	return append(dst, screenTri{
		v:    [3]screenVertex{a, b, c},
		minX: minX, maxX: maxX,
		minY: minY, maxY: maxY,
		area: area,
	})
}
