package geometry

// PointInPolygon reports whether p lies inside the polygon using even-odd ray
// casting. The crossing test is half-open: points on a left or bottom edge
// count as inside, points on a right or top edge as outside.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		xi, yi := poly[i].X, poly[i].Y
		xj, yj := poly[j].X, poly[j].Y
		if (yi > p.Y) != (yj > p.Y) && p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInRings applies the even-odd rule across several rings, so inner rings
// cut holes in outer ones.
func PointInRings(p Point, rings [][]Point) bool {
	inside := false
	for _, r := range rings {
		if PointInPolygon(p, r) {
			inside = !inside
		}
	}
	return inside
}
