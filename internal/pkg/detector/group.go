package detector

import "image"

// groupRects merges raw hits that overlap by more than threshold IoU into one
// averaged rectangle and keeps groups with at least minNeighbors members.
// Groups come out in the order of their first member.
func groupRects(rects []image.Rectangle, minNeighbors int, threshold float64) []image.Rectangle {
	used := make([]bool, len(rects))
	var out []image.Rectangle

	for i, seed := range rects {
		if used[i] {
			continue
		}
		used[i] = true

		var x0, y0, x1, y1, n int
		for j := i; j < len(rects); j++ {
			if j != i && (used[j] || iou(seed, rects[j]) <= threshold) {
				continue
			}
			used[j] = true
			r := rects[j]
			x0 += r.Min.X
			y0 += r.Min.Y
			x1 += r.Max.X
			y1 += r.Max.Y
			n++
		}

		if n < minNeighbors {
			continue
		}
		out = append(out, image.Rect(x0/n, y0/n, x1/n, y1/n))
	}
	return out
}

func iou(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	ia := area(inter)
	union := area(a) + area(b) - ia
	if union <= 0 {
		return 0
	}
	return float64(ia) / float64(union)
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
