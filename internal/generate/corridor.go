package generate

// carveCorridor digs a tunnel between (x1,y1) and (x2,y2).
func carveCorridor(lay *Layout, x1, y1, x2, y2 int, cfg *Config) {
	switch cfg.CorridorStyle {
	case CorridorZShaped:
		carveZShaped(lay, x1, y1, x2, y2)
	case CorridorStraight:
		carveH(lay, x1, x2, y1)
		carveV(lay, y1, y2, x2)
	default: // LShaped
		if cfg.Rand.Intn(2) == 0 {
			carveH(lay, x1, x2, y1)
			carveV(lay, y1, y2, x2)
		} else {
			carveV(lay, y1, y2, x1)
			carveH(lay, x1, x2, y2)
		}
	}
}

func carveH(lay *Layout, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		lay.carve(x, y)
	}
}

func carveV(lay *Layout, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		lay.carve(x, y)
	}
}

func carveZShaped(lay *Layout, x1, y1, x2, y2 int) {
	midY := (y1 + y2) / 2
	carveV(lay, y1, midY, x1)
	carveH(lay, x1, x2, midY)
	carveV(lay, midY, y2, x2)
}
