package engine

// Built-in level layouts. Legend: '.' floor, '#' rock, 'F' fruit, '*' frozen,
// '1'/'2' player starts, and one letter per enemy kind (W wanderer,
// P pursuer, C charger, A area-unfreezer, L line-unfreezer).
var builtinLevels = []*Layout{
	{
		Name:  "Orchard",
		Level: 1,
		Rows: []string{
			"#############",
			"#1...F...F..#",
			"#.##.....##.#",
			"#.F...W...F.#",
			"#....###....#",
			"#.F...P...F.#",
			"#.##.....##.#",
			"#..F...F...2#",
			"#############",
		},
		FruitTypes:   []FruitType{FruitBanana, FruitCherry},
		EnemyTickMs:  600,
		MatchSeconds: 120,
	},
	{
		Name:  "Thin Ice",
		Level: 2,
		Rows: []string{
			"#############",
			"#1.*.F.*.F..#",
			"#.#*****#...#",
			"#.F*.W.*F...#",
			"#..*.P.*....#",
			"#.F*...*F...#",
			"#.#*****#...#",
			"#..F.*.F...2#",
			"#############",
		},
		FruitTypes:   []FruitType{FruitCherry, FruitGrape},
		EnemyTickMs:  550,
		MatchSeconds: 150,
	},
	{
		Name:  "Roller Run",
		Level: 3,
		Rows: []string{
			"###############",
			"#1....F.....C.#",
			"#.###.....###.#",
			"#.F...###...F.#",
			"#...W.....P...#",
			"#.F...###...F.#",
			"#.###.....###.#",
			"#.C.....F....2#",
			"###############",
		},
		FruitTypes:   []FruitType{FruitGrape, FruitWatermelon},
		EnemyTickMs:  500,
		MatchSeconds: 150,
	},
	{
		Name:  "Thaw Machine",
		Level: 4,
		Rows: []string{
			"###############",
			"#1...*F*...F..#",
			"#.##*****##...#",
			"#.F.*.A.*..F..#",
			"#...*****.....#",
			"#.F...L....F..#",
			"#.##.....##.*.#",
			"#...F.*.F.*..2#",
			"###############",
		},
		FruitTypes:   []FruitType{FruitWatermelon, FruitPineapple},
		EnemyTickMs:  500,
		MatchSeconds: 180,
	},
	{
		Name:  "Deep Freeze",
		Level: 5,
		Rows: []string{
			"#################",
			"#1..F.*...*.F...#",
			"#.###.*****.###.#",
			"#.F.*..A.*...F..#",
			"#.*.###W###...*.#",
			"#...*..C....*...#",
			"#.F.*..L.*...F..#",
			"#.###.*****.###.#",
			"#...F.*...*.F..2#",
			"#################",
		},
		FruitTypes:   []FruitType{FruitBanana, FruitGrape, FruitPineapple},
		EnemyTickMs:  450,
		MatchSeconds: 180,
	},
}

// LayoutForLevel selects the built-in layout for a level number, defaulting
// to level 1 for unknown values.
func LayoutForLevel(level int) *Layout {
	for _, l := range builtinLevels {
		if l.Level == level {
			return l.Clone()
		}
	}
	return builtinLevels[0].Clone()
}

// BuiltinLevels returns copies of the compiled-in layouts in level order.
func BuiltinLevels() []*Layout {
	levels := make([]*Layout, 0, len(builtinLevels))
	for _, l := range builtinLevels {
		levels = append(levels, l.Clone())
	}
	return levels
}
