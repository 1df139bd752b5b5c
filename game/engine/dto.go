package engine

// BoardDTO is the serializable board descriptor sent to external observers
// and embedded in persistence snapshots. Rows use the layout legend with
// characters stripped: rock, fruit, frozen, floor.
type BoardDTO struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Rows       []string      `json:"rows"`
	FruitsLeft int           `json:"fruitsLeft"`
	RoundsLeft int           `json:"roundsLeft"`
	Fruit      FruitType     `json:"fruit,omitempty"`
	Players    []PlayerDTO   `json:"players"`
	Enemies    []EnemyUpdate `json:"enemies"`
}

// DTO produces the board's full snapshot descriptor.
func (b *Board) DTO() BoardDTO {
	dto := BoardDTO{
		Width:      b.width,
		Height:     b.height,
		Rows:       b.serializeRows(),
		FruitsLeft: b.fruitsLeft,
		RoundsLeft: len(b.pendingRounds),
		Players:    []PlayerDTO{b.host.DTO(), b.guest.DTO()},
	}
	if kind, ok := b.ActiveFruit(); ok {
		dto.Fruit = kind
	}
	for _, agent := range b.Enemies() {
		dto.Enemies = append(dto.Enemies, agent.Update())
	}
	return dto
}

// serializeRows renders static cell content (items and ice, not characters)
// back into layout-legend rows.
func (b *Board) serializeRows() []string {
	rows := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		row := make([]byte, b.width)
		for x := 0; x < b.width; x++ {
			cell := b.cells[y][x]
			switch {
			case cell.Item() != nil && cell.Item().Type() == ItemRock:
				row[x] = tileRock
			case cell.Item() != nil && cell.Item().Type() == ItemFruit:
				row[x] = tileFruit
			case cell.Frozen():
				row[x] = tileFrozen
			default:
				row[x] = tileFloor
			}
		}
		rows[y] = string(row)
	}
	return rows
}
