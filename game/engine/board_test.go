package engine

import (
	"errors"
	"sync"
	"testing"
)

// recorder captures notified events for assertions. Safe for concurrent use
// so scheduler tests can share it with enemy drivers.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) byType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func testLayout(rows ...string) *Layout {
	return &Layout{
		Name:         "test",
		Level:        1,
		Rows:         rows,
		FruitTypes:   []FruitType{FruitBanana},
		EnemyTickMs:  500,
		MatchSeconds: 60,
	}
}

func newTestBoard(t *testing.T, layout *Layout) (*Board, *recorder) {
	t.Helper()
	rec := &recorder{}
	board, err := NewBoard(layout, "host", "guest", rec)
	if err != nil {
		t.Fatalf("failed to build board: %v", err)
	}
	return board, rec
}

// assertOccupancy checks the cell/character consistency invariant: every
// character found in a cell slot points back at that cell, and no character
// occupies two slots.
func assertOccupancy(t *testing.T, b *Board) {
	t.Helper()
	seen := make(map[string]*Cell)
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			cell := b.CellAt(x, y)
			ch := cell.Character()
			if ch == nil {
				continue
			}
			if ch.Cell() != cell {
				t.Errorf("character %s in cell (%d,%d) points at a different cell", ch.ID(), x, y)
			}
			if prev, ok := seen[ch.ID()]; ok {
				t.Errorf("character %s occupies both %v and (%d,%d)", ch.ID(), prev.Coord(), x, y)
			}
			seen[ch.ID()] = cell
		}
	}
}

func TestNewBoard_Initialize(t *testing.T) {
	layout := testLayout(
		"######",
		"#1W.F#",
		"#2.*.#",
		"######",
	)
	b, _ := newTestBoard(t, layout)

	if b.Width() != 6 || b.Height() != 4 {
		t.Errorf("expected 6x4 board, got %dx%d", b.Width(), b.Height())
	}

	if b.CellAt(1, 1).Character() != b.Host() {
		t.Error("host not placed at its start")
	}
	if b.CellAt(1, 2).Character() != b.Guest() {
		t.Error("guest not placed at its start")
	}
	if !b.CellAt(3, 2).Frozen() {
		t.Error("frozen cell not iced over")
	}
	if b.CellAt(0, 0).Item() == nil || !b.CellAt(0, 0).Item().Blocks() {
		t.Error("border rock missing")
	}
	if fruit := b.CellAt(4, 1).Item(); fruit == nil || fruit.Type() != ItemFruit {
		t.Error("fruit not spawned at its coordinate")
	}

	enemies := b.Enemies()
	if len(enemies) != 1 {
		t.Fatalf("expected 1 enemy, got %d", len(enemies))
	}
	if enemies[0].Kind() != KindWanderer {
		t.Errorf("expected wanderer, got %s", enemies[0].Kind())
	}

	if b.FruitsLeft() != 1 {
		t.Errorf("expected 1 fruit left, got %d", b.FruitsLeft())
	}
	if b.RoundsLeft() != 1 {
		t.Errorf("expected 1 round left, got %d", b.RoundsLeft())
	}
	assertOccupancy(t, b)
}

func TestBoard_CellAt_OffBoard(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"####",
		"#12#",
		"#F.#",
		"####",
	))

	for _, at := range []Coord{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 4, Y: 0}, {X: 0, Y: 4}} {
		if b.CellAt(at.X, at.Y) != nil {
			t.Errorf("expected nil cell at %v", at)
		}
	}
}

func TestBoard_Player(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"####",
		"#12#",
		"#F.#",
		"####",
	))

	if _, err := b.Player("host"); err != nil {
		t.Errorf("host lookup failed: %v", err)
	}
	if _, err := b.Player("nobody"); !errors.Is(err, ErrUserNotDefined) {
		t.Errorf("expected ErrUserNotDefined, got %v", err)
	}
}

func TestMovePlayer_Rejections(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"#####",
		"#1*.#",
		"#2.F#",
		"#####",
	))

	tests := []struct {
		name      string
		playerID  string
		direction Direction
		wantErr   error
	}{
		{"unknown player", "nobody", Right, ErrUserNotDefined},
		{"into rock", "host", Up, ErrBlockedCell},
		{"into ice", "host", Right, ErrBlockedCell},
		{"into living partner", "host", Down, ErrBlockedCell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.MovePlayer(tt.playerID, tt.direction); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	assertOccupancy(t, b)
}

func TestMovePlayer_DeadPlayerCannotMove(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"####",
		"#12#",
		"#F.#",
		"####",
	))

	b.Host().Die()
	if err := b.MovePlayer("host", Down); !errors.Is(err, ErrPlayerDead) {
		t.Errorf("expected ErrPlayerDead, got %v", err)
	}
}

func TestMovePlayer_IntoEnemyDiesInPlace(t *testing.T) {
	b, rec := newTestBoard(t, testLayout(
		"######",
		"#1W.F#",
		"#2...#",
		"######",
	))

	if err := b.MovePlayer("host", Right); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Host().Alive() {
		t.Error("expected host to die on enemy contact")
	}
	if b.Host().Cell() != b.CellAt(1, 1) {
		t.Error("expected host to die in place")
	}
	if got := rec.byType(EventUpdateState); len(got) != 1 {
		t.Errorf("expected 1 state event, got %d", len(got))
	}
	assertOccupancy(t, b)
}

func TestMovePlayer_RevivesDeadPartner(t *testing.T) {
	b, rec := newTestBoard(t, testLayout(
		"#####",
		"#12.#",
		"#.F.#",
		"#####",
	))

	b.Host().Die()
	if b.CheckLose() {
		t.Error("one dead player must not lose the match")
	}

	if err := b.MovePlayer("guest", Left); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Host().Alive() {
		t.Error("expected host to be revived by partner touch")
	}
	// The touch revives; the guest does not displace the partner.
	if b.Guest().Cell() != b.CellAt(2, 1) {
		t.Error("expected guest to stay in place after reviving")
	}
	if got := rec.byType(EventUpdateState); len(got) != 1 {
		t.Errorf("expected 1 state event, got %d", len(got))
	}
	assertOccupancy(t, b)
}

func TestCheckLose_BothPlayersDead(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"####",
		"#12#",
		"#F.#",
		"####",
	))

	b.Host().Die()
	b.Guest().Die()
	if !b.CheckLose() {
		t.Error("expected loss with both players dead")
	}
}

func TestFruitRounds_RespawnAndWin(t *testing.T) {
	layout := testLayout(
		"#####",
		"#1F.#",
		"#.F.#",
		"#2..#",
		"#####",
	)
	layout.FruitTypes = []FruitType{FruitBanana, FruitCherry}
	b, rec := newTestBoard(t, layout)

	if b.RoundsLeft() != 2 || b.FruitsLeft() != 2 {
		t.Fatalf("expected 2 rounds of 2 fruits, got rounds=%d fruits=%d", b.RoundsLeft(), b.FruitsLeft())
	}
	if kind, _ := b.ActiveFruit(); kind != FruitBanana {
		t.Errorf("expected banana round first, got %s", kind)
	}

	// Round one: collect both fruits; the second respawns round two.
	if err := b.MovePlayer("host", Right); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if b.FruitsLeft() != 1 {
		t.Errorf("expected 1 fruit left, got %d", b.FruitsLeft())
	}
	if err := b.MovePlayer("host", Down); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if b.RoundsLeft() != 1 {
		t.Errorf("expected round two active, got %d rounds left", b.RoundsLeft())
	}
	if kind, _ := b.ActiveFruit(); kind != FruitCherry {
		t.Errorf("expected cherry round, got %s", kind)
	}
	if b.FruitsLeft() != 2 {
		t.Errorf("expected respawned round of 2 fruits, got %d", b.FruitsLeft())
	}

	// Round two: the fruit under the host is collected on re-entry.
	if err := b.MovePlayer("host", Up); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if err := b.MovePlayer("host", Down); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	if !b.CheckWin() {
		t.Error("expected win after clearing every round")
	}
	if b.FruitsPicked() != 4 {
		t.Errorf("expected 4 fruits picked, got %d", b.FruitsPicked())
	}
	if len(rec.byType(EventUpdateAll)) == 0 {
		t.Error("expected full snapshot broadcasts")
	}
	assertOccupancy(t, b)
}

func TestBoard_DTO(t *testing.T) {
	b, _ := newTestBoard(t, testLayout(
		"######",
		"#1W.F#",
		"#2.*.#",
		"######",
	))

	dto := b.DTO()
	if dto.Width != 6 || dto.Height != 4 {
		t.Errorf("unexpected dimensions %dx%d", dto.Width, dto.Height)
	}
	if len(dto.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(dto.Players))
	}
	if len(dto.Enemies) != 1 {
		t.Fatalf("expected 1 enemy, got %d", len(dto.Enemies))
	}
	if dto.Fruit != FruitBanana {
		t.Errorf("expected active banana round, got %s", dto.Fruit)
	}
	if dto.Rows[2][3] != tileFrozen {
		t.Errorf("expected frozen tile in serialized rows, got %q", dto.Rows[2][3])
	}
	if dto.Rows[1][4] != tileFruit {
		t.Errorf("expected fruit tile in serialized rows, got %q", dto.Rows[1][4])
	}
}
