package engine

import "fmt"

// ItemType distinguishes static board content.
type ItemType string

const (
	ItemFruit ItemType = "fruit"
	ItemRock  ItemType = "rock"
)

// FruitType is the flavor of a fruit round.
type FruitType string

const (
	FruitBanana     FruitType = "banana"
	FruitCherry     FruitType = "cherry"
	FruitGrape      FruitType = "grape"
	FruitWatermelon FruitType = "watermelon"
	FruitPineapple  FruitType = "pineapple"
)

// KnownFruitTypes lists every fruit type a layout may reference.
var KnownFruitTypes = []FruitType{
	FruitBanana, FruitCherry, FruitGrape, FruitWatermelon, FruitPineapple,
}

// Item is static cell content. Fruit is consumable and never blocks; Rock is
// immovable and never removable.
type Item interface {
	Type() ItemType
	Blocks() bool
	Consumable() bool
}

// Fruit is a collectible item.
type Fruit struct {
	Kind FruitType
}

func (f *Fruit) Type() ItemType   { return ItemFruit }
func (f *Fruit) Blocks() bool     { return false }
func (f *Fruit) Consumable() bool { return true }

// Rock is an immovable obstacle.
type Rock struct{}

func (r *Rock) Type() ItemType   { return ItemRock }
func (r *Rock) Blocks() bool     { return true }
func (r *Rock) Consumable() bool { return false }

// NewItem constructs static cell content by type. Fruit carries the given
// kind; Rock ignores it. A type outside the known set is a configuration
// error.
func NewItem(t ItemType, kind FruitType) (Item, error) {
	switch t {
	case ItemFruit:
		return &Fruit{Kind: kind}, nil
	case ItemRock:
		return &Rock{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidItemType, t)
}
