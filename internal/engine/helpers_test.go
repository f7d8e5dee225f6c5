package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/idilsaglam/combo/internal/model"
)

// meal returns Protein:{Chicken,Tofu} and Side:{Rice,Fries} with readable ids.
func meal() []model.List {
	return []model.List{
		{ID: "protein", Name: "Protein", Items: []model.Item{
			{ID: "chicken", Value: "Chicken"},
			{ID: "tofu", Value: "Tofu"},
		}},
		{ID: "side", Name: "Side", Items: []model.Item{
			{ID: "rice", Value: "Rice"},
			{ID: "fries", Value: "Fries"},
		}},
	}
}

func sel(list, item string) model.Selection {
	return model.Selection{ListID: list, ItemID: item}
}

func rule(items ...model.Selection) model.InvalidCombination {
	return model.InvalidCombination{ID: "r", Name: "r", Items: items}
}

func newRand() *rand.Rand { return rand.New(rand.NewPCG(42, 42)) }

// fixedSource replays values, cycling when exhausted.
type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func itemIDs(c model.Combination) []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.ItemID
	}
	return out
}

func requireValid(t *testing.T, c model.Combination, rules []model.InvalidCombination) {
	t.Helper()
	if IsInvalid(c, rules) {
		t.Fatalf("combination %v matches a rule", itemIDs(c))
	}
}
