package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs swaps the id generator for a predictable one.
func sequentialIDs(t *testing.T) {
	t.Helper()
	prev := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

// mealState builds Protein:{Chicken,Tofu}, Side:{Rice,Fries}.
func mealState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	p, err := s.AddList("Protein")
	require.NoError(t, err)
	pid := p.ID
	_, err = s.AddItem(pid, "Chicken")
	require.NoError(t, err)
	_, err = s.AddItem(pid, "Tofu")
	require.NoError(t, err)
	side, err := s.AddList("Side")
	require.NoError(t, err)
	sid := side.ID
	_, err = s.AddItem(sid, "Rice")
	require.NoError(t, err)
	_, err = s.AddItem(sid, "Fries")
	require.NoError(t, err)
	return s
}

func TestAddList_Validation(t *testing.T) {
	s := NewState()
	_, err := s.AddList("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, s.Lists)

	l, err := s.AddList("  Protein ")
	require.NoError(t, err)
	assert.Equal(t, "Protein", l.Name)
	assert.NotEmpty(t, l.ID)
	assert.NotNil(t, l.Items)
}

func TestIDsAreUnique(t *testing.T) {
	s := NewState()
	seen := map[string]bool{}
	l, err := s.AddList("Numbers")
	require.NoError(t, err)
	seen[l.ID] = true
	for i := 0; i < 200; i++ {
		it, err := s.AddItem(s.Lists[0].ID, fmt.Sprint(i))
		require.NoError(t, err)
		require.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
}

func TestRenameList(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)

	require.NoError(t, s.RenameList("id-1", "Main"))
	assert.Equal(t, "Main", s.Lists[0].Name)
	assert.ErrorIs(t, s.RenameList("id-1", ""), ErrEmptyName)
	assert.ErrorIs(t, s.RenameList("nope", "x"), ErrListNotFound)
}

func TestAddItem_Validation(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)

	_, err := s.AddItem("id-1", "")
	assert.ErrorIs(t, err, ErrEmptyValue)
	_, err = s.AddItem("missing", "Beef")
	assert.ErrorIs(t, err, ErrListNotFound)

	it, err := s.AddItem("id-1", "Beef")
	require.NoError(t, err)
	assert.Equal(t, "Beef", it.Value)
	assert.Equal(t, []string{"Chicken", "Tofu", "Beef"}, values(s.Lists[0]))
}

func TestFindListAndItem(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)

	l, err := s.FindList("side")
	require.NoError(t, err)
	assert.Equal(t, "Side", l.Name)

	l, err = s.FindList("1")
	require.NoError(t, err)
	assert.Equal(t, "Protein", l.Name)

	l, err = s.FindList("id-4")
	require.NoError(t, err)
	assert.Equal(t, "Side", l.Name)

	_, err = s.FindList("3")
	assert.ErrorIs(t, err, ErrListNotFound)

	it, err := l.FindItem("FRIES")
	require.NoError(t, err)
	assert.Equal(t, "id-6", it.ID)

	it, err = l.FindItem("1")
	require.NoError(t, err)
	assert.Equal(t, "Rice", it.Value)

	_, err = l.FindItem("Tofu")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestAddInvalidCombination(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	// ids: Protein=id-1 {Chicken=id-2, Tofu=id-3}, Side=id-4 {Rice=id-5, Fries=id-6}

	t.Run("needs two lists", func(t *testing.T) {
		_, err := s.AddInvalidCombination("x", []Selection{
			{ListID: "id-1", ItemID: "id-2"},
			{ListID: "id-1", ItemID: "id-3"},
		})
		assert.ErrorIs(t, err, ErrTooFewLists)
		_, err = s.AddInvalidCombination("x", nil)
		assert.ErrorIs(t, err, ErrTooFewLists)
	})

	t.Run("unknown references", func(t *testing.T) {
		_, err := s.AddInvalidCombination("x", []Selection{
			{ListID: "id-1", ItemID: "id-5"},
			{ListID: "id-4", ItemID: "id-6"},
		})
		assert.ErrorIs(t, err, ErrItemNotFound)
		_, err = s.AddInvalidCombination("x", []Selection{
			{ListID: "gone", ItemID: "id-5"},
		})
		assert.ErrorIs(t, err, ErrListNotFound)
	})

	t.Run("copies values and collapses duplicates", func(t *testing.T) {
		ic, err := s.AddInvalidCombination("", []Selection{
			{ListID: "id-1", ItemID: "id-3", Value: "stale"},
			{ListID: "id-4", ItemID: "id-6"},
			{ListID: "id-4", ItemID: "id-6"},
		})
		require.NoError(t, err)
		assert.Equal(t, []Selection{
			{ListID: "id-1", ItemID: "id-3", Value: "Tofu"},
			{ListID: "id-4", ItemID: "id-6", Value: "Fries"},
		}, ic.Items)
		assert.Equal(t, "Protein: Tofu + Side: Fries", ic.Name)
	})

	assert.Len(t, s.InvalidCombinations, 1)
}

func TestDisplayName_MultipleItemsPerList(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	ic, err := s.AddInvalidCombination("", []Selection{
		{ListID: "id-1", ItemID: "id-3"},
		{ListID: "id-4", ItemID: "id-5"},
		{ListID: "id-4", ItemID: "id-6"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Protein: Tofu + Side: [Rice, Fries]", ic.Name)
	assert.Equal(t, []string{"id-1", "id-4"}, ic.ListIDs())
}

func TestUpdateInvalidCombination(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	ic, err := s.AddInvalidCombination("no tofu fries", []Selection{
		{ListID: "id-1", ItemID: "id-3"},
		{ListID: "id-4", ItemID: "id-6"},
	})
	require.NoError(t, err)
	id := ic.ID

	require.NoError(t, s.UpdateInvalidCombination(id, "", []Selection{
		{ListID: "id-1", ItemID: "id-2"},
		{ListID: "id-4", ItemID: "id-5"},
	}))
	got := s.InvalidCombination(id)
	require.NotNil(t, got)
	assert.Equal(t, "no tofu fries", got.Name)
	assert.Equal(t, "Chicken", got.Items[0].Value)

	err = s.UpdateInvalidCombination(id, "", []Selection{{ListID: "id-1", ItemID: "id-2"}})
	assert.ErrorIs(t, err, ErrTooFewLists)
	assert.Len(t, s.InvalidCombination(id).Items, 2, "failed update leaves the rule intact")

	assert.ErrorIs(t, s.UpdateInvalidCombination("nope", "", nil), ErrRuleNotFound)
}

func TestDeleteInvalidCombination(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	ic, err := s.AddInvalidCombination("", []Selection{
		{ListID: "id-1", ItemID: "id-3"},
		{ListID: "id-4", ItemID: "id-6"},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteInvalidCombination(ic.ID))
	assert.Empty(t, s.InvalidCombinations)
	assert.ErrorIs(t, s.DeleteInvalidCombination(ic.ID), ErrRuleNotFound)
}

func TestUpdateItem_RefreshesRuleValues(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	_, err := s.AddInvalidCombination("r", []Selection{
		{ListID: "id-1", ItemID: "id-3"},
		{ListID: "id-4", ItemID: "id-6"},
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateItem("id-1", "id-3", "Tempeh"))
	assert.Equal(t, "Tempeh", s.Lists[0].Items[1].Value)
	assert.Equal(t, "Tempeh", s.InvalidCombinations[0].Items[0].Value)

	assert.ErrorIs(t, s.UpdateItem("id-1", "id-3", " "), ErrEmptyValue)
	assert.ErrorIs(t, s.UpdateItem("id-1", "id-6", "x"), ErrItemNotFound)
	assert.ErrorIs(t, s.UpdateItem("zz", "id-6", "x"), ErrListNotFound)
}

func TestDeleteItem_PrunesRules(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	_, err := s.AddInvalidCombination("r", []Selection{
		{ListID: "id-1", ItemID: "id-3"},
		{ListID: "id-4", ItemID: "id-5"},
		{ListID: "id-4", ItemID: "id-6"},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem("id-4", "id-6"))
	assert.Equal(t, []string{"Rice"}, values(s.Lists[1]))
	require.Len(t, s.InvalidCombinations, 1)
	assert.Len(t, s.InvalidCombinations[0].Items, 2)

	assert.ErrorIs(t, s.DeleteItem("id-4", "id-6"), ErrItemNotFound)
	assert.ErrorIs(t, s.DeleteItem("nope", "id-6"), ErrListNotFound)
}

func TestDeleteList_PrunesRules(t *testing.T) {
	sequentialIDs(t)
	s := mealState(t)
	_, err := s.AddInvalidCombination("r", []Selection{
		{ListID: "id-1", ItemID: "id-3"},
		{ListID: "id-4", ItemID: "id-6"},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteList("id-4"))
	require.Len(t, s.Lists, 1)
	require.Len(t, s.InvalidCombinations, 1)
	assert.Equal(t, []string{"id-1"}, s.InvalidCombinations[0].ListIDs())

	require.NoError(t, s.DeleteList("id-1"))
	assert.Empty(t, s.InvalidCombinations, "rules with no entries left are dropped")
	assert.ErrorIs(t, s.DeleteList("id-1"), ErrListNotFound)
}

func TestPushHistory_CapsAtLimit(t *testing.T) {
	s := NewState()
	for i := 1; i <= 6; i++ {
		s.PushHistory(Combination{{ListID: "l", ItemID: fmt.Sprint(i)}})
	}
	require.Len(t, s.History, HistoryLimit)
	assert.Equal(t, "6", s.History[0][0].ItemID, "most recent first")
	assert.Equal(t, "2", s.History[4][0].ItemID)
	for _, c := range s.History {
		assert.NotEqual(t, "1", c[0].ItemID, "oldest draw evicted")
	}

	s.ClearHistory()
	assert.Empty(t, s.History)
}

func TestPushHistory_CopiesInput(t *testing.T) {
	s := NewState()
	c := Combination{{ListID: "l", ItemID: "a"}}
	s.PushHistory(c)
	c[0].ItemID = "b"
	assert.Equal(t, "a", s.History[0][0].ItemID)
}

func TestNormalize(t *testing.T) {
	s := &State{
		Lists:               []List{{ID: "x", Name: "X"}},
		InvalidCombinations: []InvalidCombination{{ID: "r"}},
	}
	s.Normalize()
	assert.NotNil(t, s.History)
	assert.NotNil(t, s.Lists[0].Items)
	assert.NotNil(t, s.InvalidCombinations[0].Items)

	s = &State{}
	s.Normalize()
	assert.NotNil(t, s.InvalidCombinations)
}

func values(l List) []string {
	out := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		out = append(out, it.Value)
	}
	return out
}
