package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDListAppend(t *testing.T) {
	list := IDList{1, 2}

	list = list.Append(3)
	assert.Equal(t, IDList{1, 2, 3}, list)

	// Appending an existing id is a no-op
	list = list.Append(2)
	assert.Equal(t, IDList{1, 2, 3}, list)
}

func TestIDListRemove(t *testing.T) {
	list := IDList{1, 2, 3}

	list = list.Remove(2)
	assert.Equal(t, IDList{1, 3}, list)

	// Removing an absent id is a no-op
	list = list.Remove(42)
	assert.Equal(t, IDList{1, 3}, list)
}

func TestIDListInsertAt(t *testing.T) {
	list := IDList{1, 2, 3}

	assert.Equal(t, IDList{4, 1, 2, 3}, list.InsertAt(4, 0))
	assert.Equal(t, IDList{1, 4, 2, 3}, list.InsertAt(4, 1))
	assert.Equal(t, IDList{1, 2, 3, 4}, list.InsertAt(4, 3))
}

func TestIDListInsertAtClampsPosition(t *testing.T) {
	list := IDList{1, 2}

	assert.Equal(t, IDList{3, 1, 2}, list.InsertAt(3, -5))
	assert.Equal(t, IDList{1, 2, 3}, list.InsertAt(3, 99))
}

func TestIDListInsertAtMovesExistingID(t *testing.T) {
	list := IDList{1, 2, 3}

	// Inserting an id already in the list moves it rather than duplicating
	moved := list.InsertAt(3, 0)
	assert.Equal(t, IDList{3, 1, 2}, moved)
	assert.Len(t, moved, 3)
}

func TestIDListIntersect(t *testing.T) {
	list := IDList{1, 2, 3, 4}

	assert.Equal(t, IDList{2, 4}, list.Intersect(IDList{4, 2, 9}))
	assert.Empty(t, list.Intersect(IDList{}))
	assert.Empty(t, IDList{}.Intersect(list))
}

func TestIDListUnion(t *testing.T) {
	list := IDList{1, 2}

	union := list.Union(IDList{2, 3})
	assert.Equal(t, IDList{1, 2, 3}, union)
}

func TestIDListOpsDoNotMutateReceiver(t *testing.T) {
	list := IDList{1, 2, 3}

	_ = list.Append(4)
	_ = list.Remove(1)
	_ = list.InsertAt(5, 1)

	assert.Equal(t, IDList{1, 2, 3}, list)
}
