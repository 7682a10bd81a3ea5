package models

// Order-list operations. A parent's order list is the sole source of child
// display order; these helpers keep every mutation path consistent about
// duplicates and index bounds. All of them return a new slice and leave the
// receiver untouched, so a caller can abandon a failed update without
// corrupting the loaded record.

// Contains reports whether id is present in the list.
func (l IDList) Contains(id uint64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Append pushes id to the end of the list. Adding an id that is already
// present is a no-op: order lists never hold duplicates.
func (l IDList) Append(id uint64) IDList {
	if l.Contains(id) {
		return l.clone()
	}
	out := make(IDList, 0, len(l)+1)
	out = append(out, l...)
	return append(out, id)
}

// Remove deletes id by value. Removing an absent id is a no-op.
func (l IDList) Remove(id uint64) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// InsertAt splices id into the list at index, clamped to [0, len]. An id
// already present is first removed so the splice relocates rather than
// duplicates.
func (l IDList) InsertAt(id uint64, index int) IDList {
	base := l.Remove(id)
	if index < 0 {
		index = 0
	}
	if index > len(base) {
		index = len(base)
	}
	out := make(IDList, 0, len(base)+1)
	out = append(out, base[:index]...)
	out = append(out, id)
	return append(out, base[index:]...)
}

// Intersect keeps the ids of l that are also present in other, preserving
// l's order.
func (l IDList) Intersect(other IDList) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if other.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Union appends the ids of other that l does not already hold.
func (l IDList) Union(other IDList) IDList {
	out := l.clone()
	for _, v := range other {
		if !out.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

func (l IDList) clone() IDList {
	out := make(IDList, len(l))
	copy(out, l)
	return out
}
