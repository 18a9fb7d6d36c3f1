package repotree

// SimplifyConflict reduces c to its simplest equivalent form: nested
// conflicts among its terms are flattened (a term that is itself a
// persisted Conflict is replaced by its own adds/removes, with signs
// inverted when the nested conflict appears as a Removes term), and then
// matching add/remove pairs are cancelled out one for one, in a single
// stable left-to-right pass.
//
// Flattening handles the case where one side of an outer three-way merge
// was already conflicted: its tree entry holds a Conflict value pointing
// at a persisted Conflict object rather than a plain file, and that
// object's own terms belong in the outer conflict, not behind another
// level of indirection.
//
// Cancellation handles the common case of a conflict being rebased back
// onto one of its own resolutions: {+A, -B, +{+B, -A, +C}} flattens to
// {+A, +B, +C, -A, -B}, and cancelling the (+A,-A) and (+B,-B) pairs
// leaves the single unambiguous {+C}.
func SimplifyConflict(store Store, c Conflict) (Conflict, error) {
	flattened, err := flattenConflict(store, c)
	if err != nil {
		return Conflict{}, err
	}
	adds, removes := cancelPairs(flattened.Adds, flattened.Removes)
	return Conflict{Adds: adds, Removes: removes}, nil
}

func flattenConflict(store Store, c Conflict) (Conflict, error) {
	var result Conflict
	for _, term := range c.Adds {
		adds, removes, err := flattenTerm(store, term, true)
		if err != nil {
			return Conflict{}, err
		}
		result.Adds = append(result.Adds, adds...)
		result.Removes = append(result.Removes, removes...)
	}
	for _, term := range c.Removes {
		adds, removes, err := flattenTerm(store, term, false)
		if err != nil {
			return Conflict{}, err
		}
		result.Adds = append(result.Adds, adds...)
		result.Removes = append(result.Removes, removes...)
	}
	return result, nil
}

// flattenTerm expands term, which sits on the add side of its containing
// conflict when onAddSide is true, into the adds/removes it ultimately
// contributes to the flattened top-level conflict. A term that is not
// itself a Conflict value contributes only itself, to whichever side it
// started on. A term that is a Conflict value contributes its own nested
// adds to the same side as term, and its own nested removes to the
// opposite side — removing something that is itself "add X, remove Y"
// amounts to removing X and (re-)adding Y.
func flattenTerm(store Store, term ConflictTerm, onAddSide bool) (adds, removes []ConflictTerm, err error) {
	if term.isAbsent() || term.Value.Kind != KindConflict {
		if onAddSide {
			return []ConflictTerm{term}, nil, nil
		}
		return nil, []ConflictTerm{term}, nil
	}

	nested, err := store.ReadConflict(term.Value.ConflictID)
	if err != nil {
		return nil, nil, wrapErr("read nested conflict", RootPath(), err)
	}

	for _, t := range nested.Adds {
		a, r, err := flattenTerm(store, t, onAddSide)
		if err != nil {
			return nil, nil, err
		}
		adds = append(adds, a...)
		removes = append(removes, r...)
	}
	for _, t := range nested.Removes {
		a, r, err := flattenTerm(store, t, !onAddSide)
		if err != nil {
			return nil, nil, err
		}
		adds = append(adds, a...)
		removes = append(removes, r...)
	}
	return adds, removes, nil
}

// cancelPairs removes one matching (add, remove) pair at a time, scanning
// adds in order and, for each, cancelling the first equal, not-yet-used
// remove it finds.
func cancelPairs(adds, removes []ConflictTerm) ([]ConflictTerm, []ConflictTerm) {
	used := make([]bool, len(removes))
	var keptAdds []ConflictTerm
	for _, add := range adds {
		cancelled := false
		for i, rem := range removes {
			if used[i] {
				continue
			}
			if add.equal(rem) {
				used[i] = true
				cancelled = true
				break
			}
		}
		if !cancelled {
			keptAdds = append(keptAdds, add)
		}
	}
	var keptRemoves []ConflictTerm
	for i, rem := range removes {
		if !used[i] {
			keptRemoves = append(keptRemoves, rem)
		}
	}
	return keptAdds, keptRemoves
}
