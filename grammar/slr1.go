package grammar

// genSLR1LookAheads gives every reducible item FOLLOW of the LHS of its production.
func (m *LookaheadMachine) genSLR1LookAheads(first *firstSet) error {
	follow, err := genFollowSet(m.lr0.gram.productionSet, first)
	if err != nil {
		return err
	}

	for _, state := range m.lr0.states {
		for _, item := range state.reducible {
			flw, err := follow.find(item.prod.lhs)
			if err != nil {
				return err
			}
			mergeSet(m.lookAheadSet(state.num, item.key()), flw.symbols)
		}
	}

	return nil
}
