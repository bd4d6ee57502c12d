package simulator

import "github.com/nihei9/goantlr-atn/prediction"

// computeReachSet advances every config in configs by one input symbol
// t, then closes the result (spec.md §4.6 "Reach advances consuming
// transitions by one input symbol, producing a new configuration set,
// then closes it"). Returns nil if no config can advance.
func (s *ParserATNSimulator) computeReachSet(configs *prediction.ConfigSet, t int, fullCtx bool) (*prediction.ConfigSet, error) {
	reach := prediction.NewConfigSet(prediction.Lookup, fullCtx)
	closureBusy := map[closureKey]bool{}

	minVocab := 0
	maxVocab := s.ATN.MaxTokenType

	for _, c := range configs.Configs() {
		for _, tr := range c.State.Transitions {
			if tr.IsEpsilon() {
				continue
			}
			if !tr.Matches(t, minVocab, maxVocab) {
				continue
			}
			newCfg := c.Clone()
			newCfg.State = tr.Target
			if err := s.closure(newCfg, reach, closureBusy, fullCtx, s.ContextCache); err != nil {
				return nil, err
			}
		}
	}

	if reach.Len() == 0 {
		return nil, nil
	}
	return reach, nil
}
