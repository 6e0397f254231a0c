package preedit

import "sort"

// availableLengths returns the distinct phrase lengths the source offers
// for phones starting at `from`, longest first, bounded by what remains in
// the buffer and by segment.MaxIntervalLen.
func (c *Controller) availableLengths(from int) []int {
	maxLen := len(c.phones) - from
	if maxLen > 11 {
		maxLen = 11
	}
	var lens []int
	for l := maxLen; l >= 1; l-- {
		if len(c.source.Candidates(c.phones[from:from+l])) > 0 {
			lens = append(lens, l)
		}
	}
	return lens
}

// openCandidatesAt opens the phrase candidate list for the span starting
// at `from` with the given length, populating c.candidate.
func (c *Controller) openCandidatesAt(from, length int) {
	cands := c.source.Candidates(c.phones[from : from+length])
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Freq > cands[j].Freq })
	choices := make([]string, len(cands))
	for i, cd := range cands {
		choices[i] = cd.Phrase
	}
	pageSize := c.cfg.CandidatesPerPage()
	totalPages := (len(choices) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	c.candidate = CandidatePage{
		Choices:      choices,
		PageSize:     pageSize,
		CurrentPage:  0,
		TotalPages:   totalPages,
		OriginCursor: c.cursor,
		targetFrom:   from,
		targetTo:     from + length,
	}
}

// OpenCandidates resolves a target position (cursor, or cursor-1 at end of
// buffer) and, if it is Chinese, opens phrase candidates at the longest
// available length. Symbol-category candidates belong to the host shell;
// opening candidates at a Symbol position is a no-op here.
func (c *Controller) OpenCandidates() {
	pos := c.cursor
	if pos >= len(c.items) {
		pos--
	}
	if pos < 0 || pos >= len(c.items) {
		return
	}
	if c.items[pos].Tag != ItemChinese {
		return
	}

	if c.mode == ModeCandidateSelection && c.candidate.targetFrom == pos {
		// Re-opening cycles through available phrase lengths; on wrap,
		// the page resets to 0.
		lens := c.availableLengths(pos)
		if len(lens) == 0 {
			return
		}
		idx := (c.candidate.lengthIdx + 1) % len(lens)
		c.openCandidatesAt(pos, lens[idx])
		c.candidate.lengths = lens
		c.candidate.lengthIdx = idx
		c.mode = ModeCandidateSelection
		return
	}

	lens := c.availableLengths(pos)
	if len(lens) == 0 {
		return
	}
	c.openCandidatesAt(pos, lens[0])
	c.candidate.lengths = lens
	c.candidate.lengthIdx = 0
	c.mode = ModeCandidateSelection
}

func (c *Controller) closeCandidates() {
	c.mode = ModeEditing
	c.candidate = CandidatePage{}
}

// chooseCandidateIndex applies a digit/selection-key pick: replace the
// span [targetFrom,targetTo) with the chosen phrase as a pinned interval,
// and close the candidate overlay.
func (c *Controller) chooseCandidateIndex(idx int) {
	absolute := c.candidate.CurrentPage*c.candidate.PageSize + idx
	if absolute < 0 || absolute >= len(c.candidate.Choices) {
		return
	}
	phrase := c.candidate.Choices[absolute]
	from, to := c.candidate.targetFrom, c.candidate.targetTo

	c.pinned = append(dropOverlapping(c.pinned, from, to), pinnedInterval{from: from, to: to, phrase: phrase})
	c.rewriteItemsForPinned(from, to, phrase)
	c.closeCandidates()

	// With auto-shift on, the cursor moves past the chosen phrase: by one
	// position when choosing rearward, by the whole span otherwise.
	cfg := c.cfg.Config()
	if cfg.AutoShiftCursor && c.cursor < len(c.items) {
		step := to - from
		if cfg.PhraseChoiceRearward {
			step = 1
		}
		c.cursor += step
		if c.cursor > len(c.items) {
			c.cursor = len(c.items)
		}
	}
	c.recompute()
}

func (c *Controller) nextPage() {
	if c.candidate.CurrentPage < c.candidate.TotalPages-1 {
		c.candidate.CurrentPage++
	}
}

func (c *Controller) prevPage() {
	if c.candidate.CurrentPage > 0 {
		c.candidate.CurrentPage--
	}
}

// CloseCandidates closes the candidate overlay without choosing.
func (c *Controller) CloseCandidates() { c.closeCandidates() }

// ChooseCandidate exposes the choose_by_index operation.
func (c *Controller) ChooseCandidate(idx int) { c.chooseCandidateIndex(idx) }

// FirstPage / LastPage implement the candidate-control first/last
// operations.
func (c *Controller) FirstPage() { c.candidate.CurrentPage = 0 }
func (c *Controller) LastPage() {
	if c.candidate.TotalPages > 0 {
		c.candidate.CurrentPage = c.candidate.TotalPages - 1
	}
}

// NextPage / PrevPage implement the candidate-control next/prev
// operations.
func (c *Controller) NextPage() { c.nextPage() }
func (c *Controller) PrevPage() { c.prevPage() }

// HasNextPage / HasPrevPage implement the candidate-control has_next/
// has_prev operations.
func (c *Controller) HasNextPage() bool {
	return c.mode == ModeCandidateSelection && c.candidate.CurrentPage < c.candidate.TotalPages-1
}
func (c *Controller) HasPrevPage() bool {
	return c.mode == ModeCandidateSelection && c.candidate.CurrentPage > 0
}

// InCandidateMode reports whether the candidate overlay is open.
func (c *Controller) InCandidateMode() bool { return c.mode == ModeCandidateSelection }
