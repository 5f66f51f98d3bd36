package booking

import (
	"ebw/src/config"
	"ebw/src/models"
	"ebw/src/types"
)

// SeatState maps a seat counter and whitelist flag to the availability
// tri-state. Full is <= 0, never == 0: counters can go negative under
// races at the persistence layer and must still read as full.
func SeatState(availableSeats int, whitelistEnabled bool) types.SectionState {
	if availableSeats > 0 {
		return types.SECTION_OPEN
	}
	if whitelistEnabled {
		return types.SECTION_FULL_WHITELIST
	}
	return types.SECTION_FULL_CLOSED
}

// Oracle computes availability for one event snapshot. It only reads
// seat numbers; mutating them is the persistence layer's job.
type Oracle struct {
	event  *models.Event
	states map[uint]types.SectionState
}

func NewOracle(event *models.Event) *Oracle {
	o := &Oracle{event: event, states: make(map[uint]types.SectionState, len(event.Sections))}
	for _, s := range event.Sections {
		o.states[s.ID] = SeatState(s.AvailableSeats, s.WhitelistEnabled)
	}
	return o
}

func (o *Oracle) SectionState(sectionID uint) (types.SectionState, bool) {
	st, ok := o.states[sectionID]
	return st, ok
}

func (o *Oracle) eventSeats() int {
	if o.event.MaxAttendees == nil {
		return 1
	}
	return int(*o.event.MaxAttendees) - int(o.event.CurrentAttendees)
}

// EventState is the single-event equivalent of a section state.
func (o *Oracle) EventState() types.SectionState {
	if o.event.MaxAttendees == nil {
		return types.SECTION_OPEN
	}
	return SeatState(o.eventSeats(), o.event.WhitelistEnabled)
}

// SoldOut reports whether no booking path remains at all. For a
// multi-section event that means every section is full_closed; a single
// full_whitelist section keeps the event bookable.
func (o *Oracle) SoldOut() bool {
	if o.event.IsMultiSection() {
		for _, st := range o.states {
			if st != types.SECTION_FULL_CLOSED {
				return false
			}
		}
		return true
	}
	return o.EventState() == types.SECTION_FULL_CLOSED
}

// SelectionClass returns the homogeneity class of a selection set. A set
// mixing full_whitelist and open sections is invalid; any full_closed
// member is invalid outright.
func (o *Oracle) SelectionClass(sel []SectionSelection) (types.SectionState, error) {
	if len(sel) == 0 {
		return "", ErrNoSelection
	}
	var class types.SectionState
	for _, item := range sel {
		st, ok := o.states[item.SectionID]
		if !ok {
			return "", ErrNoSelection
		}
		if st == types.SECTION_FULL_CLOSED {
			return "", ErrSectionClosed
		}
		if class == "" {
			class = st
			continue
		}
		if st != class {
			return "", ErrMixedSelection
		}
	}
	return class, nil
}

// Compatible reports whether adding a section keeps the selection
// homogeneous. Incompatible options are rejected at selection time, not
// at submission.
func (o *Oracle) Compatible(current []SectionSelection, sectionID uint) error {
	st, ok := o.states[sectionID]
	if !ok {
		return ErrNoSelection
	}
	if st == types.SECTION_FULL_CLOSED {
		return ErrSectionClosed
	}
	if len(current) == 0 {
		return nil
	}
	class, err := o.SelectionClass(current)
	if err != nil {
		return err
	}
	if st != class {
		return ErrMixedSelection
	}
	return nil
}

// ShouldWhitelist is true iff the resume bypass is not active and every
// selected section is whitelist-full (single-event: the event itself is
// full with the whitelist flag set).
func (o *Oracle) ShouldWhitelist(sel []SectionSelection, resumeBypass bool) bool {
	if resumeBypass {
		return false
	}
	if o.event.IsMultiSection() {
		if len(sel) == 0 {
			return false
		}
		for _, item := range sel {
			if o.states[item.SectionID] != types.SECTION_FULL_WHITELIST {
				return false
			}
		}
		return true
	}
	return o.EventState() == types.SECTION_FULL_WHITELIST
}

// MaxQuantity caps a selection at min(10, remaining capacity). A
// whitelist-full selection registers past capacity, so only the flat cap
// applies; a nil max_attendees is unlimited and likewise caps at 10 for
// UI sanity.
func (o *Oracle) MaxQuantity(sel []SectionSelection) int {
	limit := config.MaxTicketsPerBooking
	if o.event.IsMultiSection() {
		class, err := o.SelectionClass(sel)
		if err != nil {
			return 0
		}
		if class == types.SECTION_FULL_WHITELIST {
			return limit
		}
		capacity := 0
		for _, item := range sel {
			for _, s := range o.event.Sections {
				if s.ID == item.SectionID && s.AvailableSeats > 0 {
					capacity += s.AvailableSeats
				}
			}
		}
		if capacity < limit {
			return capacity
		}
		return limit
	}
	switch o.EventState() {
	case types.SECTION_FULL_CLOSED:
		return 0
	case types.SECTION_FULL_WHITELIST:
		return limit
	}
	if o.event.MaxAttendees == nil {
		return limit
	}
	if seats := o.eventSeats(); seats < limit {
		return seats
	}
	return limit
}
