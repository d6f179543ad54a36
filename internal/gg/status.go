package gg

import "fmt"

// StoreStatus summarizes the state of the data tree for `goodgood status`.
type StoreStatus struct {
	Latest       string   // date in the latest pointer, empty if none
	IndexedDates int      // entries in the index
	Records      int      // record files present
	Unindexed    []string // records missing from the index
	Dangling     []string // index entries without a record
	LatestBroken bool     // pointer missing while records exist, or naming a date without a record
}

// Consistent reports whether the index and pointer agree with the records.
func (s *StoreStatus) Consistent() bool {
	return len(s.Unindexed) == 0 && len(s.Dangling) == 0 && !s.LatestBroken
}

// Inspect compares the index and latest pointer against the stored records.
// An inconsistency is the residue of a run that stopped between steps;
// Store.Rebuild repairs it.
func Inspect(store Store) (*StoreStatus, error) {
	dates, err := store.Dates()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	idx, err := store.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	latest, err := store.Latest()
	if err != nil {
		return nil, fmt.Errorf("reading latest pointer: %w", err)
	}

	status := &StoreStatus{
		IndexedDates: len(idx.Dates),
		Records:      len(dates),
	}

	onDisk := make(map[string]bool, len(dates))
	for _, d := range dates {
		onDisk[d] = true
		if !idx.Contains(d) {
			status.Unindexed = append(status.Unindexed, d)
		}
	}
	for _, d := range idx.Dates {
		if !onDisk[d] {
			status.Dangling = append(status.Dangling, d)
		}
	}

	if latest != nil {
		status.Latest = latest.Date
	}
	// The pointer names the last produced date, which need not be the newest
	// one: regenerating a past date moves it back.
	if status.Latest == "" {
		status.LatestBroken = len(dates) > 0
	} else {
		status.LatestBroken = !onDisk[status.Latest]
	}

	return status, nil
}
