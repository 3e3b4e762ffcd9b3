package service

import "time"

// Clock pinning so date-sensitive tests are deterministic.

func (s *LedgerService) SetClock(now func() time.Time) { s.now = now }

func (s *LotSelectorService) SetClock(now func() time.Time) { s.now = now }

func (s *DividendService) SetClock(now func() time.Time) { s.now = now }

// OverweightFlag exposes the deviation classifier for boundary tests.
var OverweightFlag = overweightFlag
