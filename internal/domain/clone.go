package domain

// Clone returns a deep copy so callers can read a snapshot while the live
// state keeps changing.
func (s AggregateState) Clone() AggregateState {
	out := s
	out.Tables = cloneSlice(s.Tables, func(t BilliardTable) BilliardTable {
		if t.CurrentSession != nil {
			cs := t.CurrentSession.Clone()
			t.CurrentSession = &cs
		}
		return t
	})
	out.Sessions = cloneSlice(s.Sessions, TableSession.Clone)
	out.RetailItems = cloneSlice(s.RetailItems, nil)
	out.PriceCategories = cloneSlice(s.PriceCategories, nil)
	out.RetailSales = cloneSlice(s.RetailSales, nil)
	out.Orders = cloneSlice(s.Orders, func(o Order) Order {
		o.Items = cloneSlice(o.Items, nil)
		return o
	})
	return out
}

func (s TableSession) Clone() TableSession {
	if s.FixedDuration != nil {
		v := *s.FixedDuration
		s.FixedDuration = &v
	}
	if s.EndedElapsedMs != nil {
		v := *s.EndedElapsedMs
		s.EndedElapsedMs = &v
	}
	if s.EndTime != nil {
		v := *s.EndTime
		s.EndTime = &v
	}
	if s.TotalAmount != nil {
		v := *s.TotalAmount
		s.TotalAmount = &v
	}
	return s
}

func cloneSlice[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		if fn != nil {
			v = fn(v)
		}
		out[i] = v
	}
	return out
}
