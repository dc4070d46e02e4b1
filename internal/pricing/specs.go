package pricing

// Validate checks a lattice spec: market invariants, step count, style and kind.
func (s LatticeSpec) Validate(op string) error {
	if err := s.MarketParameters.Validate(op); err != nil {
		return err
	}
	if s.Steps < 1 {
		return domainErrorf(op, "steps must be at least 1, got %d", s.Steps)
	}
	switch s.Style {
	case European, American:
	default:
		return domainErrorf(op, "unknown exercise style %q", string(s.Style))
	}
	return s.Kind.Validate(op)
}

// Validate checks a barrier spec. Zero volatility is rejected because the
// reflection exponent is undefined.
func (s BarrierSpec) Validate(op string) error {
	if err := s.MarketParameters.Validate(op); err != nil {
		return err
	}
	if !finite(s.Barrier) || s.Barrier <= 0 {
		return domainErrorf(op, "barrier level must be positive, got %g", s.Barrier)
	}
	if s.Volatility == 0 {
		return domainErrorf(op, "barrier options need positive volatility")
	}
	switch s.Direction {
	case Up, Down:
	default:
		return domainErrorf(op, "unknown barrier direction %q", string(s.Direction))
	}
	switch s.Knock {
	case In, Out:
	default:
		return domainErrorf(op, "unknown knock type %q", string(s.Knock))
	}
	return s.Kind.Validate(op)
}

// Breached reports whether the spot already sits on or beyond the barrier.
// Touching the barrier counts as a breach.
func (s BarrierSpec) Breached() bool {
	if s.Direction == Up {
		return s.Spot >= s.Barrier
	}
	return s.Spot <= s.Barrier
}

// Validate checks a binary spec.
func (s BinarySpec) Validate(op string) error {
	if err := s.MarketParameters.Validate(op); err != nil {
		return err
	}
	switch s.Payout {
	case Cash, Asset:
	default:
		return domainErrorf(op, "unknown payout mode %q", string(s.Payout))
	}
	if !finite(s.Amount) || s.Amount < 0 {
		return domainErrorf(op, "cash amount must be non-negative, got %g", s.Amount)
	}
	return s.Kind.Validate(op)
}

// CashAmount returns the cash paid in the money, defaulting to one unit.
func (s BinarySpec) CashAmount() float64 {
	if s.Amount == 0 {
		return 1
	}
	return s.Amount
}

// Validate checks a spread spec. The strikes must be positive and ordered.
func (s SpreadSpec) Validate(op string) error {
	if err := s.MarketParameters.ValidateUnderlying(op); err != nil {
		return err
	}
	if !finite(s.StrikeLow, s.StrikeHigh) || s.StrikeLow <= 0 || s.StrikeHigh <= 0 {
		return domainErrorf(op, "spread strikes must be positive, got %g/%g", s.StrikeLow, s.StrikeHigh)
	}
	if s.StrikeLow >= s.StrikeHigh {
		return domainErrorf(op, "strike_low %g must be below strike_high %g", s.StrikeLow, s.StrikeHigh)
	}
	switch s.Position {
	case BullCall, BullPut, BearCall, BearPut:
		return nil
	}
	return domainErrorf(op, "unknown spread position %q", string(s.Position))
}
