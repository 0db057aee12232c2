package matching

import (
	"fmt"
	"time"
)

// Tier is one bracket of a threshold rule. Brackets are listed from the most
// restrictive down; the first whose Min the value reaches wins.
type Tier struct {
	Min    float64
	Points int
	Reason string
}

// Window is one bracket of a recency rule: the value must be no older than Within.
type Window struct {
	Within time.Duration
	Points int
	Reason string
}

// Outcome is what a fired rule contributes.
type Outcome struct {
	Points int
	Reason string
}

// flat fires with fixed points when cond holds.
func flat(name string, points int, reason string, cond func(*Subject) bool) Rule {
	return Rule{
		Name: name,
		Eval: func(s *Subject) (Outcome, bool) {
			if !cond(s) {
				return Outcome{}, false
			}
			return Outcome{Points: points, Reason: reason}, true
		},
	}
}

// overlap fires once when the preference-side and creator-side sets share at
// least one non-empty value.
func overlap(name string, points int, reason string, sets func(*Subject) (want, have []string)) Rule {
	return flat(name, points, reason, func(s *Subject) bool {
		want, have := sets(s)
		return intersects(want, have)
	})
}

// tiered fires with the single highest bracket the value reaches. value
// reports false when the input is absent.
func tiered(name string, value func(*Subject) (float64, bool), tiers []Tier) Rule {
	mustDescend(name, tiers)
	return Rule{
		Name: name,
		Eval: func(s *Subject) (Outcome, bool) {
			v, ok := value(s)
			if !ok {
				return Outcome{}, false
			}
			for _, t := range tiers {
				if v >= t.Min {
					if t.Points == 0 {
						return Outcome{}, false
					}
					return Outcome{Points: t.Points, Reason: t.Reason}, true
				}
			}
			return Outcome{}, false
		},
	}
}

// categorical maps a discrete value to its bracket. Unknown values score zero.
func categorical(name string, value func(*Subject) string, brackets map[string]Outcome) Rule {
	return Rule{
		Name: name,
		Eval: func(s *Subject) (Outcome, bool) {
			o, ok := brackets[value(s)]
			if !ok || o.Points == 0 {
				return Outcome{}, false
			}
			return o, true
		},
	}
}

// recency fires with the tightest window the timestamp falls into.
func recency(name string, at func(*Subject) *time.Time, windows []Window) Rule {
	for i := 1; i < len(windows); i++ {
		if windows[i].Within <= windows[i-1].Within {
			panic(fmt.Sprintf("matching: rule %q windows must widen", name))
		}
	}
	return Rule{
		Name: name,
		Eval: func(s *Subject) (Outcome, bool) {
			ts := at(s)
			if ts == nil || ts.IsZero() {
				return Outcome{}, false
			}
			age := s.Now.Sub(*ts)
			for _, w := range windows {
				if age <= w.Within {
					return Outcome{Points: w.Points, Reason: w.Reason}, true
				}
			}
			return Outcome{}, false
		},
	}
}

func mustDescend(name string, tiers []Tier) {
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Min >= tiers[i-1].Min {
			panic(fmt.Sprintf("matching: rule %q tiers must be ordered most restrictive first", name))
		}
	}
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// str dereferences an optional string, treating "" as absent.
func str(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

func num(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
