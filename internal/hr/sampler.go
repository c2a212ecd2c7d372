// Package hr implements the HR dataset sampler (C5): a deterministic,
// seeded generator of Personas, Conyuges (marriages), and Hijos (parent-
// child edges) subject to temporal feasibility constraints.
//
// This component is independent of the dispatcher core; it shares only the
// domain error taxonomy. Grounded on
// original_source/cencosud/question_1/random_generator.py, with the PRNG
// swapped from numpy's Mersenne Twister to math/rand/v2 (see DESIGN.md Open
// Question 5) — draw order is preserved, bit-exact output is not.
package hr

import (
	"math/rand/v2"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/domain"
)

// Persona is one sampled person.
type Persona struct {
	ID      int
	Name    string
	Rut     int
	DV      byte
	Birth   time.Time
	Death   *time.Time // nil if death falls beyond MaxDate
}

// Conyuge is one sampled marriage.
type Conyuge struct {
	ID          int
	Persona1ID  int
	Persona2ID  int
	Celebration time.Time
}

// Hijo is one parent-child edge. Each accepted child produces two of these,
// one per spouse.
type Hijo struct {
	ID       int
	ParentID int
	ChildID  int
}

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz "
const rutCheckDigits = "123456789k"

// defaultAttemptCap bounds the rejection loops in SampleConyuges and
// SampleHijos; see DESIGN.md Open Question 4.
const defaultAttemptCap = 100_000

// Sampler draws Personas, Conyuges and Hijos from one seeded generator. All
// three sampling methods share a single *rand.Rand so the draw sequence is
// reproducible given the same seed and call order.
type Sampler struct {
	rng        *rand.Rand
	minDate    time.Time
	maxDate    time.Time
	attemptCap int
}

// New builds a Sampler seeded deterministically from seed. attemptCap <= 0
// falls back to defaultAttemptCap.
func New(seed uint64, minDate, maxDate time.Time, attemptCap int) *Sampler {
	if attemptCap <= 0 {
		attemptCap = defaultAttemptCap
	}
	return &Sampler{
		rng:        rand.New(rand.NewPCG(seed, seed)),
		minDate:    minDate,
		maxDate:    maxDate,
		attemptCap: attemptCap,
	}
}

func (s *Sampler) sampleDate(min, max time.Time) time.Time {
	span := max.Sub(min)
	if span <= 0 {
		return min
	}
	offset := time.Duration(s.rng.Int64N(int64(span) + 1))
	return min.Add(offset)
}

func (s *Sampler) sampleDeathDate(birth time.Time) *time.Time {
	years := 80 + s.rng.NormFloat64()*10
	death := birth.Add(time.Duration(years*365) * 24 * time.Hour)
	if death.After(s.maxDate) {
		return nil
	}
	return &death
}

func (s *Sampler) sampleName() string {
	length := 2 + s.rng.IntN(99) // [2, 100]
	b := make([]byte, length)
	for i := range b {
		b[i] = nameAlphabet[s.rng.IntN(len(nameAlphabet))]
	}
	return string(b)
}

// SamplePersonas draws n Personas with ids [0, n).
func (s *Sampler) SamplePersonas(n int) []Persona {
	people := make([]Persona, n)
	for i := 0; i < n; i++ {
		birth := s.sampleDate(s.minDate, s.maxDate)
		people[i] = Persona{
			ID:    i,
			Name:  s.sampleName(),
			Rut:   s.rng.IntN(1 << 31),
			DV:    rutCheckDigits[s.rng.IntN(len(rutCheckDigits))],
			Birth: birth,
			Death: s.sampleDeathDate(birth),
		}
	}
	return people
}

// celebrationWindow computes the window [start, end] in which a marriage
// between p1 and p2 is feasible: both adults, both alive, not after MaxDate.
// Returns ok=false unless start is strictly before end.
func (s *Sampler) celebrationWindow(p1, p2 Persona) (start, end time.Time, ok bool) {
	adultAge := 18 * 365 * 24 * time.Hour
	later := p1.Birth
	if p2.Birth.After(later) {
		later = p2.Birth
	}
	start = later.Add(adultAge)

	end = s.maxDate
	if p1.Death != nil && p1.Death.Before(end) {
		end = *p1.Death
	}
	if p2.Death != nil && p2.Death.Before(end) {
		end = *p2.Death
	}

	return start, end, start.Before(end)
}

// SampleConyuges draws n marriages by rejection sampling: repeatedly pick
// two distinct personas and accept iff their celebration window is
// non-empty.
func (s *Sampler) SampleConyuges(personas []Persona, n int) ([]Conyuge, *domain.DomainError) {
	marriages := make([]Conyuge, 0, n)
	attempts := 0
	for len(marriages) < n {
		attempts++
		if attempts > s.attemptCap {
			return nil, domain.ErrSamplerCapExhausted.
				WithContext("stage", "conyuges").
				WithContext("attempt_cap", s.attemptCap).
				WithContext("requested", n).
				WithContext("accepted", len(marriages))
		}

		i, j := s.pickTwoDistinct(len(personas))
		p1, p2 := personas[i], personas[j]

		start, end, ok := s.celebrationWindow(p1, p2)
		if !ok {
			continue
		}

		marriages = append(marriages, Conyuge{
			ID:          len(marriages),
			Persona1ID:  p1.ID,
			Persona2ID:  p2.ID,
			Celebration: s.sampleDate(start, end),
		})
	}
	return marriages, nil
}

func (s *Sampler) pickTwoDistinct(n int) (int, int) {
	i := s.rng.IntN(n)
	j := s.rng.IntN(n)
	for j == i {
		j = s.rng.IntN(n)
	}
	return i, j
}

// SampleHijos draws n children by rejection sampling, each producing two
// parent-child edges (one per spouse) with consecutive ids.
func (s *Sampler) SampleHijos(personas []Persona, marriages []Conyuge, n int) ([]Hijo, *domain.DomainError) {
	edges := make([]Hijo, 0, 2*n)
	attempts := 0
	for len(edges) < 2*n {
		attempts++
		if attempts > s.attemptCap {
			return nil, domain.ErrSamplerCapExhausted.
				WithContext("stage", "hijos").
				WithContext("attempt_cap", s.attemptCap).
				WithContext("requested", n).
				WithContext("accepted", len(edges)/2)
		}

		m := marriages[s.rng.IntN(len(marriages))]
		child := personas[s.rng.IntN(len(personas))]

		if !child.Birth.After(m.Celebration) {
			continue
		}

		id := len(edges)
		edges = append(edges,
			Hijo{ID: id, ParentID: m.Persona1ID, ChildID: child.ID},
			Hijo{ID: id + 1, ParentID: m.Persona2ID, ChildID: child.ID},
		)
	}
	return edges, nil
}

// Sample draws personas, then conyuges, then hijos in that order from one
// seeded generator, matching the original's draw sequence.
func (s *Sampler) Sample(nPersonas, nConyuges, nHijos int) ([]Persona, []Conyuge, []Hijo, *domain.DomainError) {
	personas := s.SamplePersonas(nPersonas)

	conyuges, err := s.SampleConyuges(personas, nConyuges)
	if err != nil {
		return nil, nil, nil, err
	}

	hijos, err := s.SampleHijos(personas, conyuges, nHijos)
	if err != nil {
		return nil, nil, nil, err
	}

	return personas, conyuges, hijos, nil
}
