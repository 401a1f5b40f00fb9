package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/lineal/kinsim/catalog"
	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/logger"
)

// State tracks tree expansion progress.
type State int

const (
	// StateNew means Build has not run yet.
	StateNew State = iota
	// StateSeeded means the two roots are inserted.
	StateSeeded
	// StateExpanding means the pending-parent queue is being drained.
	StateExpanding
	// StateComplete means the queue emptied; the population is final.
	StateComplete
)

// Options configures tree generation.
type Options struct {
	Seed         int64 // 0 = derive from current time
	SeedYear     int   // birth year of the two roots
	HorizonYear  int   // no births after this year
	MinParentAge int
	MaxParentAge int
}

// DefaultOptions mirrors the config package defaults.
func DefaultOptions() Options {
	return Options{
		SeedYear:     1950,
		HorizonYear:  2120,
		MinParentAge: 25,
		MaxParentAge: 45,
	}
}

// Tree owns the population and drives breadth-first expansion.
//
// Expansion uses an explicit FIFO queue of pending-parent IDs over an
// append-only store rather than recursion, so memory tracks the current
// generation frontier instead of call-stack depth.
type Tree struct {
	factory *Factory
	rng     *rand.Rand
	opts    Options

	people map[int64]*Person
	order  []int64 // insertion order, for deterministic snapshots

	rootLastNames [2]string
	state         State
	seed          int64
}

type coupleKey struct {
	a, b int64
}

// New creates a tree over the given catalogs. A zero Options.Seed is
// replaced with the current time so repeated casual runs differ; pass an
// explicit seed for reproducible trees.
func New(catalogs *catalog.Catalogs, opts Options) *Tree {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return &Tree{
		factory: NewFactory(catalogs, rng),
		rng:     rng,
		opts:    opts,
		people:  make(map[int64]*Person),
		seed:    seed,
		state:   StateNew,
	}
}

// Seed returns the seed actually used for generation.
func (t *Tree) Seed() int64 { return t.seed }

// State returns the current expansion state.
func (t *Tree) State() State { return t.state }

// Options returns the generation options.
func (t *Tree) Options() Options { return t.opts }

// Build generates the full population. It may be called once per Tree.
func (t *Tree) Build() error {
	if t.state != StateNew {
		return errors.AssertionFailedf("tree already built (state %d)", t.state)
	}

	queue, err := t.seedRoots()
	if err != nil {
		return err
	}
	t.state = StateExpanding

	visited := make(map[coupleKey]bool)
	steps := 0

	for len(queue) > 0 {
		pid := queue[0]
		queue = queue[1:]
		steps++

		person := t.people[pid]
		unit := t.coupleUnit(person)
		if visited[unit] {
			continue
		}
		visited[unit] = true

		if err := t.maybeAddPartner(person); err != nil {
			return err
		}

		children, err := t.makeChildren(person)
		if err != nil {
			return err
		}
		for _, child := range children {
			// Only enqueue children that can reach parenting age
			// inside the horizon; the rest stay counted leaves.
			if child.YearBorn+t.opts.MinParentAge <= t.opts.HorizonYear {
				queue = append(queue, child.ID)
			}
		}
	}

	t.state = StateComplete
	logger.Infow("Family tree complete",
		"seed", t.seed,
		"population", len(t.people),
		"expansion_steps", steps,
	)
	return nil
}

// Population returns the people in insertion order. The slice is a fresh
// copy; the Person records are shared and must be treated as read-only.
func (t *Tree) Population() []*Person {
	snapshot := make([]*Person, 0, len(t.order))
	for _, id := range t.order {
		snapshot = append(snapshot, t.people[id])
	}
	return snapshot
}

// Size returns the population count.
func (t *Tree) Size() int { return len(t.people) }

// seedRoots inserts the two partnered root individuals and returns the
// initial expansion queue.
func (t *Tree) seedRoots() ([]int64, error) {
	rootLast1, err := t.factory.SampleLastName(t.opts.SeedYear)
	if err != nil {
		return nil, err
	}
	rootLast2, err := t.factory.SampleLastName(t.opts.SeedYear)
	if err != nil {
		return nil, err
	}
	t.rootLastNames = [2]string{rootLast1, rootLast2}

	p1, err := t.factory.NewPerson(t.opts.SeedYear, PersonOpts{
		Descendant:     true,
		ForcedLastName: rootLast1,
		RootLastNames:  t.rootLastNames,
	})
	if err != nil {
		return nil, err
	}
	p2, err := t.factory.NewPerson(t.opts.SeedYear, PersonOpts{
		Descendant:     true,
		ForcedLastName: rootLast2,
		RootLastNames:  t.rootLastNames,
	})
	if err != nil {
		return nil, err
	}

	p1.PartnerID = p2.ID
	p2.PartnerID = p1.ID
	t.insert(p1)
	t.insert(p2)
	t.state = StateSeeded

	logger.Debugw("Roots seeded",
		"year", t.opts.SeedYear,
		"surnames", t.rootLastNames,
	)
	return []int64{p1.ID, p2.ID}, nil
}

// maybeAddPartner samples a partner for a partnerless person, gated on
// the marriage rate for the person's birth decade.
func (t *Tree) maybeAddPartner(person *Person) error {
	if person.PartnerID != 0 {
		return nil
	}

	marriageRate, err := t.factory.catalogs.Rates.MarriageRate(person.YearBorn)
	if err != nil {
		return err
	}
	if t.rng.Float64() >= marriageRate {
		return nil
	}

	yearBorn := clamp(person.YearBorn+t.factory.uniformOffset(),
		t.opts.SeedYear, t.opts.HorizonYear)

	partner, err := t.factory.NewPerson(yearBorn, PersonOpts{
		RootLastNames: t.rootLastNames,
	})
	if err != nil {
		return err
	}

	partner.PartnerID = person.ID
	person.PartnerID = partner.ID
	t.insert(partner)
	return nil
}

// makeChildren samples children for the couple anchored at person.
//
// The child count comes from the birth rate of the elder parent's decade.
// Birth years land in the couple's fertile window: it opens when the
// younger parent reaches MinParentAge (so no parent is implausibly young)
// and closes at the elder parent's MaxParentAge, the horizon, or the
// elder parent's death year, whichever is first.
func (t *Tree) makeChildren(person *Person) ([]*Person, error) {
	parents := []*Person{person}
	if person.PartnerID != 0 {
		parents = append(parents, t.people[person.PartnerID])
	}

	elder, younger := parents[0], parents[0]
	for _, p := range parents[1:] {
		if p.YearBorn < elder.YearBorn {
			elder = p
		}
		if p.YearBorn > younger.YearBorn {
			younger = p
		}
	}

	birthRate, err := t.factory.catalogs.Rates.BirthRate(elder.YearBorn)
	if err != nil {
		return nil, err
	}

	minKids := int(math.Ceil(birthRate - 1.5))
	if minKids < 0 {
		minKids = 0
	}
	maxKids := int(math.Ceil(birthRate + 1.5))
	if maxKids < minKids {
		maxKids = minKids
	}
	count := t.rng.Intn(maxKids-minKids+1) + minKids

	start := younger.YearBorn + t.opts.MinParentAge
	end := min3(elder.YearBorn+t.opts.MaxParentAge, t.opts.HorizonYear, elder.YearDied)
	if start > end || count == 0 {
		// Line deceased or out of horizon: stays counted, stops expanding.
		return nil, nil
	}

	descendant := false
	for _, p := range parents {
		if p.Descendant {
			descendant = true
		}
	}

	children := make([]*Person, 0, count)
	for i := 0; i < count; i++ {
		yearBorn := t.rng.Intn(end-start+1) + start
		child, err := t.factory.NewPerson(yearBorn, PersonOpts{
			Descendant:    descendant,
			RootLastNames: t.rootLastNames,
		})
		if err != nil {
			return nil, err
		}

		for _, parent := range parents {
			parent.ChildIDs = append(parent.ChildIDs, child.ID)
		}
		t.insert(child)
		children = append(children, child)
	}
	return children, nil
}

// coupleUnit identifies a couple so each is expanded exactly once,
// regardless of which partner gets dequeued first.
func (t *Tree) coupleUnit(person *Person) coupleKey {
	if person.PartnerID == 0 {
		return coupleKey{person.ID, 0}
	}
	a, b := person.ID, person.PartnerID
	if a > b {
		a, b = b, a
	}
	return coupleKey{a, b}
}

func (t *Tree) insert(p *Person) {
	t.people[p.ID] = p
	t.order = append(t.order, p.ID)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
