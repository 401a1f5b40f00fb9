package sim

import (
	"math"
	"math/rand"

	"github.com/lineal/kinsim/catalog"
	"github.com/lineal/kinsim/errors"
)

// deathJitterYears is the half-width of the uniform jitter applied around
// the life-expectancy table value when sampling a death year, and of the
// birth-year offset between partners.
const deathJitterYears = 10

// Factory mints Person records from the catalogs.
//
// The same *rand.Rand instance drives every draw, in a fixed order per
// person (gender, first name, last name if sampled, death jitter), which
// is what makes whole-tree generation reproducible.
type Factory struct {
	catalogs *catalog.Catalogs
	rng      *rand.Rand
	nextID   int64
}

// PersonOpts controls the last-name policy for a new person.
type PersonOpts struct {
	// Descendant marks the person as part of the root bloodline.
	// Descendants inherit one of the two root surnames at random.
	Descendant bool

	// ForcedLastName overrides sampling entirely (used for the roots).
	ForcedLastName string

	// RootLastNames are the two root surnames descendants draw from.
	RootLastNames [2]string
}

// NewFactory creates a factory over the loaded catalogs.
func NewFactory(catalogs *catalog.Catalogs, rng *rand.Rand) *Factory {
	return &Factory{catalogs: catalogs, rng: rng}
}

// NewPerson mints a person born in yearBorn with the given last-name
// policy. IDs are sequential so they stay deterministic across runs.
func (f *Factory) NewPerson(yearBorn int, opts PersonOpts) (*Person, error) {
	gender := f.pickGender()

	first, err := f.catalogs.Names.SampleFirst(yearBorn, string(gender), f.rng)
	if err != nil {
		return nil, errors.Wrapf(err, "sampling first name for %d", yearBorn)
	}

	var last string
	switch {
	case opts.ForcedLastName != "":
		last = opts.ForcedLastName
	case opts.Descendant:
		last = opts.RootLastNames[f.rng.Intn(2)]
	default:
		last, err = f.catalogs.Names.SampleLast(yearBorn, f.rng)
		if err != nil {
			return nil, errors.Wrapf(err, "sampling last name for %d", yearBorn)
		}
	}

	died, err := f.deathYear(yearBorn)
	if err != nil {
		return nil, err
	}

	f.nextID++
	return &Person{
		ID:         f.nextID,
		FirstName:  first,
		LastName:   last,
		Gender:     gender,
		YearBorn:   yearBorn,
		YearDied:   died,
		Descendant: opts.Descendant,
	}, nil
}

// SampleLastName exposes last-name sampling for seeding the roots.
func (f *Factory) SampleLastName(yearBorn int) (string, error) {
	return f.catalogs.Names.SampleLast(yearBorn, f.rng)
}

func (f *Factory) pickGender() Gender {
	if f.rng.Float64() < 0.5 {
		return GenderMale
	}
	return GenderFemale
}

// deathYear samples a death year: the table expectancy for the birth
// year, jittered uniformly by ±deathJitterYears, floored at age zero.
func (f *Factory) deathYear(yearBorn int) (int, error) {
	le, err := f.catalogs.Rates.LifeExpectancy(yearBorn)
	if err != nil {
		return 0, err
	}
	age := int(math.Round(le)) + f.uniformOffset()
	if age < 0 {
		age = 0
	}
	return yearBorn + age, nil
}

// uniformOffset draws uniformly from [-deathJitterYears, +deathJitterYears].
func (f *Factory) uniformOffset() int {
	return f.rng.Intn(2*deathJitterYears+1) - deathJitterYears
}
