// Package sim generates family-tree populations.
//
// A Tree starts from two root individuals, expands breadth-first through
// sampled partners and children, and owns the resulting population. All
// randomness flows through one seeded generator, so a fixed seed and
// fixed catalog tables reproduce an identical population.
package sim

import "fmt"

// Gender categories used for first-name sampling and partner pairing.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Person is one individual in the population.
//
// PartnerID and ChildIDs are references into the tree's population store;
// the store owns every Person. PartnerID zero means no partner.
type Person struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Gender     Gender  `json:"gender"`
	YearBorn   int     `json:"year_born"`
	YearDied   int     `json:"year_died"`
	Descendant bool    `json:"descendant"` // descends from (or is) a root
	PartnerID  int64   `json:"partner_id,omitempty"`
	ChildIDs   []int64 `json:"child_ids,omitempty"`
}

// FullName returns "First Last", the key used for duplicate detection.
func (p *Person) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}
