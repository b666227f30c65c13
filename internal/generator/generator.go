// Package generator produces realistic sample listings for local development
// and demo seeding. Listings are Hyderabad plots and homes priced in INR.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"square-feet-api/internal/models"
)

// DefaultCount is the number of listings the seed tool generates by default.
const DefaultCount = 24

type area struct {
	name string
	zone string
}

var areas = []area{
	{"Nagole", "RR"},
	{"Gachibowli", "RR"},
	{"HITEC City", "RR"},
	{"Kukatpally", "Medchal"},
	{"Ameerpet", "Central"},
	{"Jubilee Hills", "Central"},
	{"Banjara Hills", "Central"},
	{"Secunderabad", "North"},
	{"Bowenpally", "North"},
	{"Malkajgiri", "North"},
	{"Saroor Nagar", "South"},
	{"Tolichowki", "South"},
	{"Attapur", "South"},
}

var propertyTypes = []models.PropertyType{models.TypeLand, models.TypeHouse, models.TypeApartment}

var featuresPool = []string{
	"Corner Plot",
	"Facing Park",
	"Gated Community",
	"Legal Verified",
	"Clear Ownership",
	"East Facing",
	"Underground Water",
	"Good Approach Road",
	"Peaceful Locality",
	"Near Schools",
}

var placeholderImages = []string{
	"https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1449844908441-8829872d2607?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1520763185298-1b434c919eba?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1603808033192-082d6919d3e1?auto=format&fit=crop&w=1600&q=80",
}

var (
	titleAdjectives = []string{"Premium", "Luxury", "Spacious", "Modern", "Elegance"}
	titleNouns      = []string{"Plots", "Residential Plot", "Land Plot", "Property", "Estate"}
	streetKinds     = []string{"Road", "Street", "Lane", "Avenue", "Boulevard"}
)

const description = "Thoughtfully located residential plot in prime Hyderabad locality with legal " +
	"verification, clear ownership, and excellent investment potential. Ideal for building your dream home."

const (
	minPrice      = 1_200_000
	priceSpread   = 6_800_000
	sqftPerAcre   = 43_560.0
	minSquareFeet = 500
)

// Generator builds random listings. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	Now func() time.Time
}

// New returns a generator seeded with seed, so the same seed yields the same
// listing attributes. Property and seller ids are always random UUIDs.
func New(seed uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Now: models.Now,
	}
}

func pick[T any](g *Generator, items []T) T {
	return items[g.rng.IntN(len(items))]
}

// features returns two to four distinct entries from the pool.
func (g *Generator) features() []string {
	shuffled := append([]string{}, featuresPool...)
	g.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:g.rng.IntN(3)+2]
}

// Property returns one listing. A nil status picks one at random.
func (g *Generator) Property(status *models.Status) models.Property {
	a := pick(g, areas)
	st := pick(g, models.Statuses)
	if status != nil {
		st = *status
	}
	pt := pick(g, propertyTypes)
	now := g.Now()
	squareFootage := float64(g.rng.IntN(4500) + minSquareFeet)

	p := models.Property{
		PropertyID:  uuid.NewString(),
		Title:       fmt.Sprintf("%s %s in %s", pick(g, titleAdjectives), pick(g, titleNouns), a.name),
		Description: description,
		Price:       float64(g.rng.IntN(priceSpread) + minPrice),
		Currency:    "INR",
		Address: models.Address{
			Street:   fmt.Sprintf("%s %d, %s", pick(g, streetKinds), g.rng.IntN(100)+1, a.name),
			Locality: a.name,
			City:     "Hyderabad",
			State:    "Telangana",
			ZipCode:  fmt.Sprintf("5000%d", g.rng.IntN(90)+10),
			Country:  "India",
		},
		PropertyType:  pt,
		SquareFootage: models.Ptr(squareFootage),
		YearBuilt:     models.Ptr(g.rng.IntN(10) + 2015),
		Features:      g.features(),
		Images:        append([]string{}, placeholderImages[:3]...),
		Status:        st,
		SellerID:      uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if pt == models.TypeLand {
		// lot size in acres
		p.LotSize = models.Ptr(squareFootage / sqftPerAcre)
	} else {
		p.Bedrooms = models.Ptr(g.rng.IntN(4) + 2)
		p.Bathrooms = models.Ptr(float64(g.rng.IntN(3) + 2))
	}

	switch st {
	case models.StatusApproved:
		p.ApprovedAt = models.Ptr(now)
	case models.StatusRejected:
		p.RejectedAt = models.Ptr(now)
	}
	return p
}

// Properties returns n listings. A nil status gives each one a random status.
func (g *Generator) Properties(n int, status *models.Status) []models.Property {
	out := make([]models.Property, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Property(status))
	}
	return out
}
