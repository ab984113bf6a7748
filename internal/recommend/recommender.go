package recommend

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/errors"
)

// Recommender picks restaurants from a static catalog.
type Recommender struct {
	catalog []models.Restaurant

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRecommender(catalog []models.Restaurant) (*Recommender, error) {
	seed := uint64(time.Now().UnixNano())
	return NewRecommenderWithRand(catalog, rand.New(rand.NewPCG(seed, seed>>1)))
}

// NewRecommenderWithRand is NewRecommender with a caller-owned random source.
func NewRecommenderWithRand(catalog []models.Restaurant, rng *rand.Rand) (*Recommender, error) {
	if len(catalog) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "restaurant catalog is empty")
	}
	return &Recommender{
		catalog: append([]models.Restaurant(nil), catalog...),
		rng:     rng,
	}, nil
}

// candidates narrows by category, then by price band. An empty price filter
// falls back to category matches, an empty category to the whole catalog.
func (r *Recommender) candidates(menu models.Menu, price models.PriceRange) []models.Restaurant {
	var byMenu []models.Restaurant
	for _, rest := range r.catalog {
		if rest.Type == menu {
			byMenu = append(byMenu, rest)
		}
	}
	if len(byMenu) == 0 {
		return append([]models.Restaurant(nil), r.catalog...)
	}
	if price == "" {
		return byMenu
	}

	var byPrice []models.Restaurant
	for _, rest := range byMenu {
		if rest.Price == price {
			byPrice = append(byPrice, rest)
		}
	}
	if len(byPrice) == 0 {
		return byMenu
	}
	return byPrice
}

// RecommendOne returns a uniformly random pick among the candidates.
func (r *Recommender) RecommendOne(menu models.Menu, price models.PriceRange) models.Restaurant {
	pool := r.candidates(menu, price)

	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.rng.IntN(len(pool))]
}

// RecommendMany returns up to count distinct candidates in random order.
func (r *Recommender) RecommendMany(menu models.Menu, price models.PriceRange, count int) []models.Restaurant {
	if count <= 0 {
		return nil
	}
	pool := r.candidates(menu, price)

	r.mu.Lock()
	r.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	r.mu.Unlock()

	if count < len(pool) {
		pool = pool[:count]
	}
	return pool
}

// Filter applies exact filters with no fallback. Empty arguments match anything.
func (r *Recommender) Filter(menu models.Menu, price models.PriceRange) []models.Restaurant {
	out := []models.Restaurant{}
	for _, rest := range r.catalog {
		if menu != "" && rest.Type != menu {
			continue
		}
		if price != "" && rest.Price != price {
			continue
		}
		out = append(out, rest)
	}
	return out
}

func (r *Recommender) Catalog() []models.Restaurant {
	return append([]models.Restaurant(nil), r.catalog...)
}
