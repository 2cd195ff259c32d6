package catalog

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/hami-market/storefront/internal/domain"
)

// Query narrows and orders a product listing. Zero values mean "no
// constraint".
type Query struct {
	Search   string
	Category string
	MaxPrice float64
	Sort     string // "name", "name-desc", "price", "price-desc"
}

// Catalog is the read-only product source the service sits on.
type Catalog interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// Service answers product queries. Full-catalog reads are collapsed
// through singleflight so concurrent listings share one database trip.
type Service struct {
	repo Catalog
	sfg  singleflight.Group
}

func NewService(repo Catalog) *Service {
	return &Service{repo: repo}
}

// Find returns the products matching the query, ordered per its sort.
func (s *Service) Find(ctx context.Context, q Query) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("all-products", func() (interface{}, error) {
		return s.repo.GetAllProducts(ctx)
	})
	if err != nil {
		return nil, err
	}
	products := v.([]domain.Product)

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, q.Sort)
	return matched, nil
}

// Get returns a single product snapshot.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func sortProducts(products []domain.Product, order string) {
	switch order {
	case "name":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})
	case "name-desc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Name < products[i].Name
		})
	case "price":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case "price-desc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Price < products[i].Price
		})
	}
}
