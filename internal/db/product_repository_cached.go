package db

import (
	"context"
	"fmt"
	"log"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/redis/go-redis/v9"
)

// Catalog is the product store the cache wraps. *ProductRepository is
// the production implementation.
type Catalog interface {
	GetAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id int, req models.CreateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}

// ProductCache is the cache seam, satisfied by *cache.RedisCache. Get
// reports a miss with redis.Nil.
type ProductCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// CachedProductRepository is a read-through cache over the catalog.
// Filtered listings go straight to the database; only the unfiltered
// listing and single-product reads are cached.
type CachedProductRepository struct {
	repo  Catalog
	cache ProductCache
}

func NewCachedProductRepository(repo Catalog, cache ProductCache) *CachedProductRepository {
	return &CachedProductRepository{
		repo:  repo,
		cache: cache,
	}
}

// Cache key helpers
func ProductKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func AllProductsKey() string {
	return "products:all"
}

// GetAll returns products matching the filter (unfiltered reads cached).
func (r *CachedProductRepository) GetAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if filter.Category != nil || filter.MinPrice != nil || filter.MaxPrice != nil {
		return r.repo.GetAll(ctx, filter)
	}

	cacheKey := AllProductsKey()

	var products []models.Product
	err := r.cache.Get(ctx, cacheKey, &products)
	if err == nil {
		log.Println("📦 Cache HIT: all products")
		return products, nil
	}

	log.Println("💾 Cache MISS: all products - fetching from DB")
	products, err = r.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, products); err != nil {
		log.Printf("⚠️ Failed to cache products: %v", err)
	}

	return products, nil
}

// GetByID returns a single product (with caching).
func (r *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	cacheKey := ProductKey(id)

	var product models.Product
	err := r.cache.Get(ctx, cacheKey, &product)
	if err == nil {
		log.Printf("📦 Cache HIT: product %d", id)
		return &product, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	log.Printf("💾 Cache MISS: product %d - fetching from DB", id)
	p, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, p); err != nil {
		log.Printf("⚠️ Failed to cache product: %v", err)
	}

	return p, nil
}

// Create inserts a new product and invalidates the listing cache.
func (r *CachedProductRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product, err := r.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, AllProductsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate cache: %v", err)
	}
	log.Println("🗑️ Cache invalidated: all products")

	return product, nil
}

// Update replaces a product and invalidates its caches.
func (r *CachedProductRepository) Update(ctx context.Context, id int, req models.CreateProductRequest) (*models.Product, error) {
	product, err := r.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	r.cache.Delete(ctx, ProductKey(id))
	r.cache.Delete(ctx, AllProductsKey())
	log.Printf("🗑️ Cache invalidated: product %d and all products", id)

	return product, nil
}

// Delete removes a product and invalidates its caches.
func (r *CachedProductRepository) Delete(ctx context.Context, id int) error {
	err := r.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	r.cache.Delete(ctx, ProductKey(id))
	r.cache.Delete(ctx, AllProductsKey())
	log.Printf("🗑️ Cache invalidated: product %d and all products", id)

	return nil
}
