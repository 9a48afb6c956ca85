package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/checkout"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/shopspring/decimal"
)

// API is the slice of the store the catalog needs.
type API interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, id string) (types.Product, error)
	CreateProduct(ctx context.Context, product types.Product) (types.Product, error)
	ReplaceProduct(ctx context.Context, id string, product types.Product) (types.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type adminGate interface {
	RequireAdmin() (types.Identity, error)
}

// Query narrows a storefront listing. Category "all" or empty matches every
// category.
type Query struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     enums.ProductSort
}

// ProductInput is the admin product form.
type ProductInput struct {
	Name          string        `json:"name" validate:"required,max=200"`
	Category      string        `json:"category" validate:"required,max=100"`
	Price         types.Amount  `json:"price"`
	OriginalPrice *types.Amount `json:"originalPrice,omitempty"`
	Rating        float64       `json:"rating" validate:"gte=0,lte=5"`
	Description   string        `json:"description" validate:"max=4000"`
	Image         string        `json:"image,omitempty" validate:"omitempty,url"`
	IsNew         bool          `json:"isNew"`
	IsOnSale      bool          `json:"isOnSale"`
	Featured      bool          `json:"featured"`
	Stock         *int          `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Tags          []string      `json:"tags,omitempty" validate:"max=20,dive,max=40"`
}

// Service serves the product catalog.
type Service interface {
	List(ctx context.Context, q Query) ([]types.Product, error)
	Get(ctx context.Context, id string) (types.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AdminList(ctx context.Context, q Query) ([]types.Product, error)
	Create(ctx context.Context, in ProductInput) (types.Product, error)
	Update(ctx context.Context, id string, in ProductInput) (types.Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	api      API
	admin    adminGate
	logg     *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds the catalog service.
func NewService(api API, admin adminGate, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("catalog api required")
	}
	if admin == nil {
		return nil, fmt.Errorf("admin gate required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		api:      api,
		admin:    admin,
		logg:     logg,
		validate: checkout.NewValidator(),
		now:      time.Now,
	}, nil
}

// List returns the storefront view of the catalog with placeholders removed.
func (s *service) List(ctx context.Context, q Query) ([]types.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		s.logg.Error(ctx, "list products failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "Failed to load products")
	}
	return Apply(types.WithoutPlaceholders(products), q), nil
}

func (s *service) Get(ctx context.Context, id string) (types.Product, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		s.logg.Error(s.logg.WithProductID(ctx, id), "get product failed", err)
		return types.Product{}, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "Failed to load product")
	}
	if product.IsPlaceholder() {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return product, nil
}

// Categories lists the distinct categories of listed products, sorted.
func (s *service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.List(ctx, Query{})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (s *service) AdminList(ctx context.Context, q Query) ([]types.Product, error) {
	if _, err := s.admin.RequireAdmin(); err != nil {
		return nil, err
	}
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, s.adminFailure(ctx, "admin list products failed", err)
	}
	return Apply(types.WithoutPlaceholders(products), q), nil
}

// Create validates the form and stores a new product under a generated id.
func (s *service) Create(ctx context.Context, in ProductInput) (types.Product, error) {
	if _, err := s.admin.RequireAdmin(); err != nil {
		return types.Product{}, err
	}
	product, err := s.fromInput(in)
	if err != nil {
		return types.Product{}, err
	}
	product.ID = NewProductID(s.now())

	created, err := s.api.CreateProduct(ctx, product)
	if err != nil {
		return types.Product{}, s.adminFailure(s.logg.WithProductID(ctx, product.ID), "create product failed", err)
	}
	s.logg.Info(s.logg.WithProductID(ctx, created.ID), "product created")
	return created, nil
}

// Update replaces the stored product with the form contents.
func (s *service) Update(ctx context.Context, id string, in ProductInput) (types.Product, error) {
	if _, err := s.admin.RequireAdmin(); err != nil {
		return types.Product{}, err
	}
	if strings.TrimSpace(id) == "" {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.fromInput(in)
	if err != nil {
		return types.Product{}, err
	}
	product.ID = id

	ctx = s.logg.WithProductID(ctx, id)
	updated, err := s.api.ReplaceProduct(ctx, id, product)
	if err != nil {
		return types.Product{}, s.adminFailure(ctx, "update product failed", err)
	}
	s.logg.Info(ctx, "product updated")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.admin.RequireAdmin(); err != nil {
		return err
	}
	ctx = s.logg.WithProductID(ctx, id)
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.adminFailure(ctx, "delete product failed", err)
	}
	s.logg.Info(ctx, "product deleted")
	return nil
}

func (s *service) fromInput(in ProductInput) (types.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = normalizeTags(in.Tags)
	if err := s.validate.Struct(in); err != nil {
		return types.Product{}, checkout.FormatValidationErrors(err)
	}
	if in.Price.IsNegative() {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "Please correct the highlighted fields").
			WithDetails(map[string]string{"price": "must not be negative"})
	}
	return types.Product{
		Name:          in.Name,
		Category:      in.Category,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Rating:        in.Rating,
		Description:   in.Description,
		Image:         in.Image,
		IsNew:         in.IsNew,
		IsOnSale:      in.IsOnSale,
		Featured:      in.Featured,
		Stock:         in.Stock,
		Tags:          in.Tags,
	}.Clone(), nil
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func hasTag(p types.Product, search string) bool {
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func (s *service) adminFailure(ctx context.Context, logMsg string, err error) error {
	s.logg.Error(ctx, logMsg, err)
	return pkgerrors.Wrap(pkgerrors.CodeRemote, err, pkgerrors.RemoteMessage(err))
}

// NewProductID returns prod_{unixMillis}_{9 base36 chars}.
func NewProductID(now time.Time) string {
	var b strings.Builder
	for b.Len() < 9 {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}
	return fmt.Sprintf("prod_%d_%s", now.UnixMilli(), b.String()[:9])
}

// Apply filters and sorts products for a query. The input is not modified.
func Apply(products []types.Product, q Query) []types.Product {
	category := strings.TrimSpace(q.Category)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(category, "all") && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!hasTag(p, search) {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p.Clone())
	}

	switch q.Sort {
	case enums.ProductSortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case enums.ProductSortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price.Decimal) })
	case enums.ProductSortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price.Decimal) })
	case enums.ProductSortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case enums.ProductSortFeatured, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Featured && !out[j].Featured })
	}
	return out
}
