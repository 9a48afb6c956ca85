package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db/models"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"gorm.io/gorm"
)

type ProductRepository struct {
	base
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{base{db: db}}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.conn(ctx).Order("created_at ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.conn(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.conn(ctx).Create(product).Error
}

func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.conn(ctx).Save(product).Error
}

// Delete removes the row, returning gorm.ErrRecordNotFound when nothing
// matched.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Products is the catalog collection. Reads are public; writes are admin
// only.
type Products struct {
	repo *ProductRepository
	logg *logger.Logger
}

func NewProducts(repo *ProductRepository, logg *logger.Logger) (*Products, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Products{repo: repo, logg: logg}, nil
}

func (s *Products) List(ctx context.Context) ([]types.Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate(err, "product")
	}
	out := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToType())
	}
	return out, nil
}

func (s *Products) Get(ctx context.Context, id string) (types.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Product{}, translate(err, "product")
	}
	return row.ToType(), nil
}

// Create stores the product under its own id, or a fresh one when empty.
func (s *Products) Create(ctx context.Context, actor Actor, product types.Product) (types.Product, error) {
	if !actor.Admin() {
		return types.Product{}, denied()
	}
	if err := checkProduct(product); err != nil {
		return types.Product{}, err
	}
	row := models.ProductFromType(product)
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return types.Product{}, translate(err, "product")
	}
	s.logg.Info(s.logg.WithProductID(ctx, row.ID), "product created")
	return row.ToType(), nil
}

// Replace overwrites every writable field of an existing product.
func (s *Products) Replace(ctx context.Context, actor Actor, id string, product types.Product) (types.Product, error) {
	if !actor.Admin() {
		return types.Product{}, denied()
	}
	if err := checkProduct(product); err != nil {
		return types.Product{}, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Product{}, translate(err, "product")
	}
	row := models.ProductFromType(product)
	row.ID = id
	row.CreatedAt = existing.CreatedAt
	if err := s.repo.Save(ctx, &row); err != nil {
		return types.Product{}, translate(err, "product")
	}
	s.logg.Info(s.logg.WithProductID(ctx, id), "product replaced")
	return row.ToType(), nil
}

func (s *Products) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Admin() {
		return denied()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "product")
	}
	s.logg.Info(s.logg.WithProductID(ctx, id), "product deleted")
	return nil
}

func checkProduct(p types.Product) error {
	details := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		details["name"] = "is required"
	}
	if p.Price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if p.Stock != nil && *p.Stock < 0 {
		details["stock"] = "must not be negative"
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "Please correct the highlighted fields").WithDetails(details)
}
