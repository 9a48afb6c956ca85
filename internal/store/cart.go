package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db/models"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"gorm.io/gorm"
)

type CartRepository struct {
	base
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{base{db: db}}
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartRow, error) {
	var rows []models.CartRow
	if err := r.conn(ctx).Where("user_id = ?", userID).Order("added_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*models.CartRow, error) {
	var row models.CartRow
	if err := r.conn(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CartRepository) Create(ctx context.Context, row *models.CartRow) error {
	if row == nil {
		return fmt.Errorf("cart row is required")
	}
	return r.conn(ctx).Create(row).Error
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	res := r.conn(ctx).Model(&models.CartRow{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&models.CartRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Cart stores raw cart rows. It does not merge duplicate (user, product)
// rows; the client coordinator does.
type Cart struct {
	repo *CartRepository
	logg *logger.Logger
	now  func() time.Time
}

func NewCart(repo *CartRepository, logg *logger.Logger) (*Cart, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Cart{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *Cart) List(ctx context.Context, actor Actor, userID string) ([]types.CartRow, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}
	if !actor.Owns(userID) {
		return nil, denied()
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "cart row")
	}
	out := make([]types.CartRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToType())
	}
	return out, nil
}

func (s *Cart) Create(ctx context.Context, actor Actor, in types.CartRow) (types.CartRow, error) {
	if !actor.Owns(in.UserID) {
		return types.CartRow{}, denied()
	}
	if in.Quantity < 1 {
		return types.CartRow{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	row := models.CartRow{
		ID:        strings.TrimSpace(in.ID),
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		AddedAt:   in.AddedAt.UTC(),
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.AddedAt.IsZero() {
		row.AddedAt = s.now().UTC()
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return types.CartRow{}, translate(err, "cart row")
	}
	return row.ToType(), nil
}

func (s *Cart) Patch(ctx context.Context, actor Actor, id string, patch types.CartRowPatch) (types.CartRow, error) {
	row, err := s.owned(ctx, actor, id)
	if err != nil {
		return types.CartRow{}, err
	}
	if patch.Quantity < 1 {
		return types.CartRow{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.repo.UpdateQuantity(ctx, id, patch.Quantity); err != nil {
		return types.CartRow{}, translate(err, "cart row")
	}
	row.Quantity = patch.Quantity
	return row.ToType(), nil
}

func (s *Cart) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return translate(s.repo.Delete(ctx, id), "cart row")
}

func (s *Cart) owned(ctx context.Context, actor Actor, id string) (*models.CartRow, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "cart row")
	}
	if !actor.Owns(row.UserID) {
		return nil, denied()
	}
	return row, nil
}
