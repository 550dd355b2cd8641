package persistence

import (
	"context"
	"errors"

	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Coupon, error) {
	var coupon ordering.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*ordering.Coupon, error) {
	var coupon ordering.Coupon
	if err := r.db.WithContext(ctx).
		Where("code = ?", ordering.NormalizeCouponCode(code)).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindAll finds all coupons matching the filter
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Coupon, error) {
	var coupons []ordering.Coupon
	query := applyFilter(r.db.WithContext(ctx).Model(&ordering.Coupon{}), filter, couponSearchColumns)

	if err := query.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *ordering.Coupon) error {
	return translateSaveError(r.db.WithContext(ctx).Save(coupon).Error)
}

// Delete deletes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts coupons matching the filter
func (r *GormCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&ordering.Coupon{}), filter, couponSearchColumns)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var couponSearchColumns = []string{"code"}

// Ensure GormCouponRepository implements CouponRepository
var _ ordering.CouponRepository = (*GormCouponRepository)(nil)
