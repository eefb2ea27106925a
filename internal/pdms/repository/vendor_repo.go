package repository

import (
	"context"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"gorm.io/gorm"
)

// VendorRepository 供应商仓库
type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) Create(ctx context.Context, v *entity.Vendor) error {
	if v.ID == "" {
		v.ID = entity.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *VendorRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Vendor{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *VendorRepository) List(ctx context.Context) ([]entity.Vendor, error) {
	var items []entity.Vendor
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
