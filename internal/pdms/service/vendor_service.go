package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"gorm.io/gorm"
)

// VendorService 供应商
type VendorService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
}

func NewVendorService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService) *VendorService {
	return &VendorService{db: db, repos: repos, activity: activity}
}

type CreateVendorRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email"`
}

func (s *VendorService) Create(ctx context.Context, req CreateVendorRequest, operator string) (*entity.Vendor, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperr.Validation("name is required")
	}

	vendor := &entity.Vendor{Name: req.Name, ContactEmail: req.ContactEmail}
	var log *entity.ActivityLog
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		exists, err := repos.Vendor.ExistsByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("Vendor already exists")
		}
		if err := repos.Vendor.Create(ctx, vendor); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("Vendor already exists")
			}
			return err
		}
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("VENDOR ADDED: %s", vendor.Name),
			actorOr(operator, "Admin"), entity.LogTypeInfo, nil)
		return err
	})
	if err != nil {
		return nil, classify(err, "create vendor")
	}
	s.activity.Publish(ctx, log)
	return vendor, nil
}

func (s *VendorService) List(ctx context.Context) ([]entity.Vendor, error) {
	items, err := s.repos.Vendor.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list vendors")
	}
	return items, nil
}
