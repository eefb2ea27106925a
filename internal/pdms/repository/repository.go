package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 唯一约束冲突
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories PDMS 仓库集合
type Repositories struct {
	Material        *MaterialRepository
	MaterialHistory *MaterialHistoryRepository
	Batch           *BatchRepository
	Inventory       *InventoryRepository
	QCRecord        *QCRecordRepository
	ActivityLog     *ActivityLogRepository
	Equipment       *EquipmentRepository
	User            *UserRepository
	Vendor          *VendorRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Material:        NewMaterialRepository(db),
		MaterialHistory: NewMaterialHistoryRepository(db),
		Batch:           NewBatchRepository(db),
		Inventory:       NewInventoryRepository(db),
		QCRecord:        NewQCRecordRepository(db),
		ActivityLog:     NewActivityLogRepository(db),
		Equipment:       NewEquipmentRepository(db),
		User:            NewUserRepository(db),
		Vendor:          NewVendorRepository(db),
	}
}

// translate 将 gorm 错误映射为仓库层错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// forUpdate postgres 下加行锁，sqlite 本身串行写入
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// exactNumeric 数据库能否精确计算 decimal 列
// sqlite 的 NUMERIC 亲和列以 REAL 存储，加减会产生浮点误差
func exactNumeric(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
