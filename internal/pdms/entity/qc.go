package entity

import "time"

// QCStatus 质检记录状态
const (
	QCStatusPending    = "PENDING"
	QCStatusInProgress = "IN_PROGRESS"
	QCStatusPass       = "PASS"
	QCStatusFail       = "FAIL"
)

// QCRecord 质检记录
type QCRecord struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	BatchID      string    `json:"batch_id" gorm:"size:32;not null;index"`
	BatchNumber  string    `json:"batch_number" gorm:"size:64"`
	Moisture     float64   `json:"moisture"`
	Purity       float64   `json:"purity"`
	ParticleSize float64   `json:"particle_size"`
	Status       string    `json:"status" gorm:"size:20;not null;index"`
	Analyst      string    `json:"analyst" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
}

func (QCRecord) TableName() string {
	return "qc_records"
}
