package entity

import "time"

// Equipment 设备
type Equipment struct {
	ID                   string    `json:"id" gorm:"primaryKey;size:32"`
	Name                 string    `json:"name" gorm:"size:255;not null"`
	Type                 string    `json:"type" gorm:"size:255;not null"`
	Status               string    `json:"status" gorm:"size:50;default:Operational"`
	LastVibrationReading float64   `json:"last_vibration_reading"`
	LastTempReading      float64   `json:"last_temp_reading"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// MaintenanceRecord 设备读数/维护记录
type MaintenanceRecord struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	EquipmentID      string    `json:"equipment_id" gorm:"size:32;not null;index"`
	Description      string    `json:"description" gorm:"size:255;not null"`
	Vibration        float64   `json:"vibration"`
	Temperature      float64   `json:"temperature"`
	FailureRiskScore float64   `json:"failure_risk_score"`
	MaintenanceDate  time.Time `json:"maintenance_date" gorm:"autoCreateTime"`

	Equipment *Equipment `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
}

func (MaintenanceRecord) TableName() string {
	return "maintenance_history"
}
