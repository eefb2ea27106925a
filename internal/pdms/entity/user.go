package entity

import "time"

// 角色
const (
	RoleAdmin      = "Admin"
	RoleManager    = "Plant Manager"
	RoleSupervisor = "Supervisor"
	RoleQCIncharge = "QC Incharge"
	RoleQCAnalyst  = "QC Analyst"
	RoleOperator   = "Operator"
)

// Roles 全部合法角色
var Roles = []string{RoleAdmin, RoleManager, RoleSupervisor, RoleQCIncharge, RoleQCAnalyst, RoleOperator}

// IsValidRole 角色是否合法
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User 用户
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Username     string    `json:"username" gorm:"size:255;not null;index"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         string    `json:"role" gorm:"size:32;not null"`
	Shift        string    `json:"shift" gorm:"size:50"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
