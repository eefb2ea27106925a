package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ndganesh6973/pdms-mcc/internal/config"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret    = "pdms-test-jwt-secret"
	TestPassword = "plant-pass-123"
)

// SetupTestDB 每个测试独立的 sqlite 文件库
// 单连接：事务内的所有读写必须使用绑定事务的仓库
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "pdms.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

// TestConfig 测试用配置
func TestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            JWTSecret,
			AccessTokenExpire: time.Hour,
			Issuer:            "pdms-test",
		},
		Cache: config.CacheConfig{DashboardTTL: time.Minute},
	}
}

// SetupRouter 测试路由
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// GenerateTestToken 为已存在的用户签发 token
func GenerateTestToken(user *entity.User) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.Email,
		"uid":   user.ID,
		"name":  user.Username,
		"email": user.Email,
		"role":  user.Role,
		"iss":   "pdms-test",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DoRequest 发送 JSON 请求
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DoUpload 以 multipart 上传单个文件，字段名 file
func DoUpload(r *gin.Engine, path, filename string, content []byte, token string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	io.Copy(part, bytes.NewReader(content))
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse 解析响应信封
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser 创建用户，密码为 TestPassword
func SeedUser(t *testing.T, db *gorm.DB, username, email, role string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.User{
		ID:           entity.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Shift:        "A",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedMaterial 创建原料
func SeedMaterial(t *testing.T, db *gorm.DB, materialID, name string, kg float64) *entity.RawMaterial {
	t.Helper()
	m := &entity.RawMaterial{
		ID:           entity.NewID(),
		MaterialID:   materialID,
		MaterialName: name,
		QuantityKg:   decimal.NewFromFloat(kg),
		SupplierName: "Seed Supplier",
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return m
}

// SeedBatch 直接写入指定状态的批次
func SeedBatch(t *testing.T, db *gorm.DB, batchNumber, status string, kg float64) *entity.ProductionBatch {
	t.Helper()
	b := &entity.ProductionBatch{
		ID:           entity.NewID(),
		BatchNumber:  batchNumber,
		Phase:        "Acid Hydrolysis",
		MaterialUsed: "Wood Pulp",
		QuantityUsed: decimal.NewFromFloat(kg),
		Shift:        "A",
		Status:       status,
		AuthorizedBy: "Supervisor Rao",
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return b
}

// SeedInventory 直接写入成品记录
func SeedInventory(t *testing.T, db *gorm.DB, batchNo, status string, kg float64) *entity.Inventory {
	t.Helper()
	inv := &entity.Inventory{
		ID:              entity.NewID(),
		BatchNo:         batchNo,
		ProductName:     entity.DefaultProductName,
		QuantityKg:      decimal.NewFromFloat(kg),
		StorageLocation: entity.DefaultStorageLocation,
		Status:          status,
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return inv
}
