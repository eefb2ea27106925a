package service

import (
	"math"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
)

// QualityModel 固定的质量评分曲面，进程内只读
type QualityModel struct {
	PHTarget       float64 // 低于该 pH 开始扣分
	PHPenalty      float64
	MillingLimit   float64 // rpm
	MillingPenalty float64
	DryingLimit    float64 // 分钟
	DryingPenalty  float64
	// 工艺窗口：pH 低于 MinPH 或转速高于 MaxMilling 时分数封顶 WindowCap，必然判 FAIL
	MinPH          float64
	MaxMilling     float64
	WindowCap      float64
	PassScore      float64
	Confidence     string
}

// DefaultQualityModel 现场使用的参数
var DefaultQualityModel = QualityModel{
	PHTarget:       4.0,
	PHPenalty:      8,
	MillingLimit:   1500,
	MillingPenalty: 0.02,
	DryingLimit:    60,
	DryingPenalty:  0.2,
	MinPH:          3.5,
	MaxMilling:     1800,
	WindowCap:      74.2,
	PassScore:      85,
	Confidence:     "97.8%",
}

const (
	QualityPass = "PASS"
	QualityFail = "FAIL"
)

// PredictRequest 工艺参数
type PredictRequest struct {
	DryingTime   float64 `json:"drying_time"`
	MillingSpeed float64 `json:"milling_speed"`
	AcidPH       float64 `json:"acid_ph"`
}

// Prediction 评分结果
type Prediction struct {
	QualityScore   float64   `json:"quality_score"`
	Status         string    `json:"status"`
	Recommendation string    `json:"recommendation"`
	Confidence     string    `json:"confidence"`
	Timestamp      time.Time `json:"timestamp"`
}

// Score 返回 [0,100] 内保留一位小数的分数
func (m QualityModel) Score(req PredictRequest) float64 {
	score := 100 -
		m.PHPenalty*math.Max(0, m.PHTarget-req.AcidPH) -
		m.MillingPenalty*math.Max(0, req.MillingSpeed-m.MillingLimit) -
		m.DryingPenalty*math.Max(0, req.DryingTime-m.DryingLimit)
	score = math.Round(score*10) / 10
	score = math.Max(0, math.Min(100, score))
	if !m.InWindow(req) {
		score = math.Min(score, m.WindowCap)
	}
	return score
}

// InWindow pH 与转速是否在允许范围内
func (m QualityModel) InWindow(req PredictRequest) bool {
	return req.AcidPH >= m.MinPH && req.MillingSpeed <= m.MaxMilling
}

// Recommend 按阈值顺序给出建议
func Recommend(req PredictRequest) string {
	switch {
	case req.AcidPH < 3.0:
		return "High acidity detected. Risk of cellulose degradation. Adjust buffer."
	case req.MillingSpeed > 1900:
		return "Milling speed excessive. Check particle size distribution (PSD)."
	case req.DryingTime > 80:
		return "Extended drying time may affect moisture content stability."
	case req.AcidPH < 3.5 || req.MillingSpeed > 1800:
		return "Warning: High milling speed or low pH detected."
	default:
		return "Optimal parameters maintained."
	}
}

// PredictionService 质量预测
type PredictionService struct {
	model QualityModel
}

func NewPredictionService(model QualityModel) *PredictionService {
	return &PredictionService{model: model}
}

func (s *PredictionService) Predict(req PredictRequest) (*Prediction, error) {
	for _, v := range []float64{req.DryingTime, req.MillingSpeed, req.AcidPH} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.Validation("process parameters must be finite numbers")
		}
	}

	score := s.model.Score(req)
	status := QualityFail
	if score >= s.model.PassScore {
		status = QualityPass
	}
	return &Prediction{
		QualityScore:   score,
		Status:         status,
		Recommendation: Recommend(req),
		Confidence:     s.model.Confidence,
		Timestamp:      nowFunc(),
	}, nil
}
