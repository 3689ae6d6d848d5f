package diagnosis

import (
	"time"
)

// DiagnosisID identifier type
type DiagnosisID string

// DiseaseType is an open vocabulary; the model may return values outside
// the known constants and they are passed through unchanged.
type DiseaseType string

const (
	TypeFungal             DiseaseType = "fungal"
	TypeBacterial          DiseaseType = "bacterial"
	TypeViral              DiseaseType = "viral"
	TypePest               DiseaseType = "pest"
	TypeNutrientDeficiency DiseaseType = "nutrient_deficiency"
	TypeHealthy            DiseaseType = "healthy"
	TypeInvalidImage       DiseaseType = "invalid_image"
	TypeUnknown            DiseaseType = "unknown"
)

// Severity enum
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityNone     Severity = "none"
	SeverityUnknown  Severity = "unknown"
)

// AnalysisResult is the normalized diagnosis record. It is constructed once
// by Normalize (or a repository read) and never mutated afterwards. Slice
// fields are always non-nil.
type AnalysisResult struct {
	DiseaseDetected   bool        `json:"disease_detected"`
	DiseaseName       *string     `json:"disease_name"`
	DiseaseType       DiseaseType `json:"disease_type"`
	Severity          Severity    `json:"severity"`
	Confidence        float64     `json:"confidence"`
	Symptoms          []string    `json:"symptoms"`
	PossibleCauses    []string    `json:"possible_causes"`
	Treatment         []string    `json:"treatment"`
	CommonPests       []string    `json:"common_pests"`
	PestDetected      bool        `json:"pest_detected"`
	PestName          *string     `json:"pest_name"`
	PestSeverity      Severity    `json:"pest_severity"`
	PestConfidence    float64     `json:"pest_confidence"`
	PestSymptoms      []string    `json:"pest_symptoms"`
	PestTreatment     []string    `json:"pest_treatment"`
	AnalysisTimestamp string      `json:"analysis_timestamp"`
}

// Aggregate Root: Diagnosis pairs a normalized result with request metadata.
type Diagnosis struct {
	ID          DiagnosisID    `json:"id"`
	TenantID    string         `json:"tenant_id"`
	RequestedAt time.Time      `json:"requested_at"`
	Model       string         `json:"model,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Result      AnalysisResult `json:"result"`
	DurationMS  int64          `json:"duration_ms"`
}

// Summary rekap per tenant over a window
type Summary struct {
	Total       int `json:"total"`
	Diseased    int `json:"diseased"`
	Healthy     int `json:"healthy"`
	PestsFound  int `json:"pests_found"`
	InvalidImgs int `json:"invalid_images"`
}
