package diagnosis

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Normalizer turns a raw model reply into a complete AnalysisResult.
// It is stateless apart from the injected clock and safe for concurrent use.
type Normalizer struct {
	clock Clock
}

func NewNormalizer(clock Clock) *Normalizer {
	if clock == nil {
		clock = systemClock{}
	}
	return &Normalizer{clock: clock}
}

// Normalize parses the raw reply with two strategies in strict order:
// direct parse after fence stripping, then greedy first-{ to last-}
// extraction. Whichever parse succeeds, the record is then populated
// field by field with per-field defaults, so the returned result always
// satisfies every schema invariant. Only total unparseability fails.
func (n *Normalizer) Normalize(raw string) (*AnalysisResult, error) {
	obj, ok := parseDirect(raw)
	if !ok {
		obj, ok = parseEmbedded(raw)
	}
	if !ok {
		return nil, newUnparseableError(raw)
	}
	return n.build(obj), nil
}

// parseDirect trims whitespace, strips markdown code fences (with or
// without a language tag) and attempts a straight JSON parse.
func parseDirect(raw string) (map[string]any, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```", "")
		s = strings.TrimSpace(s)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// parseEmbedded extracts the substring between the first { and the last }
// and parses that. The match is deliberately greedy; prose containing
// unrelated braces around a valid object can defeat it (covered in tests).
func parseEmbedded(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &m); err != nil {
		return nil, false
	}
	return m, true
}

// build never fails: absent or wrong-typed keys degrade to defaults.
func (n *Normalizer) build(m map[string]any) *AnalysisResult {
	res := &AnalysisResult{
		DiseaseDetected:   boolField(m, "disease_detected"),
		DiseaseName:       namePtr(m, "disease_name"),
		DiseaseType:       DiseaseType(stringField(m, "disease_type", string(TypeUnknown))),
		Severity:          Severity(stringField(m, "severity", string(SeverityUnknown))),
		Confidence:        floatField(m, "confidence"),
		Symptoms:          listField(m, "symptoms"),
		PossibleCauses:    listField(m, "possible_causes"),
		Treatment:         listField(m, "treatment"),
		CommonPests:       listField(m, "common_pests"),
		PestDetected:      boolField(m, "pest_detected"),
		PestName:          namePtr(m, "pest_name"),
		PestSeverity:      Severity(stringField(m, "pest_severity", string(SeverityNone))),
		PestConfidence:    floatField(m, "pest_confidence"),
		PestSymptoms:      listField(m, "pest_symptoms"),
		PestTreatment:     listField(m, "pest_treatment"),
		AnalysisTimestamp: stringField(m, "analysis_timestamp", ""),
	}
	if res.AnalysisTimestamp == "" {
		res.AnalysisTimestamp = n.clock.Now().Format(time.RFC3339)
	}

	// invalid_image replies carry no disease or pest state beyond the
	// explanation the model put in symptoms/treatment
	if res.DiseaseType == TypeInvalidImage {
		res.DiseaseDetected = false
		res.PestDetected = false
		res.PestName = nil
		res.PestSeverity = SeverityNone
		res.PestConfidence = 0
		res.PestSymptoms = []string{}
		res.PestTreatment = []string{}
		res.CommonPests = []string{}
	}
	// pest_detected without a name is not a detection
	if res.PestDetected && res.PestName == nil {
		res.PestDetected = false
	}
	return res
}

func boolField(m map[string]any, key string) bool {
	v, ok := m[key].(bool)
	if !ok {
		return false
	}
	return v
}

func stringField(m map[string]any, key, def string) string {
	v, ok := m[key].(string)
	if !ok {
		return def
	}
	return v
}

// namePtr keeps optional name fields nil when absent, null or non-string.
func namePtr(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// floatField does best-effort numeric coercion; anything non-numeric is 0.
func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// listField always returns a non-nil slice; non-string elements are dropped.
func listField(m map[string]any, key string) []string {
	out := []string{}
	arr, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, it := range arr {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
