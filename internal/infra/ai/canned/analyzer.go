package canned

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	domai "github.com/bryanwahyu/leafscan/internal/domain/ai"
)

// pest library used to fabricate plausible replies
type pest struct {
	Name       string
	Symptoms   []string
	Treatments []string
}

var pestLibrary = []pest{
	{
		Name:       "Aphids",
		Symptoms:   []string{"Small green/black insects on undersides", "Sticky honeydew residue", "Curled or distorted leaves"},
		Treatments: []string{"Spray with insecticidal soap", "Apply neem oil solution", "Introduce ladybugs or lacewings"},
	},
	{
		Name:       "Spider Mites",
		Symptoms:   []string{"Fine webbing on leaves", "Yellow stippling on leaf surfaces", "Tiny moving dots on undersides"},
		Treatments: []string{"Increase humidity around plants", "Apply miticide or horticultural oil", "Remove heavily infested leaves"},
	},
	{
		Name:       "Whiteflies",
		Symptoms:   []string{"Small white flying insects when disturbed", "Yellowing and wilting leaves", "Sooty mold development"},
		Treatments: []string{"Use yellow sticky traps", "Apply insecticidal soap", "Introduce parasitic wasps"},
	},
	{
		Name:       "Mealybugs",
		Symptoms:   []string{"White cottony masses in leaf axils", "Stunted plant growth", "Honeydew and sooty mold"},
		Treatments: []string{"Dab with cotton swab dipped in alcohol", "Use systemic insecticides", "Prune heavily infested areas"},
	},
	{
		Name:       "Thrips",
		Symptoms:   []string{"Silvery streaks on leaves", "Deformed flowers and buds", "Black specks on leaf surfaces"},
		Treatments: []string{"Use blue sticky traps", "Apply spinosad-based insecticides", "Introduce predatory mites"},
	},
	{
		Name:       "Caterpillars",
		Symptoms:   []string{"Chewed leaves and holes", "Visible larvae on plants", "Skeletonized leaves"},
		Treatments: []string{"Handpick caterpillars manually", "Apply BT (Bacillus thuringiensis)", "Use floating row covers"},
	},
}

var diseases = []struct {
	Name     string
	Type     string
	Symptoms []string
	Causes   []string
	Remedy   []string
}{
	{
		Name:     "Early Blight",
		Type:     "fungal",
		Symptoms: []string{"Dark concentric spots on lower leaves", "Yellowing around lesions"},
		Causes:   []string{"Alternaria solani", "Warm humid weather"},
		Remedy:   []string{"Remove affected leaves", "Apply copper-based fungicide", "Improve air circulation"},
	},
	{
		Name:     "Bacterial Leaf Spot",
		Type:     "bacterial",
		Symptoms: []string{"Water-soaked spots with yellow halos", "Spots turning brown and papery"},
		Causes:   []string{"Xanthomonas bacteria", "Overhead watering"},
		Remedy:   []string{"Avoid overhead irrigation", "Apply copper spray", "Rotate crops"},
	},
	{
		Name:     "Mosaic Virus",
		Type:     "viral",
		Symptoms: []string{"Mottled light/dark green pattern", "Distorted leaf growth"},
		Causes:   []string{"Aphid-transmitted virus", "Contaminated tools"},
		Remedy:   []string{"Remove infected plants", "Control aphid populations", "Disinfect tools"},
	},
}

var severities = []string{"mild", "moderate", "severe"}

// Analyzer fabricates schema-valid replies without a network call. Used as
// the demo backend when no API key is configured, and in handler tests.
// Seedable so tests are reproducible. *rand.Rand is not goroutine-safe and
// one Analyzer serves all requests, so draws are serialized behind mu.
type Analyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithSeed(time.Now().UnixNano())
}

func NewAnalyzerWithSeed(seed int64) *Analyzer {
	return &Analyzer{rng: rand.New(rand.NewSource(seed))}
}

// Analyze returns a JSON reply shaped like a real model response, sometimes
// fenced to exercise the normalizer's fence stripping.
func (a *Analyzer) Analyze(_ context.Context, _ domai.Request) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	reply := map[string]any{
		"disease_detected": false,
		"disease_name":     nil,
		"disease_type":     "healthy",
		"severity":         "none",
		"confidence":       float64(70 + a.rng.Intn(30)),
		"symptoms":         []string{},
		"possible_causes":  []string{},
		"treatment":        []string{},
		"common_pests":     []string{},
		"pest_detected":    false,
		"pest_name":        nil,
		"pest_severity":    "none",
		"pest_confidence":  0,
		"pest_symptoms":    []string{},
		"pest_treatment":   []string{},
	}

	diseased := a.rng.Float64() < 0.7
	if diseased {
		d := diseases[a.rng.Intn(len(diseases))]
		reply["disease_detected"] = true
		reply["disease_name"] = d.Name
		reply["disease_type"] = d.Type
		reply["severity"] = severities[a.rng.Intn(len(severities))]
		reply["symptoms"] = d.Symptoms
		reply["possible_causes"] = d.Causes
		reply["treatment"] = d.Remedy
	}

	// pests show up more often on diseased plants
	pestChance := 0.3
	if diseased {
		pestChance = 0.6
	}
	if a.rng.Float64() < pestChance {
		p := pestLibrary[a.rng.Intn(len(pestLibrary))]
		reply["pest_detected"] = true
		reply["pest_name"] = p.Name
		reply["pest_severity"] = severities[a.rng.Intn(len(severities))]
		reply["pest_confidence"] = float64(75 + a.rng.Intn(21))
		reply["pest_symptoms"] = p.Symptoms
		reply["pest_treatment"] = p.Treatments
		if diseased {
			names := make([]string, 0, 3)
			for _, i := range a.rng.Perm(len(pestLibrary))[:3] {
				names = append(names, pestLibrary[i].Name)
			}
			reply["common_pests"] = names
		}
	}

	b, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	// occasionally wrap in a fence, as real models do
	if a.rng.Float64() < 0.25 {
		return "```json\n" + string(b) + "\n```", nil
	}
	return string(b), nil
}
