package prompt

// LeafAnalysis is the fixed instruction sent with every image. It pins the
// reply to one of two JSON shapes so the normalizer has something to work with.
func LeafAnalysis() string {
	return `IMPORTANT: First determine if this image contains a plant leaf or vegetation. If the image shows humans, animals, objects, buildings, or anything other than plant leaves/vegetation, return the "invalid_image" response format below.

If this is a valid leaf/plant image, analyze it for BOTH diseases AND pests. Return the results in JSON format.

Please identify:
1. Whether this is actually a leaf/plant image
2. Disease name (if any disease detected)
3. Disease type/category or invalid_image
4. Severity level (mild, moderate, severe)
5. Confidence score (0-100%)
6. Symptoms observed
7. Possible causes
8. Treatment recommendations
9. Pest detection (if any pests visible)
10. Pest name (if pest detected)
11. Pest severity
12. Pest-specific symptoms
13. Pest treatment recommendations

For NON-LEAF images (humans, animals, objects, or not detected as leaves, etc.), return this format:
{
    "disease_detected": false,
    "disease_name": null,
    "disease_type": "invalid_image",
    "severity": "none",
    "confidence": 95,
    "symptoms": ["This image does not contain a plant leaf"],
    "possible_causes": ["Invalid image type uploaded"],
    "treatment": ["Please upload an image of a plant leaf for disease analysis"],
    "pest_detected": false,
    "pest_name": null,
    "pest_severity": "none",
    "pest_confidence": 0,
    "pest_symptoms": [],
    "pest_treatment": []
}

For VALID LEAF images, return this comprehensive format:
{
    "disease_detected": true/false,
    "disease_name": "name of disease or null",
    "disease_type": "fungal/bacterial/viral/pest/nutrient deficiency/healthy",
    "severity": "mild/moderate/severe/none",
    "confidence": 85,
    "symptoms": ["list", "of", "symptoms"],
    "possible_causes": ["list", "of", "causes"],
    "treatment": ["list", "of", "treatments"],
    "common_pests": ["list of pests commonly associated with this disease"],
    "pest_detected": true/false,
    "pest_name": "name of pest or null",
    "pest_severity": "mild/moderate/severe/none",
    "pest_confidence": 75,
    "pest_symptoms": ["chewed leaves", "visible insects", "webbing", "eggs"],
    "pest_treatment": ["insecticidal soap", "neem oil", "biological controls"]
}

Common pests to look for:
- Aphids (small green/black insects, sticky residue)
- Spider Mites (tiny red/brown mites, webbing)
- Whiteflies (small white flying insects)
- Mealybugs (white cottony masses)
- Scale Insects (brown/white bumps on stems/leaves)
- Thrips (tiny slender insects, silvery streaks)
- Caterpillars (chewed leaves, visible larvae)
- Leaf Miners (winding trails on leaves)
- Beetles (various types, chewed edges)

Look carefully for any signs of insects, eggs, larvae, or pest damage patterns.`
}
