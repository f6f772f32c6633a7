package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// ExtractionPrompt instructs the model to answer with the requirement JSON only.
// The assistant turn is pre-filled with "{" so replies usually lack the opening brace.
const ExtractionPrompt = `You are a procurement analyst reading a Request for Proposal for electrical equipment.
Extract every requested product line item and every requested test or inspection.

Respond with a single JSON object and nothing else, using exactly this shape:
{
  "company": "issuing company or industry, empty if unknown",
  "requirements": [
    {
      "name": "short item name as written in the RFP",
      "quantity": 500,
      "specs": {
        "voltage": "e.g. 11kV",
        "material": "e.g. Aluminum or Copper",
        "core": "e.g. 3-Core",
        "insulation": "e.g. XLPE",
        "rating": "e.g. 100A"
      }
    }
  ],
  "testing_requirements": ["each requested test, inspection or site service"]
}

Rules:
- quantity is a number; use 1 when the document gives none.
- omit spec keys the document does not state; do not guess values.
- do not invent items that are not in the document.`

// Compiled regex patterns for extraction repair
var (
	codeFencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	quantityPattern  = regexp.MustCompile(`-?\d[\d,]*(\.\d+)?`)
)

// Normalizer turns raw model output into a guaranteed-shape Extraction
type Normalizer struct {
	logger zerolog.Logger
}

// NewNormalizer creates a new extraction normalizer
func NewNormalizer(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize repairs, parses and coerces raw model output.
// Document-level problems return ErrMalformedExtraction; single bad entries are dropped.
func (n *Normalizer) Normalize(raw string) (*domain.Extraction, error) {
	body, err := repairJSON(raw)
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExtraction, err)
	}

	extraction := &domain.Extraction{
		Company:             companyName(doc),
		Requirements:        []domain.Requirement{},
		TestingRequirements: stringList(doc["testing_requirements"]),
	}

	rawReqs, present := doc["requirements"]
	if !present || rawReqs == nil {
		return extraction, nil
	}
	list, ok := rawReqs.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: requirements is %T, want array", domain.ErrMalformedExtraction, rawReqs)
	}

	for i, entry := range list {
		req, err := coerceRequirement(i, entry)
		if err != nil {
			dropped := domain.DroppedRequirement{Index: i, Reason: err.Error()}
			if obj, ok := entry.(map[string]interface{}); ok {
				dropped.Name = stringValue(obj["name"])
			}
			extraction.Dropped = append(extraction.Dropped, dropped)
			n.logger.Warn().
				Int("requirement_index", i).
				Str("name", dropped.Name).
				Err(err).
				Msg("dropping extracted requirement")
			continue
		}
		extraction.Requirements = append(extraction.Requirements, req)
	}

	return extraction, nil
}

// repairJSON applies the brace-repair heuristic and slices the outermost object
func repairJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	// A reply continuing a pre-filled "{" starts with a key; prose before a
	// complete object keeps its own opening brace.
	if !strings.HasPrefix(text, "{") && (strings.HasPrefix(text, `"`) || !strings.Contains(text, "{")) {
		text = "{" + text
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no complete JSON object in model output", domain.ErrMalformedExtraction)
	}
	return text[start : end+1], nil
}

func coerceRequirement(index int, entry interface{}) (domain.Requirement, error) {
	obj, ok := entry.(map[string]interface{})
	if !ok {
		return domain.Requirement{}, fmt.Errorf("%w: entry is %T, want object", domain.ErrInvalidRequirement, entry)
	}

	name := strings.TrimSpace(stringValue(obj["name"]))
	if name == "" {
		return domain.Requirement{}, fmt.Errorf("%w: missing name", domain.ErrInvalidRequirement)
	}

	qty, err := parseQuantity(obj["quantity"])
	if err != nil {
		return domain.Requirement{}, err
	}

	return domain.Requirement{
		Index:    index,
		Name:     name,
		Quantity: qty,
		Specs:    coerceSpecs(obj["specs"]),
	}, nil
}

// parseQuantity accepts numbers and numeric strings such as "500", "1,000 m" or "2.5".
// Missing quantities default to 1; fractional values round up.
func parseQuantity(v interface{}) (int, error) {
	var f float64
	switch q := v.(type) {
	case nil:
		return 1, nil
	case float64:
		f = q
	case string:
		s := strings.TrimSpace(q)
		if s == "" {
			return 1, nil
		}
		m := quantityPattern.FindString(s)
		if m == "" {
			return 0, fmt.Errorf("%w: unparsable quantity %q", domain.ErrInvalidRequirement, q)
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unparsable quantity %q", domain.ErrInvalidRequirement, q)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: quantity is %T", domain.ErrInvalidRequirement, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: quantity out of range", domain.ErrInvalidRequirement)
	}
	qty := int(math.Ceil(f))
	if qty < 1 {
		return 0, fmt.Errorf("%w: quantity %v is below 1", domain.ErrInvalidRequirement, f)
	}
	return qty, nil
}

// coerceSpecs lowercases keys and stringifies scalar values; anything else yields an empty map
func coerceSpecs(v interface{}) map[string]string {
	specs := map[string]string{}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return specs
	}
	for k, raw := range obj {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if val := strings.TrimSpace(stringValue(raw)); val != "" {
			specs[key] = val
		}
	}
	return specs
}

func companyName(doc map[string]interface{}) string {
	for _, key := range []string{"company", "industry"} {
		if s := strings.TrimSpace(stringValue(doc[key])); s != "" {
			return s
		}
	}
	return domain.UnknownIndustry
}

func stringList(v interface{}) []string {
	out := []string{}
	switch list := v.(type) {
	case []interface{}:
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		if s := strings.TrimSpace(list); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stringValue renders scalars as text; objects and arrays yield ""
func stringValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
