// Package extraction decodes loosely shaped model output into typed
// contract fields and audit findings.
package extraction

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
)

// PlaceholderConfidence is reported for every extraction; no scoring model
// backs it yet.
const PlaceholderConfidence = 0.85

var fencePattern = regexp.MustCompile("(?m)^```(?:json)?|```$")

// CleanModelOutput strips markdown code fences and surrounding whitespace.
func CleanModelOutput(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// DecodeExtraction parses model output into an ExtractionResult, applying
// the normalisation steps field by field.
func DecodeExtraction(raw string) (commonModels.ExtractionResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(CleanModelOutput(raw)), &fields); err != nil {
		return commonModels.ExtractionResult{}, errorModel.Wrap(errorModel.KindInternal,
			"Failed to parse AI response. The model returned invalid JSON.", err)
	}

	return commonModels.ExtractionResult{
		Parties:         normalizeStringList(fields["parties"]),
		EffectiveDate:   normalizeString(fields["effective_date"]),
		Term:            normalizeString(fields["term"]),
		GoverningLaw:    normalizeString(fields["governing_law"]),
		PaymentTerms:    normalizeString(fields["payment_terms"]),
		Termination:     normalizeString(fields["termination"]),
		AutoRenewal:     normalizeBool(fields["auto_renewal"]),
		Confidentiality: normalizeString(fields["confidentiality"]),
		Indemnity:       normalizeString(fields["indemnity"]),
		LiabilityCap:    normalizeLiabilityCap(fields["liability_cap"]),
		Signatories:     normalizeSignatories(fields["signatories"]),
		ConfidenceScore: PlaceholderConfidence,
	}, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// normalizeString accepts strings as is and renders numbers and booleans as
// text. Objects and arrays are dropped.
func normalizeString(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}

// normalizeStringList coerces a single scalar to a one-element list.
func normalizeStringList(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		if s := normalizeString(raw); s != nil && *s != "" {
			return []string{*s}
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := normalizeString(item); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// normalizeBool maps "yes", "true" and "1" (any case) to true and other
// strings to false. Non-boolean, non-string values become absent.
func normalizeBool(raw json.RawMessage) *bool {
	if isNull(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "1":
			b = true
		}
	default:
		return nil
	}
	return &b
}

// normalizeLiabilityCap requires an object; an amount that is not numeric
// becomes absent.
func normalizeLiabilityCap(raw json.RawMessage) *commonModels.LiabilityCap {
	if isNull(raw) {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return &commonModels.LiabilityCap{
		Amount:   normalizeAmount(obj["amount"]),
		Currency: normalizeString(obj["currency"]),
	}
}

func normalizeAmount(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// normalizeSignatories accepts a list or a single entry; each entry may be a
// bare name or an object with name and title.
func normalizeSignatories(raw json.RawMessage) []commonModels.Signatory {
	if isNull(raw) {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		list = []json.RawMessage{raw}
	}
	out := make([]commonModels.Signatory, 0, len(list))
	for _, item := range list {
		if s, ok := normalizeSignatory(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func normalizeSignatory(raw json.RawMessage) (commonModels.Signatory, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return commonModels.Signatory{Name: name}, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return commonModels.Signatory{}, false
	}
	s := commonModels.Signatory{}
	if v := normalizeString(obj["name"]); v != nil {
		s.Name = *v
	}
	if v := normalizeString(obj["title"]); v != nil {
		s.Title = *v
	}
	return s, true
}
