package extraction

import (
	"encoding/json"
	"strings"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

const (
	UnparsedClauseType  = "Unparsed"
	unparsedSeverity    = "medium"
	unparsedDescription = "Could not parse structured output from the model."
)

type rawFinding struct {
	ClauseType   *string `json:"clause_type"`
	Severity     *string `json:"severity"`
	Description  *string `json:"description"`
	EvidenceText *string `json:"evidence_text"`
	EvidenceSpan []int   `json:"evidence_span"`
	Suggestion   *string `json:"suggestion"`
}

// DecodeFindings parses an array of findings, or a single finding object.
// Output that does not fit becomes one Unparsed finding carrying the start
// of the raw text as evidence.
func DecodeFindings(raw string) []commonModels.Finding {
	cleaned := CleanModelOutput(raw)

	var items []rawFinding
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var single rawFinding
		if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
			return unparsed(raw)
		}
		items = []rawFinding{single}
	}

	findings := make([]commonModels.Finding, 0, len(items))
	for _, item := range items {
		f, ok := item.toFinding()
		if !ok {
			return unparsed(raw)
		}
		findings = append(findings, f)
	}
	return findings
}

func (r rawFinding) toFinding() (commonModels.Finding, bool) {
	if r.ClauseType == nil || r.Severity == nil || r.Description == nil || r.EvidenceText == nil {
		return commonModels.Finding{}, false
	}
	f := commonModels.Finding{
		ClauseType:   *r.ClauseType,
		Severity:     strings.ToLower(*r.Severity),
		Description:  *r.Description,
		EvidenceText: *r.EvidenceText,
		EvidenceSpan: r.EvidenceSpan,
	}
	if r.Suggestion != nil {
		f.Suggestion = *r.Suggestion
	}
	return f, true
}

func unparsed(raw string) []commonModels.Finding {
	return []commonModels.Finding{{
		ClauseType:   UnparsedClauseType,
		Severity:     unparsedSeverity,
		Description:  unparsedDescription,
		EvidenceText: truncate(strings.TrimSpace(raw), config.UnparsedEvidenceMax),
	}}
}
