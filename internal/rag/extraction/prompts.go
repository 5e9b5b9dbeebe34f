package extraction

import (
	"fmt"

	"github.com/akolanti/ContractRAG/internal/config"
)

const extractionTemplate = `You are a legal contract analyzer. Extract the following fields from the contract text below.
Return ONLY valid JSON with no explanations, no markdown formatting, no code blocks.

Required JSON structure:
{
  "parties": ["Party A name", "Party B name"],
  "effective_date": "YYYY-MM-DD or descriptive text",
  "term": "duration description",
  "governing_law": "jurisdiction",
  "payment_terms": "payment description",
  "termination": "termination clause text",
  "auto_renewal": true or false,
  "confidentiality": "confidentiality clause text",
  "indemnity": "indemnity clause text",
  "liability_cap": {"amount": numeric_value, "currency": "USD"},
  "signatories": [{"name": "Full Name", "title": "Title"}]
}

If a field is not found, use null. Be precise and extract exact text where applicable.

Contract Text (first %d characters):
%s

Return only the JSON object:`

const auditTemplate = `You are a contract risk analysis AI assistant. Review the following contract text and detect potentially risky clauses.
Return a structured JSON array where each finding has:
- clause_type: The type of clause (e.g., "Auto-Renewal", "Liability", "Indemnity")
- severity: One of ["low", "medium", "high"]
- description: Why this clause is risky or noteworthy
- evidence_text: The exact snippet or clause from the contract
- suggestion: How to mitigate or modify the risk (optional)

Focus especially on:
1. Auto-renewal with less than 30 days notice
2. Unlimited liability clauses
3. Broad indemnity clauses
4. Weak confidentiality terms
5. Ambiguous termination terms

Contract Text:
%s

Return strictly in JSON format (array of findings), no extra commentary.`

func ExtractionPrompt(text string) string {
	return fmt.Sprintf(extractionTemplate, config.ExtractionTextLimit, truncate(text, config.ExtractionTextLimit))
}

func AuditPrompt(text string) string {
	return fmt.Sprintf(auditTemplate, truncate(text, config.AuditTextLimit))
}

// truncate keeps at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
