package commonModels

import "time"

type DocStatus string

const (
	DocStatusUploaded   DocStatus = "uploaded"
	DocStatusProcessing DocStatus = "processing"
	DocStatusIngested   DocStatus = "ingested"
	DocStatusFailed     DocStatus = "failed"
)

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var ERR DocType = "ERROR"

type DocumentMetadata struct {
	OriginPath  string    `json:"origin_path,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	NumPages    int       `json:"num_pages,omitempty"`
	ContentType DocType   `json:"content_type,omitempty"`
}

type Document struct {
	Id         string           `json:"id"`
	Filename   string           `json:"filename"`
	FileSize   int64            `json:"file_size"`
	Text       string           `json:"-"`
	Status     DocStatus        `json:"status"`
	UploadedAt time.Time        `json:"uploaded_at"`
	Metadata   DocumentMetadata `json:"metadata"`
}

// Chunk is a persisted span of a document. Page and offsets are pointers
// because stored rows may legitimately lack them.
type Chunk struct {
	Id         string    `json:"chunk_id"`
	DocumentId string    `json:"document_id"`
	Index      int       `json:"chunk_index"`
	Text       string    `json:"chunk_text"`
	Page       *int      `json:"page_number,omitempty"`
	CharStart  *int      `json:"char_start,omitempty"`
	CharEnd    *int      `json:"char_end,omitempty"`
	Embedding  []float32 `json:"-"`
}

func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is ordered by descending score, ties by ascending chunk index.
type RetrievalResult []ScoredChunk

type Citation struct {
	DocumentId     string  `json:"document_id"`
	ChunkId        string  `json:"chunk_id"`
	ChunkIndex     int     `json:"chunk_index"`
	Page           *int    `json:"page"`
	CharRange      [2]int  `json:"char_range"`
	RelevanceScore float64 `json:"relevance_score"`
}

type RetrievalStrategy string

const (
	StrategyVector  RetrievalStrategy = "vector"
	StrategyLexical RetrievalStrategy = "lexical"
)

type Answer struct {
	DocumentId string            `json:"document_id"`
	Query      string            `json:"query"`
	Text       string            `json:"answer"`
	Citations  []Citation        `json:"citations"`
	Strategy   RetrievalStrategy `json:"strategy"`
	Cached     bool              `json:"cached,omitempty"`
}

type LiabilityCap struct {
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
}

type Signatory struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

type ExtractionResult struct {
	Id              string        `json:"id"`
	DocumentId      string        `json:"document_id"`
	Parties         []string      `json:"parties"`
	EffectiveDate   *string       `json:"effective_date"`
	Term            *string       `json:"term"`
	GoverningLaw    *string       `json:"governing_law"`
	PaymentTerms    *string       `json:"payment_terms"`
	Termination     *string       `json:"termination"`
	AutoRenewal     *bool         `json:"auto_renewal"`
	Confidentiality *string       `json:"confidentiality"`
	Indemnity       *string       `json:"indemnity"`
	LiabilityCap    *LiabilityCap `json:"liability_cap"`
	Signatories     []Signatory   `json:"signatories"`
	ConfidenceScore float64       `json:"confidence_score"`
	CreatedAt       time.Time     `json:"created_at"`
}

type Finding struct {
	ClauseType   string `json:"clause_type"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	EvidenceText string `json:"evidence_text"`
	EvidenceSpan []int  `json:"evidence_span,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
}

type AuditReport struct {
	DocumentId    string    `json:"document_id"`
	TotalFindings int       `json:"total_findings"`
	Findings      []Finding `json:"findings"`
}

type HistoryEntry struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Strategy RetrievalStrategy `json:"strategy"`
	AskedAt  time.Time         `json:"asked_at"`
}

// DocumentInfo is a document as listed to callers, with its chunk count.
type DocumentInfo struct {
	Document
	ChunkCount int `json:"chunk_count"`
}
