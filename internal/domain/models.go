package domain

import "time"

// Solution is the ordered set of treatment steps attached to a diagnosis.
type Solution struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// Diagnosis is the transient output of a classifier run. It is never
// persisted directly; the pipeline flattens it into a RecognitionRecord.
type Diagnosis struct {
	DiseaseName string   `json:"diseaseName"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Cause       string   `json:"cause"`
	Solution    Solution `json:"solution"`
	Symptoms    []string `json:"symptoms,omitempty"`
}

// RecognitionRecord is the durable result of one successful pipeline run.
// The ID is assigned once at creation and never changes; records are not
// updated in place.
type RecognitionRecord struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId,omitempty"`
	DiseaseName string    `json:"diseaseName"`
	Confidence  float64   `json:"confidence"`
	Description string    `json:"description"`
	Cause       string    `json:"cause"`
	Solution    Solution  `json:"solution"`
	Symptoms    []string  `json:"symptoms,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Diagnosis extracts the transient diagnosis view of a stored record.
func (r *RecognitionRecord) Diagnosis() *Diagnosis {
	return &Diagnosis{
		DiseaseName: r.DiseaseName,
		Confidence:  r.Confidence,
		Description: r.Description,
		Cause:       r.Cause,
		Solution:    r.Solution,
		Symptoms:    r.Symptoms,
	}
}

// HistoryEntry is the list projection of a RecognitionRecord.
type HistoryEntry struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	ImageURL    string  `json:"imageUrl"`
	DiseaseName string  `json:"diseaseName"`
	Confidence  float64 `json:"confidence"`
}

// FeedbackStatus values follow the triage workflow new -> in_review -> resolved.
type FeedbackStatus string

const (
	FeedbackNew      FeedbackStatus = "new"
	FeedbackInReview FeedbackStatus = "in_review"
	FeedbackResolved FeedbackStatus = "resolved"
)

// Feedback is a user report about a recognition result. ResultID is free
// text, not a foreign key.
type Feedback struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"userId,omitempty"`
	Username  string         `json:"username,omitempty"`
	Text      string         `json:"text"`
	ResultID  string         `json:"resultId,omitempty"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"timestamp"`
}

// KnowledgeItem is one seeded knowledge-base entry describing a rice pest
// or disease and its control measures.
type KnowledgeItem struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Name          string   `json:"name"`
	Type          string   `json:"type,omitempty"`
	Aliases       []string `json:"aliases,omitempty"`
	KeyFeatures   string   `json:"keyFeatures,omitempty"`
	AffectedParts []string `json:"affectedParts,omitempty"`
	Pathogen      string   `json:"pathogen,omitempty"`
	Conditions    string   `json:"conditions,omitempty"`
	Controls      Controls `json:"controls"`
}

// Controls groups control measures by approach.
type Controls struct {
	Agricultural []string `json:"agricultural,omitempty"`
	Physical     []string `json:"physical,omitempty"`
	Biological   []string `json:"biological,omitempty"`
	Chemical     []string `json:"chemical,omitempty"`
}
