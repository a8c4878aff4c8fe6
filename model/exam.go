package model

import (
	"time"
)

// ExamConfig is one row of the published-results catalog. Rows are
// immutable once loaded; optional classification tokens are empty strings
// when absent (logical null), never the literal "null" at rest.
type ExamConfig struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	ExamDate        string `json:"exam_date"`
	Degree          string `json:"degree"`
	ExamCode        string `json:"exam_code"`
	EType           string `json:"etype,omitempty"`
	Type            string `json:"type,omitempty"`
	Result          string `json:"result,omitempty"`
	Grad            string `json:"grad,omitempty"`
	Regulation      string `json:"regulation"`
	IsSupplementary string `json:"is_supplementary"`
	ExamType        string `json:"exam_type"`
	Year            string `json:"year"`
	Semester        string `json:"semester"`
}

// FilterCriteria is a conjunction of optional facet predicates. Empty
// fields impose no constraint.
type FilterCriteria struct {
	DegreeType string `json:"degree_type,omitempty"`
	Year       string `json:"year,omitempty"`
	Semester   string `json:"semester,omitempty"`
	Regulation string `json:"regulation,omitempty"`
	ExamType   string `json:"exam_type,omitempty"`
	RCRV       string `json:"rc_rv,omitempty"`
}

// ResultArtifact is a persisted result document. Artifacts are created
// exactly once per successful fetch and never mutated.
type ResultArtifact struct {
	ID         string    `json:"id"`
	HallTicket string    `json:"htno"`
	ExamCode   string    `json:"exam_code"`
	Filename   string    `json:"filename"`
	URL        string    `json:"pdf_url"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
