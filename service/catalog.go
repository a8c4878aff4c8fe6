package service

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
	"github.com/Harshrb2424/jntuh-mcp-server/model"
)

// sampleCatalog is written to the catalog path when no dataset exists, so
// a fresh checkout serves a working discovery flow out of the box.
const sampleCatalog = `Title,URL,Exam_Date,degree,examCode,etype,type,result,grad,Regulation,Is_Supplementary,Exam_Type,Year,Semester
B.Tech IV Year I Semester (R18) Supplementary JUNE-2025 Examinations Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1866&etype=r17&type=intgrade,08-AUGUST-2025,btech,1866,r17,intgrade,,,R18,Yes,Supplementary,IV,I
B.Tech IV Year I Semester (R16) Supplementary JUNE-2025 Examinations Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1867&etype=r17&type=intgrade,08-AUGUST-2025,btech,1867,r17,intgrade,,,R16,Yes,Supplementary,IV,I
B.Tech IV Year I Semester (R15) Supplementary JUNE-2025 Examinations Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1868,08-AUGUST-2025,btech,1868,,,,,R15,Yes,Supplementary,IV,I
B.Tech IV Year I Semester (R18) (Minor degree) Supplementary JUNE-2025 Examinations Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1869&etype=r17&type=intgrade,08-AUGUST-2025,btech,1869,r17,intgrade,,,R18,Yes,Supplementary,IV,I
B.Pharmacy IV Year I Semester (R18) Regular JAN-2025 Examinations Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=bpharmacy&examCode=1870&etype=r18&type=intgrade,15-JAN-2025,bpharmacy,1870,r18,intgrade,,,R18,No,Regular,IV,I
RC/RV B.Tech III Year II Semester (R18) Supplementary Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1871&etype=r18&result=gradercrv&type=rcrvintgrade,20-MAR-2025,btech,1871,r18,rcrvintgrade,gradercrv,,R18,Yes,Supplementary,III,II
M.Tech II Year I Semester (R19) Regular Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=mtech&examCode=1872&etype=r19&type=intgrade,10-MAY-2025,mtech,1872,r19,intgrade,,,R19,No,Regular,II,I
`

// degreeAliases maps a caller-facing degree category to the catalog tokens
// it covers. "b.e" is a legacy alias for btech rows.
var degreeAliases = map[string][]string{
	"btech":      {"btech", "b.e"},
	"b.pharmacy": {"bpharmacy"},
	"mtech":      {"mtech"},
	"m.pharmacy": {"mpharmacy"},
}

// CatalogStore holds the in-memory catalog of exam configurations.
// The catalog is read-only after load; Reload replaces the whole dataset
// atomically. Every read path works from a copy so callers can never
// observe a partially-swapped view.
type CatalogStore struct {
	mu   sync.RWMutex
	rows []model.ExamConfig
	path string
}

// NewCatalogStore loads the catalog from disk. A missing file is seeded
// with the sample dataset; any other load failure falls back to an empty
// catalog with the full declared schema rather than failing the process.
func NewCatalogStore(cfg *config.CatalogConfig) *CatalogStore {
	s := &CatalogStore{path: cfg.Path}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err == nil {
			if err := os.WriteFile(s.path, []byte(sampleCatalog), 0o644); err != nil {
				slog.Warn("failed to seed sample catalog", "path", s.path, "error", err)
			}
		}
	}

	rows, err := loadCatalog(s.path)
	if err != nil {
		slog.Error("failed to load catalog, starting empty", "path", s.path, "error", err)
		rows = nil
	}
	s.rows = rows

	slog.Info("catalog loaded", "path", s.path, "rows", len(s.rows))
	return s
}

func loadCatalog(path string) ([]model.ExamConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Map header names to positions so column order in the file is free
	// to drift from the declared schema.
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}

	cell := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]model.ExamConfig, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, model.ExamConfig{
			Title:           cell(record, "Title"),
			URL:             cell(record, "URL"),
			ExamDate:        cell(record, "Exam_Date"),
			Degree:          cell(record, "degree"),
			ExamCode:        cell(record, "examCode"),
			EType:           cell(record, "etype"),
			Type:            cell(record, "type"),
			Result:          cell(record, "result"),
			Grad:            cell(record, "grad"),
			Regulation:      cell(record, "Regulation"),
			IsSupplementary: cell(record, "Is_Supplementary"),
			ExamType:        cell(record, "Exam_Type"),
			Year:            cell(record, "Year"),
			Semester:        cell(record, "Semester"),
		})
	}
	return rows, nil
}

// Reload re-reads the catalog file and swaps the dataset in one step.
func (s *CatalogStore) Reload() error {
	rows, err := loadCatalog(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()

	slog.Info("catalog reloaded", "path", s.path, "rows", len(rows))
	return nil
}

// Snapshot returns a copy of every catalog row in file order.
func (s *CatalogStore) Snapshot() []model.ExamConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]model.ExamConfig, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Count returns the number of catalog rows.
func (s *CatalogStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// columnValue reads a row field by its catalog column name. Unknown
// columns read as empty, matching the schema-tolerant facet index.
func columnValue(row *model.ExamConfig, column string) string {
	switch column {
	case "Title":
		return row.Title
	case "URL":
		return row.URL
	case "Exam_Date":
		return row.ExamDate
	case "degree":
		return row.Degree
	case "examCode":
		return row.ExamCode
	case "etype":
		return row.EType
	case "type":
		return row.Type
	case "result":
		return row.Result
	case "grad":
		return row.Grad
	case "Regulation":
		return row.Regulation
	case "Is_Supplementary":
		return row.IsSupplementary
	case "Exam_Type":
		return row.ExamType
	case "Year":
		return row.Year
	case "Semester":
		return row.Semester
	}
	return ""
}

// DistinctValues returns the distinct values of a column in first-seen
// order. Logical nulls and the sentinel tokens "unknown" and "nan" are
// excluded. An unknown column yields an empty list, never an error.
func (s *CatalogStore) DistinctValues(column string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	values := []string{}
	for i := range s.rows {
		v := columnValue(&s.rows[i], column)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if lower == "unknown" || lower == "nan" {
			continue
		}
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

// Filter returns the rows satisfying every present predicate, in catalog
// order. Absent criteria fields impose no constraint.
func (s *CatalogStore) Filter(criteria model.FilterCriteria) []model.ExamConfig {
	rows := s.Snapshot()

	matched := []model.ExamConfig{}
	for _, row := range rows {
		if matchesCriteria(&row, criteria) {
			matched = append(matched, row)
		}
	}
	return matched
}

func matchesCriteria(row *model.ExamConfig, criteria model.FilterCriteria) bool {
	if criteria.DegreeType != "" && !matchesDegree(row.Degree, criteria.DegreeType) {
		return false
	}
	if criteria.Year != "" && !strings.EqualFold(row.Year, criteria.Year) {
		return false
	}
	if criteria.Semester != "" && !strings.EqualFold(row.Semester, criteria.Semester) {
		return false
	}
	if criteria.Regulation != "" && !strings.EqualFold(row.Regulation, criteria.Regulation) {
		return false
	}
	if criteria.ExamType != "" && !matchesExamType(row.ExamType, criteria.ExamType) {
		return false
	}
	if criteria.RCRV != "" && !matchesRCRV(row.Title, criteria.RCRV) {
		return false
	}
	return true
}

func matchesDegree(degree, degreeType string) bool {
	token := strings.ToLower(degree)
	key := strings.ToLower(degreeType)

	aliases, ok := degreeAliases[key]
	if !ok {
		// Unrecognized categories match their own token so new degrees
		// work without a code change.
		return token == key
	}
	for _, alias := range aliases {
		if token == alias {
			return true
		}
	}
	return false
}

func matchesExamType(examType, class string) bool {
	field := strings.ToLower(examType)
	switch class {
	case "Regular":
		return field == "regular"
	case "Supplementary":
		// Substring on purpose: compound labels like "RC/RV Supplementary"
		// are still supplementary results.
		return strings.Contains(field, "supplementary")
	}
	return true
}

// IsRCRV reports whether a title marks a recounting/revaluation result.
func IsRCRV(title string) bool {
	upper := strings.ToUpper(title)
	return strings.Contains(upper, "RC/RV") || strings.Contains(upper, "RCRV")
}

func matchesRCRV(title, flag string) bool {
	switch flag {
	case "Yes":
		return IsRCRV(title)
	case "No":
		return !IsRCRV(title)
	}
	return true
}
