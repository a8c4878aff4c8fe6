package service

import (
	"strings"

	"github.com/Harshrb2424/jntuh-mcp-server/model"
)

// nullToken is the placeholder the result endpoint expects for absent
// classification tokens; it must never be stored in the catalog itself.
const nullToken = "null"

// Resolve locates the catalog row for an exam code and reconstructs the
// full parameter set for the result endpoint. Parameters are merged in two
// stages: the declared columns seed the mapping (absent tokens become the
// literal "null"), then every key=value pair embedded in the stored
// reference URL overwrites the seed. When the two disagree, the reference
// string wins. The returned reference URL is used as the outbound Referer.
func (s *CatalogStore) Resolve(examCode string) (map[string]string, string, error) {
	row, err := s.findByExamCode(examCode)
	if err != nil {
		return nil, "", err
	}

	params := map[string]string{
		"degree":   row.Degree,
		"examCode": row.ExamCode,
		"etype":    orNull(row.EType),
		"type":     orNull(row.Type),
		"result":   orNull(row.Result),
		"grad":     orNull(row.Grad),
	}

	// The reference URL may carry parameters the columns never declared,
	// and may contradict the ones they did.
	for key, value := range parseReferenceParams(row.URL) {
		params[key] = value
	}

	return params, row.URL, nil
}

func (s *CatalogStore) findByExamCode(examCode string) (*model.ExamConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.rows {
		if s.rows[i].ExamCode == examCode {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, ErrCatalogEntryNotFound
}

// parseReferenceParams extracts key=value pairs from the query-like tail
// of a reference URL. The string is not guaranteed to be well-formed, so
// this deliberately avoids url.Parse: everything after the first "?" is
// split on "&", each component on the first "=".
func parseReferenceParams(reference string) map[string]string {
	params := map[string]string{}

	_, query, found := strings.Cut(reference, "?")
	if !found {
		return params
	}

	for _, pair := range strings.Split(query, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		params[key] = value
	}
	return params
}

func orNull(v string) string {
	if v == "" {
		return nullToken
	}
	return v
}
