package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
	"github.com/Harshrb2424/jntuh-mcp-server/model"
)

const testCatalog = `Title,URL,Exam_Date,degree,examCode,etype,type,result,grad,Regulation,Is_Supplementary,Exam_Type,Year,Semester
B.Tech IV Year I Semester (R18) Supplementary Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1866&etype=r17&type=intgrade,08-AUGUST-2025,btech,1866,r17,intgrade,,,R18,Yes,Supplementary,IV,I
B.E IV Year I Semester (R16) Regular Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=b.e&examCode=1867,08-AUGUST-2025,b.e,1867,,,,,R16,No,Regular,IV,I
B.Pharmacy IV Year I Semester (R18) Regular Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=bpharmacy&examCode=1870&etype=r18&type=intgrade,15-JAN-2025,bpharmacy,1870,r18,intgrade,,,R18,No,Regular,IV,I
RC/RV B.Tech III Year II Semester (R18) Supplementary Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1871&etype=r18&result=gradercrv&type=rcrvintgrade,20-MAR-2025,btech,1871,r18,rcrvintgrade,gradercrv,,R18,Yes,Supplementary,III,II
M.Tech II Year I Semester (R19) Regular Results,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=mtech&examCode=1872&etype=r19&type=intgrade,10-MAY-2025,mtech,1872,r19,intgrade,,,R19,No,Regular,II,I
Unknown Year Entry,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=1880,01-JAN-2025,btech,1880,,,,,R18,No,Regular,Unknown,nan
`

func newTestCatalog(t *testing.T, content string) *CatalogStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	return NewCatalogStore(&config.CatalogConfig{Path: path})
}

func TestCatalogLoad(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	if store.Count() != 6 {
		t.Fatalf("Expected 6 rows, got %d", store.Count())
	}

	rows := store.Snapshot()
	if rows[0].ExamCode != "1866" {
		t.Errorf("Expected exam code 1866, got %s", rows[0].ExamCode)
	}
	if rows[0].EType != "r17" {
		t.Errorf("Expected etype r17, got %s", rows[0].EType)
	}
	// Absent optional tokens are empty, never the literal "null"
	if rows[1].EType != "" {
		t.Errorf("Expected empty etype, got %q", rows[1].EType)
	}
}

func TestCatalogSeedsSampleWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results_data", "catalog.csv")
	store := NewCatalogStore(&config.CatalogConfig{Path: path})

	if store.Count() == 0 {
		t.Fatal("Expected sample catalog to be seeded")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected sample file on disk: %v", err)
	}
}

func TestCatalogFallsBackEmptyOnBadFile(t *testing.T) {
	store := newTestCatalog(t, "Title,URL\n\"unterminated")

	if store.Count() != 0 {
		t.Errorf("Expected empty catalog, got %d rows", store.Count())
	}
	// Facet reads must still work against the empty catalog
	if values := store.DistinctValues("Year"); len(values) != 0 {
		t.Errorf("Expected no values, got %v", values)
	}
	if rows := store.Filter(model.FilterCriteria{}); len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestCatalogReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	store := NewCatalogStore(&config.CatalogConfig{Path: path})

	smaller := "Title,URL,Exam_Date,degree,examCode,etype,type,result,grad,Regulation,Is_Supplementary,Exam_Type,Year,Semester\n" +
		"Only Row,http://results.jntuh.ac.in/jsp/SearchResult.jsp?degree=btech&examCode=2000,01-JAN-2026,btech,2000,,,,,R22,No,Regular,I,I\n"
	if err := os.WriteFile(path, []byte(smaller), 0o644); err != nil {
		t.Fatalf("Failed to rewrite catalog: %v", err)
	}

	if err := store.Reload(); err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Expected 1 row after reload, got %d", store.Count())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	rows := store.Snapshot()
	rows[0].Title = "mutated"

	if store.Snapshot()[0].Title == "mutated" {
		t.Error("Snapshot mutation leaked into the store")
	}
}

func TestDistinctValues(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	years := store.DistinctValues("Year")
	expected := []string{"IV", "III", "II"}
	if len(years) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, years)
	}
	for i, y := range expected {
		if years[i] != y {
			t.Errorf("Expected %s at position %d, got %s", y, i, years[i])
		}
	}

	// Sentinel tokens never appear, regardless of case
	for _, v := range years {
		if v == "Unknown" || v == "unknown" || v == "nan" {
			t.Errorf("Sentinel value %q leaked into facet", v)
		}
	}

	semesters := store.DistinctValues("Semester")
	for _, v := range semesters {
		if v == "nan" {
			t.Errorf("Sentinel value %q leaked into facet", v)
		}
	}
}

func TestDistinctValuesUnknownColumn(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	if values := store.DistinctValues("NoSuchColumn"); len(values) != 0 {
		t.Errorf("Expected empty slice for unknown column, got %v", values)
	}
}

func TestFilterNoCriteria(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	rows := store.Filter(model.FilterCriteria{})
	if len(rows) != store.Count() {
		t.Fatalf("Expected full catalog, got %d of %d", len(rows), store.Count())
	}
	// Catalog order preserved
	if rows[0].ExamCode != "1866" || rows[4].ExamCode != "1872" {
		t.Error("Expected catalog order to be preserved")
	}
}

func TestFilterDegreeAliases(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	rows := store.Filter(model.FilterCriteria{DegreeType: "BTech"})
	if len(rows) != 4 {
		t.Fatalf("Expected 4 BTech rows (incl. b.e alias), got %d", len(rows))
	}

	found := false
	for _, row := range rows {
		if row.Degree == "b.e" {
			found = true
		}
	}
	if !found {
		t.Error("Expected legacy b.e row to match BTech")
	}

	rows = store.Filter(model.FilterCriteria{DegreeType: "M.Pharmacy"})
	if len(rows) != 0 {
		t.Errorf("Expected 0 M.Pharmacy rows, got %d", len(rows))
	}

	rows = store.Filter(model.FilterCriteria{DegreeType: "MTech"})
	if len(rows) != 1 || rows[0].ExamCode != "1872" {
		t.Errorf("Expected only the mtech row, got %d rows", len(rows))
	}
}

func TestFilterExamType(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	regular := store.Filter(model.FilterCriteria{ExamType: "Regular"})
	for _, row := range regular {
		if row.ExamType != "Regular" {
			t.Errorf("Unexpected exam type %q in Regular results", row.ExamType)
		}
	}

	// Substring rule: plain and compound supplementary labels both match
	supplementary := store.Filter(model.FilterCriteria{ExamType: "Supplementary"})
	if len(supplementary) != 2 {
		t.Fatalf("Expected 2 supplementary rows, got %d", len(supplementary))
	}
}

func TestFilterRCRV(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	yes := store.Filter(model.FilterCriteria{RCRV: "Yes"})
	if len(yes) != 1 || yes[0].ExamCode != "1871" {
		t.Fatalf("Expected only the RC/RV row, got %d rows", len(yes))
	}

	no := store.Filter(model.FilterCriteria{RCRV: "No"})
	for _, row := range no {
		if row.ExamCode == "1871" {
			t.Error("Expected RC/RV row to be excluded for No")
		}
	}
	if len(no) != store.Count()-1 {
		t.Errorf("Expected %d rows for No, got %d", store.Count()-1, len(no))
	}

	// Any other value imposes no constraint
	other := store.Filter(model.FilterCriteria{RCRV: "Maybe"})
	if len(other) != store.Count() {
		t.Errorf("Expected full catalog for unrecognized flag, got %d", len(other))
	}
}

func TestFilterConjunction(t *testing.T) {
	store := newTestCatalog(t, testCatalog)

	rows := store.Filter(model.FilterCriteria{
		DegreeType: "BTech",
		Year:       "iv",
		Semester:   "i",
		Regulation: "r18",
		ExamType:   "Supplementary",
	})
	if len(rows) != 1 || rows[0].ExamCode != "1866" {
		t.Fatalf("Expected exactly the 1866 row, got %d rows", len(rows))
	}
}

func TestIsRCRV(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"RC/RV B.Tech III Year II Semester Results", true},
		{"rcrv supplementary results", true},
		{"B.Tech IV Year I Semester Regular Results", false},
	}
	for _, tt := range tests {
		if got := IsRCRV(tt.title); got != tt.want {
			t.Errorf("IsRCRV(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}
