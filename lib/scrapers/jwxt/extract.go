package jwxt

import (
	"strings"

	"gradewatch-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	// the grade table renders at least 6 cells per real grade row,
	// header and filler rows come up short
	minGradeRowCells = 6
	courseCodeCell   = 2
	scoreCell        = 5

	signatureSeparator = "|"
)

// Signature derives the diff key for one grade row. The separator
// never occurs in course codes or numeric scores on this site, this
// is a plain-text key rather than a digest.
func Signature(courseCode, score string) string {
	return courseCode + signatureSeparator + score
}

// ExtractSignatures parses the grade listing page into signatures,
// one per qualifying table row, in page order. Rows with missing
// cells or blank course code/score are skipped. An unparseable or
// empty page yields no signatures, never an error.
func ExtractSignatures(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var signatures []string
	doc.Find("#dataList tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minGradeRowCells {
			return
		}

		courseCode := htmlutil.CleanText(htmlutil.GetText(cells.Get(courseCodeCell)))
		score := htmlutil.CleanText(htmlutil.GetText(cells.Get(scoreCell)))
		if courseCode == "" || score == "" {
			return
		}

		signatures = append(signatures, Signature(courseCode, score))
	})
	return signatures
}
