package extract

import (
	"regexp"
	"strings"
	"time"
)

var (
	firRe      = regexp.MustCompile(`FIR No\.: (\d+/[A-Z]+/\d+)`)
	dateRe     = regexp.MustCompile(`Date of Incident: (\d{2} [A-Za-z]+ \d{4})`)
	caseTypeRe = regexp.MustCompile(`(?i)Sections: .*(Theft|Burglary|Robbery|House-breaking)`)
	officerRe  = regexp.MustCompile(`(Inspector|SI|Officer) ([A-Za-z]+ [A-Za-z]+)`)
)

// CaseFields scrapes well-known case report fields out of extracted text.
// Missing fields are simply absent from the result.
func CaseFields(text string) map[string]string {
	fields := map[string]string{}
	if m := firRe.FindStringSubmatch(text); m != nil {
		fields["fir_no"] = m[1]
	}
	if m := dateRe.FindStringSubmatch(text); m != nil {
		fields["date"] = normalizeDate(m[1])
	}
	if m := caseTypeRe.FindStringSubmatch(text); m != nil {
		fields["case_type"] = strings.ToLower(m[1])
	}
	if m := officerRe.FindStringSubmatch(text); m != nil {
		fields["police_handling"] = m[1] + " " + m[2]
	}
	return fields
}

func normalizeDate(raw string) string {
	parsed, err := time.Parse("02 January 2006", raw)
	if err != nil {
		return raw
	}
	return parsed.Format("2006-01-02")
}
