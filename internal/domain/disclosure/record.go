// internal/domain/disclosure/record.go
package disclosure

import "time"

// SubmitLayout is the layout of Record.SubmitDateTime. The source carries no
// UTC offset; values are civil time in the deployment's fixed zone.
const SubmitLayout = "2006-01-02 15:04"

const (
	DefaultDescription = "不明な書類"
	DefaultFilerName   = "不明な企業"
)

// Record is one entry from the EDINET document list (type=2 metadata).
type Record struct {
	EdinetCode     string `json:"edinetCode"`
	SubmitDateTime string `json:"submitDateTime"`
	DocID          string `json:"docID"`
	DocDescription string `json:"docDescription"`
	FilerName      string `json:"filerName"`
}

// SubmittedAt parses SubmitDateTime in loc.
func (r Record) SubmittedAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(SubmitLayout, r.SubmitDateTime, loc)
}

// Description returns DocDescription or its placeholder when empty.
func (r Record) Description() string {
	if r.DocDescription == "" {
		return DefaultDescription
	}
	return r.DocDescription
}

// Filer returns FilerName or its placeholder when empty.
func (r Record) Filer() string {
	if r.FilerName == "" {
		return DefaultFilerName
	}
	return r.FilerName
}
