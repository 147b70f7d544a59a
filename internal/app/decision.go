// internal/app/decision.go
package app

import (
	"time"

	"edinet_notifier/internal/domain/disclosure"
	"edinet_notifier/internal/domain/watchlist"

	"github.com/sirupsen/logrus"
)

// JST is the fixed zone EDINET timestamps are expressed in.
var JST = time.FixedZone("JST", 9*60*60)

// Policy splits a day into a daytime and a night run.
// A night run only notifies records submitted strictly after the threshold,
// which the daytime run is assumed to have covered.
type Policy struct {
	NightStartHour  int
	ThresholdHour   int
	ThresholdMinute int
	Location        *time.Location
}

// DefaultPolicy: night from 16:00, threshold 15:45 (after the TSE close).
func DefaultPolicy() Policy {
	return Policy{NightStartHour: 16, ThresholdHour: 15, ThresholdMinute: 45, Location: JST}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return JST
	}
	return p.Location
}

// Decision is the outcome of Decide for one run.
type Decision struct {
	Now       time.Time
	NightRun  bool
	Threshold time.Time
	Selected  []disclosure.Record
	Skipped   int // matched records dropped for a bad timestamp
}

func (d Decision) HadSelections() bool {
	return len(d.Selected) > 0
}

// Decide selects the records to notify for a run at now.
// Records keep their input order; malformed timestamps are logged and skipped.
func Decide(now time.Time, policy Policy, targets watchlist.CodeSet, records []disclosure.Record, log logrus.FieldLogger) Decision {
	loc := policy.location()
	now = now.In(loc)
	d := Decision{
		Now:       now,
		NightRun:  now.Hour() >= policy.NightStartHour,
		Threshold: time.Date(now.Year(), now.Month(), now.Day(), policy.ThresholdHour, policy.ThresholdMinute, 0, 0, loc),
	}

	for _, rec := range records {
		if !targets.Contains(rec.EdinetCode) {
			continue
		}
		if rec.SubmitDateTime == "" {
			d.Skipped++
			log.WithField("doc_id", rec.DocID).Warn("Record has no submit time, skipping")
			continue
		}
		submitted, err := rec.SubmittedAt(loc)
		if err != nil {
			d.Skipped++
			log.WithFields(logrus.Fields{
				"doc_id":      rec.DocID,
				"submit_time": rec.SubmitDateTime,
			}).WithError(ErrRecordParse).Warn("Invalid date format from API")
			continue
		}
		if !d.eligible(submitted) {
			continue
		}
		d.Selected = append(d.Selected, rec)
	}
	return d
}

// eligible: daytime runs have no lower bound; night runs need submitted > threshold.
func (d Decision) eligible(submitted time.Time) bool {
	if !d.NightRun {
		return true
	}
	return submitted.After(d.Threshold)
}
