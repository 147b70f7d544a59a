package app

import (
	"testing"
	"time"

	"edinet_notifier/internal/domain/disclosure"
	"edinet_notifier/internal/domain/watchlist"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2025, 6, 20, hour, minute, second, 0, JST)
}

func rec(code, submit, id string) disclosure.Record {
	return disclosure.Record{EdinetCode: code, SubmitDateTime: submit, DocID: id}
}

func ids(records []disclosure.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.DocID)
	}
	return out
}

func TestDecideDaytimeSelectsMatchedCodesOnly(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{
		rec("E001", "2025-06-20 13:00", "D1"),
		rec("E002", "2025-06-20 13:30", "D2"),
	}

	d := Decide(at(14, 0, 0), DefaultPolicy(), targets, records, logger)

	assert.False(t, d.NightRun)
	assert.Equal(t, []string{"D1"}, ids(d.Selected))
	assert.True(t, d.HadSelections())
}

func TestDecideNightRunSkipsRecordsCoveredByDaytime(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{
		rec("E001", "2025-06-20 15:30", "early"),
		rec("E001", "2025-06-20 16:00", "late"),
	}

	d := Decide(at(17, 0, 0), DefaultPolicy(), targets, records, logger)

	assert.True(t, d.NightRun)
	assert.Equal(t, at(15, 45, 0), d.Threshold)
	assert.Equal(t, []string{"late"}, ids(d.Selected))
}

func TestDecideThresholdIsExclusive(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{
		rec("E001", "2025-06-20 15:45", "edge"),
		rec("E001", "2025-06-20 15:46", "next"),
	}

	d := Decide(at(20, 0, 0), DefaultPolicy(), targets, records, logger)

	assert.Equal(t, []string{"next"}, ids(d.Selected))
	assert.False(t, d.eligible(at(15, 45, 0)))
	assert.True(t, d.eligible(at(15, 45, 1)))
}

func TestDecideDaytimeHasNoLowerBound(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{
		rec("E001", "2025-06-20 00:01", "a"),
		rec("E001", "2025-06-20 15:59", "b"),
		rec("E001", "2025-06-20 23:59", "c"),
	}

	d := Decide(at(15, 59, 59), DefaultPolicy(), targets, records, logger)

	assert.False(t, d.NightRun)
	assert.Equal(t, []string{"a", "b", "c"}, ids(d.Selected))
}

func TestDecideNightBoundaryHour(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})

	assert.False(t, Decide(at(15, 59, 59), DefaultPolicy(), targets, nil, logger).NightRun)
	assert.True(t, Decide(at(16, 0, 0), DefaultPolicy(), targets, nil, logger).NightRun)
}

func TestDecideSkipsMalformedTimestampsAndContinues(t *testing.T) {
	logger, hook := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{
		rec("E001", "", "missing"),
		rec("E001", "2025/06/20 10:00", "slashes"),
		rec("E001", "2025-06-20T10:00:00+09:00", "iso"),
		rec("E002", "garbage", "untracked"),
		rec("E001", "2025-06-20 10:00", "good"),
	}

	d := Decide(at(12, 0, 0), DefaultPolicy(), targets, records, logger)

	assert.Equal(t, []string{"good"}, ids(d.Selected))
	assert.Equal(t, 3, d.Skipped)
	assert.Len(t, hook.AllEntries(), 3)
}

func TestDecideEmptyInputs(t *testing.T) {
	logger, _ := test.NewNullLogger()
	records := []disclosure.Record{rec("E001", "2025-06-20 10:00", "x")}

	assert.Empty(t, Decide(at(17, 0, 0), DefaultPolicy(), watchlist.NewCodeSet(nil), records, logger).Selected)
	assert.Empty(t, Decide(at(17, 0, 0), DefaultPolicy(), watchlist.NewCodeSet([]string{"E001"}), nil, logger).Selected)
}

func TestDecidePreservesInputOrder(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001", "E002"})
	records := []disclosure.Record{
		rec("E002", "2025-06-20 18:30", "third"),
		rec("E001", "2025-06-20 16:10", "first"),
		rec("E001", "2025-06-20 17:00", "second"),
	}

	d := Decide(at(21, 0, 0), DefaultPolicy(), targets, records, logger)

	assert.Equal(t, []string{"third", "first", "second"}, ids(d.Selected))
}

func TestDecideConvertsNowIntoPolicyZone(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{rec("E001", "2025-06-20 15:00", "D1")}

	// 07:30 UTC is 16:30 JST: a night run.
	d := Decide(time.Date(2025, 6, 20, 7, 30, 0, 0, time.UTC), DefaultPolicy(), targets, records, logger)

	require.True(t, d.NightRun)
	assert.Equal(t, JST, d.Now.Location())
	assert.Empty(t, d.Selected)
}

func TestDecideUsesConfiguredPolicy(t *testing.T) {
	logger, _ := test.NewNullLogger()
	targets := watchlist.NewCodeSet([]string{"E001"})
	records := []disclosure.Record{
		rec("E001", "2025-06-20 17:00", "before"),
		rec("E001", "2025-06-20 17:31", "after"),
	}
	policy := Policy{NightStartHour: 18, ThresholdHour: 17, ThresholdMinute: 30, Location: JST}

	assert.Equal(t, []string{"before", "after"}, ids(Decide(at(17, 59, 0), policy, targets, records, logger).Selected))
	assert.Equal(t, []string{"after"}, ids(Decide(at(18, 0, 0), policy, targets, records, logger).Selected))
}
