package app

import (
	"fmt"

	"edinet_notifier/internal/domain/disclosure"
	"edinet_notifier/internal/infra/edinet"
)

func disclosureMessage(baseURL string, rec disclosure.Record) string {
	return fmt.Sprintf("📢 *開示情報 (%s)*\n*企業名*: %s\n*書類*: %s\n*PDF*: %s",
		rec.SubmitDateTime,
		rec.Filer(),
		rec.Description(),
		edinet.DocumentURL(baseURL, rec.DocID),
	)
}

func runLabel(nightRun bool) string {
	if nightRun {
		return "夜間チェック"
	}
	return "日中チェック"
}

func noDisclosureMessage(date string, nightRun bool, targetCount int) string {
	return fmt.Sprintf("✅ *開示なし (%s %s)*\n監視対象(%d社)について、新規の開示はありませんでした。",
		date, runLabel(nightRun), targetCount)
}
