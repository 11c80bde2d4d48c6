package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/booking-mediator/internal/interval"
)

// User-facing replies. LINE delivers these verbatim, so they stay polite and
// self-contained even when something went wrong internally.
const (
	msgCancelled      = "予約をキャンセルしました。"
	msgCancelNotFound = "対象の予定が見つかりませんでした。日時の指定をお願いします。"
	msgChangeNotFound = "変更対象の予定が見つかりませんでした。元の日時を教えてください。"
	msgMissingBounds  = "開始・終了日時を読み取れませんでした。ご希望の日時を教えてください。"
	msgInternalError  = "処理中にエラーが発生しました。お手数ですが内容を確認してください。"
	msgNoFreeSlots    = "該当日に空き時間が見つかりませんでした。"
)

const startStamp = "2006-01-02 15:04"

func msgCreated(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("予約を受け付けました。%sからの予定です。", start.In(loc).Format(startStamp))
}

func msgUpdated(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("予約を変更しました。%sからの予定です。", start.In(loc).Format(startStamp))
}

// FormatSlot renders one free slot the way replies present it.
func FormatSlot(slot interval.TimeRange, loc *time.Location) string {
	return fmt.Sprintf("%s - %s",
		slot.Start.In(loc).Format(startStamp),
		slot.End.In(loc).Format("15:04"))
}

// FormatSlots renders at most limit slots.
func FormatSlots(slots []interval.TimeRange, loc *time.Location, limit int) []string {
	if limit > 0 && len(slots) > limit {
		slots = slots[:limit]
	}
	formatted := make([]string, 0, len(slots))
	for _, slot := range slots {
		formatted = append(formatted, FormatSlot(slot, loc))
	}
	return formatted
}

// fallbackRefusal is used when the reply composer is unavailable.
func fallbackRefusal(slots []string) string {
	if len(slots) == 0 {
		return "申し訳ありません、ご希望の時間帯はすでに予約が入っています。" + msgNoFreeSlots
	}
	var sb strings.Builder
	sb.WriteString("申し訳ありません、ご希望の時間帯はすでに予約が入っています。以下の空き時間はいかがでしょうか。\n")
	sb.WriteString(strings.Join(slots, "\n"))
	return sb.String()
}
