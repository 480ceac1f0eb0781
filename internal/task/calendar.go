package task

import (
	"net/url"

	"github.com/mikan/homeru/internal/model"
)

// googleCalendarBaseURL はGoogleカレンダーの予定作成画面のURL。
const googleCalendarBaseURL = "https://calendar.google.com/calendar/render"

// calendarNote はエクスポートされる予定に付く固定の説明文。
const calendarNote = "褒めてくれる勉強時間・タスク管理アプリから追加されたタスクです。"

// CalendarLink はタスクをGoogleカレンダーの終日予定として登録する
// ディープリンクを生成する。タイトルはタスク名、期間は期限日から
// 翌日までの終日イベント（終了日は排他的なので期限日+1日）。
// このリンクは生成するだけで、パースされることはない。
func CalendarLink(t model.Task) string {
	start := dateOnly(t.DueDate)
	end := start.AddDate(0, 0, 1)

	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", t.Name)
	v.Set("dates", start.Format("20060102")+"/"+end.Format("20060102"))
	v.Set("details", calendarNote)

	return googleCalendarBaseURL + "?" + v.Encode()
}
