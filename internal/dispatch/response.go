package dispatch

import "fmt"

// Kind tags what a Response carries.
type Kind string

const (
	KindAnswer   Kind = "answer"
	KindTable    Kind = "table"
	KindWarning  Kind = "warning"
	KindError    Kind = "error"
	KindNearMiss Kind = "near_miss"
	KindNoMatch  Kind = "no_match"
	KindNoOp     Kind = "noop"
)

// Intent names the route that produced a Response.
type Intent string

const (
	IntentQA         Intent = "qa"
	IntentLeadership Intent = "leadership"
	IntentSubstation Intent = "substation"
	IntentSuggestion Intent = "suggestion"
	IntentNone       Intent = "none"
)

// User-facing messages.
const (
	MsgAnswer              = "Trả lời: %s"
	MsgNearMiss            = "Câu hỏi gần giống: '%s'\n\nHiện tại câu trả lời đang được cập nhật. Vui lòng thử lại sau hoặc liên hệ hỗ trợ."
	MsgNoMatch             = "Không tìm thấy câu trả lời phù hợp trong dữ liệu. Hãy thử lại với cách diễn đạt khác."
	MsgRegionNotIdentified = "Không xác định được tên xã/phường trong câu hỏi."
	MsgNoLeadership        = "Không tìm thấy dữ liệu lãnh đạo cho xã/phường: %s"
	MsgLeadershipTitle     = "Danh sách lãnh đạo xã/phường %s"
	MsgLeadershipError     = "Lỗi khi xử lý dữ liệu lãnh đạo xã: %v"
	MsgSubstationTitle     = "Danh sách TBA trên đường dây %s"
	MsgNoSubstation        = "Không tìm thấy TBA trên đường dây %s"
	MsgSubstationError     = "Lỗi khi lấy dữ liệu TBA: %v"
)

// Table is tabular lookup output ready for display.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Response is the outcome of dispatching one question. Every route returns
// one, including NoOp when the route declines the question.
type Response struct {
	Kind       Kind   `json:"kind"`
	Intent     Intent `json:"intent"`
	Text       string `json:"text,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Table      *Table `json:"table,omitempty"`
	Err        error  `json:"-"`
}

// Answer is a Q&A hit.
func Answer(answer string) Response {
	return Response{
		Kind:   KindAnswer,
		Intent: IntentQA,
		Text:   fmt.Sprintf(MsgAnswer, answer),
		Answer: answer,
	}
}

// TableResult carries lookup rows under a title.
func TableResult(intent Intent, title string, columns []string, rows [][]string) Response {
	return Response{
		Kind:   KindTable,
		Intent: intent,
		Text:   title,
		Table:  &Table{Title: title, Columns: columns, Rows: rows},
	}
}

// Warning is a soft not-found.
func Warning(intent Intent, text string) Response {
	return Response{Kind: KindWarning, Intent: intent, Text: text}
}

// Error reports a lookup source failure. text is the user-facing message.
func Error(intent Intent, text string, err error) Response {
	return Response{Kind: KindError, Intent: intent, Text: text, Err: err}
}

// NearMiss suggests a similar sample question.
func NearMiss(suggestion string) Response {
	return Response{
		Kind:       KindNearMiss,
		Intent:     IntentSuggestion,
		Text:       fmt.Sprintf(MsgNearMiss, suggestion),
		Suggestion: suggestion,
	}
}

// NoMatch means nothing matched.
func NoMatch() Response {
	return Response{Kind: KindNoMatch, Intent: IntentNone, Text: MsgNoMatch}
}

// NoOp means the question was not handled.
func NoOp(intent Intent) Response {
	return Response{Kind: KindNoOp, Intent: intent}
}

// Handled reports whether r should be shown to the user.
func (r Response) Handled() bool {
	return r.Kind != KindNoOp
}
