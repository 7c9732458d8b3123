// Package present renders dispatch responses for people and machines.
package present

import (
	"encoding/json"
	"io"

	"github.com/spherical-ai/hoidap/internal/dispatch"
)

// Presenter displays messages of a given severity and tables.
type Presenter interface {
	ShowSuccess(msg string)
	ShowWarning(msg string)
	ShowError(msg string)
	ShowInfo(msg string)
	ShowTable(columns []string, rows [][]string)
}

// Render maps a Response onto presenter calls. NoOp renders nothing.
func Render(p Presenter, resp dispatch.Response) {
	switch resp.Kind {
	case dispatch.KindAnswer:
		p.ShowSuccess(resp.Text)
	case dispatch.KindTable:
		p.ShowSuccess(resp.Text)
		if resp.Table != nil {
			p.ShowTable(resp.Table.Columns, resp.Table.Rows)
		}
	case dispatch.KindWarning, dispatch.KindNoMatch:
		p.ShowWarning(resp.Text)
	case dispatch.KindError:
		p.ShowError(resp.Text)
	case dispatch.KindNearMiss:
		p.ShowInfo(resp.Text)
	case dispatch.KindNoOp:
	}
}

// Envelope is the machine-readable form of one answered question.
type Envelope struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
	dispatch.Response
}

// WriteJSON writes one response as a JSON line.
func WriteJSON(w io.Writer, sessionID, question string, resp dispatch.Response) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(Envelope{SessionID: sessionID, Question: question, Response: resp})
}
