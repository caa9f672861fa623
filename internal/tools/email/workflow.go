package email

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

type failure struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type questions struct {
	Viability  []string `json:"viability_questions"`
	CrossField []string `json:"cross_field_questions"`
}

type expert struct {
	Email       string   `json:"email"`
	Specialties []string `json:"specialties"`
	Reason      string   `json:"reason"`
}

type draft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type reply struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type memo struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// workflow accumulates the events of one Donna run.
type workflow struct {
	statuses  []string
	failures  []failure
	subject   string
	caseTitle string
	questions questions
	expert    *expert
	draft     *draft
	savedTo   string
	emailSent bool
	reply     *reply
	memo      *memo
	sent      bool
	done      bool
}

func (w *workflow) handle(ev backend.Event) error {
	var err error

	switch ev.Name {
	case "status":
		var s struct {
			Message string `json:"message"`
		}
		if err = json.Unmarshal([]byte(ev.Data), &s); err == nil {
			w.statuses = append(w.statuses, s.Message)
		}
	case "error":
		var f failure
		if err = json.Unmarshal([]byte(ev.Data), &f); err == nil {
			w.failures = append(w.failures, f)
		}
	case "email_created":
		var c struct {
			Subject string `json:"subject"`
		}
		if err = json.Unmarshal([]byte(ev.Data), &c); err == nil {
			w.subject = c.Subject
		}
	case "title":
		var t struct {
			Title string `json:"title"`
		}
		if err = json.Unmarshal([]byte(ev.Data), &t); err == nil {
			w.caseTitle = t.Title
		}
	case "questions":
		// Generated by a model; an unexpected shape leaves the lists empty.
		var q questions
		if json.Unmarshal([]byte(ev.Data), &q) == nil {
			w.questions = q
		}
	case "expert_selected":
		w.expert = &expert{}
		err = json.Unmarshal([]byte(ev.Data), w.expert)
	case "email_draft":
		w.draft = &draft{}
		err = json.Unmarshal([]byte(ev.Data), w.draft)
	case "internal_saved":
		var s struct {
			InboxID string `json:"inbox_id"`
		}
		if err = json.Unmarshal([]byte(ev.Data), &s); err == nil {
			w.savedTo = s.InboxID
		}
	case "email_sent":
		w.emailSent = true
	case "expert_reply":
		w.reply = &reply{}
		err = json.Unmarshal([]byte(ev.Data), w.reply)
	case "memo":
		w.memo = &memo{}
		err = json.Unmarshal([]byte(ev.Data), w.memo)
	case "done":
		var d struct {
			Sent bool `json:"sent"`
		}
		if err = json.Unmarshal([]byte(ev.Data), &d); err == nil {
			w.sent = d.Sent
			w.done = true
		}
	}

	if err != nil {
		return fmt.Errorf("decode %s event: %w", ev.Name, err)
	}

	return nil
}

func (w *workflow) lastStatus() string {
	if len(w.statuses) == 0 {
		return "none"
	}

	return w.statuses[len(w.statuses)-1]
}

func (w *workflow) report() string {
	var b toolkit.Builder

	title := w.caseTitle
	if title == "" {
		title = w.subject
	}

	b.Linef("Case: %s", title)
	b.Field("Email subject", w.subject)

	if w.expert != nil {
		b.Heading("Expert selected:")
		b.Field("Email", w.expert.Email)
		b.Field("Specialties", strings.Join(w.expert.Specialties, ", "))
		b.Field("Reason", w.expert.Reason)
	}

	writeList(&b, "Viability questions:", w.questions.Viability)
	writeList(&b, "Cross-field questions:", w.questions.CrossField)

	if w.draft != nil {
		b.Heading("Draft email to " + orUnknown(w.draft.To) + ":")
		b.Field("Subject", w.draft.Subject)
		b.Linef("%s", w.draft.Text)
	}

	if w.reply != nil {
		b.Heading("Expert reply from " + orUnknown(w.reply.From) + ":")
		b.Linef("%s", w.reply.Text)
	}

	if w.memo != nil {
		b.Heading("Memo: " + w.memo.Title)
		b.Linef("%s", w.memo.Body)
	}

	b.Heading("Delivery:")

	switch {
	case w.sent || w.emailSent:
		b.Linef("Email sent to the expert.")
	case w.savedTo != "":
		b.Linef("External email blocked; draft saved to %s.", w.savedTo)
	default:
		b.Linef("Email not sent.")
	}

	if len(w.failures) > 0 {
		b.Heading("Warnings:")

		for _, f := range w.failures {
			b.Linef("- %s: %s", f.Stage, f.Error)
		}
	}

	return b.Text()
}

func writeList(b *toolkit.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}

	b.Heading(heading)

	for i, item := range items {
		b.Linef("%d. %s", i+1, item)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
