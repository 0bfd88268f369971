package service

import (
	"github.com/clinica-nutricion/turnos-client/internal/api/metrics"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// Dialog is the confirmation dialog a board has open.
type Dialog string

const (
	DialogNone           Dialog = "none"
	DialogReserve        Dialog = "reserve"
	DialogCancel         Dialog = "cancel"
	DialogFinalize       Dialog = "finalize"
	DialogDeleteDay      Dialog = "delete_day"
	DialogDeleteSelected Dialog = "delete_selected"
)

// NoticeKind tells the view how to render a notice.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is the last message a board produced.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

func infoNotice(text string) *Notice { return &Notice{Kind: NoticeInfo, Text: text} }

func errorNotice(err error) *Notice {
	return &Notice{Kind: NoticeError, Text: domain.MessageOf(err)}
}

// fetchSeq tags slot fetches so only the most recently issued one may
// replace the board's slots. Callers hold the board mutex.
type fetchSeq struct {
	board  string
	latest uint64
}

func (f *fetchSeq) next() uint64 {
	f.latest++
	return f.latest
}

// current reports whether seq is still the latest fetch, counting the
// response as stale otherwise.
func (f *fetchSeq) current(seq uint64) bool {
	if seq == f.latest {
		return true
	}
	metrics.StaleResponsesTotal.WithLabelValues(f.board).Inc()
	return false
}

func actionResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
