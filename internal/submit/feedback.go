package submit

import "time"

// Kind classifies a feedback message.
type Kind int

const (
	KindNone Kind = iota
	KindSuccess
	KindError
)

// Generic messages shown when the device gives none.
const (
	MsgSuccess         = "Alvos atualizados com sucesso!"
	MsgFailure         = "Erro ao atualizar alvos."
	MsgCommunication   = "Erro de comunicação ao enviar alvos."
	MsgInvalidHumidity = "Umidade alvo inválida."
)

// DefaultClearAfter is how long a feedback message stays visible.
const DefaultClearAfter = 5 * time.Second

// Feedback is the transient result line shown under the targets form.
// The zero value means "nothing to show".
type Feedback struct {
	// Seq is the submission this feedback belongs to.
	Seq     uint64
	Kind    Kind
	Message string
}

// Visible reports whether there is a message to show.
func (f Feedback) Visible() bool {
	return f.Kind != KindNone
}

// FeedbackFunc receives every feedback change, including clears.
type FeedbackFunc func(Feedback)

// Timer is the subset of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
