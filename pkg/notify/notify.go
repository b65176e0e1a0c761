package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/model"
)

// Notifier publishes a message for every session stored by an import.
// Downstream consumers (leaderboards, coaching tools) subscribe to these.
type Notifier interface {
	SessionImported(sess *model.Session) error
	Close()
}

// NewNoop returns a Notifier that discards everything. Used when no
// messaging endpoint is configured.
func NewNoop() Notifier {
	return &noopNotifier{}
}

type noopNotifier struct{}

func (n *noopNotifier) SessionImported(sess *model.Session) error { return nil }
func (n *noopNotifier) Close()                                    {}

type (
	NatsOption   func(*natsNotifier)
	natsNotifier struct {
		conn    *nats.Conn
		subject string
		l       *log.Logger
	}
)

func WithSubjectPrefix(prefix string) NatsOption {
	return func(n *natsNotifier) {
		n.subject = prefix
	}
}

func WithLogger(arg *log.Logger) NatsOption {
	return func(n *natsNotifier) {
		n.l = arg
	}
}

// NewNats connects to the given NATS url and publishes imported sessions
// on <prefix>.session.imported.
func NewNats(url string, opts ...NatsOption) (Notifier, error) {
	ret := &natsNotifier{subject: "lts", l: log.Default().Named("notify")}
	for _, opt := range opts {
		opt(ret)
	}
	conn, err := nats.Connect(url, nats.Name("laptelemetry-service"))
	if err != nil {
		return nil, err
	}
	ret.conn = conn
	return ret, nil
}

type sessionImportedMsg struct {
	SessionID  string `json:"sessionId"`
	DriverName string `json:"driverName"`
	TrackID    int    `json:"trackId"`
	TrackName  string `json:"trackName"`
	Date       string `json:"date"`
	LapCount   int    `json:"lapCount"`
	BestLapMs  *int   `json:"bestLapMs,omitempty"`
	Source     string `json:"source"`
}

func (n *natsNotifier) SessionImported(sess *model.Session) error {
	msg := sessionImportedMsg{
		SessionID:  sess.ID.String(),
		DriverName: sess.DriverName,
		TrackID:    sess.TrackID,
		TrackName:  sess.TrackName,
		Date:       sess.Date.Format("2006-01-02"),
		LapCount:   sess.LapCount,
		BestLapMs:  sess.BestLapMs,
		Source:     string(sess.Source),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s.session.imported", n.subject)
	if err := n.conn.Publish(subject, data); err != nil {
		n.l.Warn("could not publish session",
			log.String("subject", subject), log.ErrorField(err))
		return err
	}
	return nil
}

func (n *natsNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
