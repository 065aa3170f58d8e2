package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host     string
	Jid      string
	Password string
	To       string
}

// Notifier sends wind-shift alerts over xmpp. All fields of the config must
// be set for Send to do anything.
type Notifier struct {
	Config Config
}

func serverName(jid string) string {
	return strings.Split(jid, "@")[1]
}

func (n Notifier) Send(message string) error {
	if len(n.Config.Jid) == 0 || len(n.Config.Password) == 0 || len(n.Config.To) == 0 {
		return errors.New("missing xmpp config")
	}

	host := n.Config.Host
	if len(host) == 0 {
		host = serverName(n.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:     host,
		User:     n.Config.Jid,
		Password: n.Config.Password,
		NoTLS:    true,
		StartTLS: true,
		Session:  false,
		Status:   "xa",
	}

	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("Error creating xmpp client")
		return err
	}

	if _, err := talk.Send(xmpp.Chat{Remote: n.Config.To, Type: "chat", Text: message}); err != nil {
		log.WithError(err).Error("Error sending xmpp message")
		return err
	}
	return nil
}
