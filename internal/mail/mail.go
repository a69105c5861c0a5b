// Package mail delivers the account emails: registration confirmation and
// password recovery.
//
// Delivery is best-effort. Callers log a failed Send and carry on; the user
// can always ask for the code again.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"text/template"
)

// Kind selects the template of an outgoing message.
type Kind string

const (
	KindRegistration     Kind = "registration"
	KindPasswordRecovery Kind = "password-recovery"
)

// Payload is the data rendered into a message.
type Payload struct {
	Code string
}

// Mailer sends one message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, to string, kind Kind, payload Payload) error
}

// Message is a rendered email, ready for any transport.
type Message struct {
	To      string
	Subject string
	Body    string
}

type layout struct {
	subject string
	path    string // front-end route; the code goes in the param query value
	param   string
	body    *template.Template
}

var templates = map[Kind]layout{
	KindRegistration: {
		subject: "Finish your registration",
		path:    "/confirm-email",
		param:   "code",
		body: template.Must(template.New("registration").Parse(
			`<h1>Thanks for your registration</h1>
<p>To finish registration please follow the link below:
<a href="{{.Link}}">complete registration</a>
</p>`)),
	},
	KindPasswordRecovery: {
		subject: "Password recovery",
		path:    "/password-recovery",
		param:   "recoveryCode",
		body: template.Must(template.New("recovery").Parse(
			`<h1>Password recovery</h1>
<p>To finish password recovery please follow the link below:
<a href="{{.Link}}">recovery password</a>
</p>`)),
	},
}

// Render builds the message for kind. baseURL is the public address of the
// front end the links point at.
func Render(baseURL, to string, kind Kind, payload Payload) (Message, error) {
	t, ok := templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("mail: unknown message kind %q", kind)
	}

	link := baseURL + t.path + "?" + url.Values{t.param: {payload.Code}}.Encode()

	var body bytes.Buffer
	if err := t.body.Execute(&body, struct{ Link string }{link}); err != nil {
		return Message{}, fmt.Errorf("mail: rendering %s: %w", kind, err)
	}
	return Message{To: to, Subject: t.subject, Body: body.String()}, nil
}
