// Package smtp proporciona el transporte SMTP para el envío de correos.
package smtp

import "io"

// Client interfaz del cliente SMTP.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface interfaz del transporte SMTP.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
