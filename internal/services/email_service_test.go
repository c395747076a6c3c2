package services

import (
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"gotransit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startSMTPServer runs a single-connection plaintext SMTP server that does not
// advertise STARTTLS. The delivered message body is sent on the returned channel.
func startSMTPServer(t *testing.T) (host string, port int, delivered <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tc := textproto.NewConn(conn)
		tc.PrintfLine("220 127.0.0.1 ESMTP ready")

		var data strings.Builder
		inData := false
		for {
			line, err := tc.ReadLine()
			if err != nil {
				return
			}
			if inData {
				if line == "." {
					inData = false
					tc.PrintfLine("250 OK")
					continue
				}
				data.WriteString(line)
				data.WriteString("\n")
				continue
			}
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				tc.PrintfLine("250-127.0.0.1")
				tc.PrintfLine("250 SIZE 1048576")
			case strings.HasPrefix(line, "DATA"):
				tc.PrintfLine("354 Send data")
				inData = true
			case strings.HasPrefix(line, "QUIT"):
				tc.PrintfLine("221 Bye")
				out <- data.String()
				return
			default:
				tc.PrintfLine("250 OK")
			}
		}
	}()

	addrHost, addrPort, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(addrPort)
	require.NoError(t, err)

	return addrHost, portNum, out
}

func TestSendOTPEmailPlainConnection(t *testing.T) {
	host, port, delivered := startSMTPServer(t)

	svc := NewEmailService(&config.SMTPConfig{
		Host:      host,
		Port:      port,
		FromEmail: "noreply@gotransit.app",
		FromName:  "GoTransit",
		TLS:       false,
	}, newTestLogger())

	err := svc.SendOTPEmail(context.Background(), "rider@example.com", "123456", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	select {
	case msg := <-delivered:
		assert.Contains(t, msg, "To: rider@example.com")
		assert.Contains(t, msg, "Subject: Your verification code")
		assert.Contains(t, msg, "123456")
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestSendEmailTLSRequiresStartTLS(t *testing.T) {
	host, port, _ := startSMTPServer(t)

	svc := NewEmailService(&config.SMTPConfig{
		Host:      host,
		Port:      port,
		FromEmail: "noreply@gotransit.app",
		FromName:  "GoTransit",
		TLS:       true,
	}, newTestLogger())

	err := svc.SendEmail(context.Background(), "rider@example.com", "Hello", "<p>Hello</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}
