package mail

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"streaming-catalog/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeSMTP accepts a single message and returns its DATA section.
func fakeSMTP(t *testing.T) (string, int, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	data := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		reply("220 localhost ESMTP")

		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250 localhost")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				reply("250 OK")
			case cmd == "DATA":
				reply("354 End data with <CR><LF>.<CR><LF>")
				var body strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					body.WriteString(l)
				}
				data <- body.String()
				reply("250 OK queued")
			case cmd == "QUIT":
				reply("221 Bye")
				return
			default:
				reply("502 not implemented")
			}
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return host, p, data
}

func TestSMTPMailer_Send(t *testing.T) {
	host, port, data := fakeSMTP(t)
	mailer := New(utils.EmailConfig{Host: host, Port: port, From: "noreply@example.com"}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, mailer.Send(ctx, "viewer@example.com", "Password reset", "Your code is 123456"))

	select {
	case msg := <-data:
		assert.Contains(t, msg, "To: viewer@example.com\r\n")
		assert.Contains(t, msg, "Subject: Password reset\r\n")
		assert.Contains(t, msg, "Your code is 123456")
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}

func TestSMTPMailer_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	mailer := New(utils.EmailConfig{Host: "127.0.0.1", Port: addr.Port, From: "a@b.c"}, zap.NewNop())
	err = mailer.Send(context.Background(), "x@y.z", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to SMTP server")
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mailer := New(utils.EmailConfig{}, zap.New(core))

	require.NoError(t, mailer.Send(context.Background(), "x@y.z", "Welcome", "hi"))
	entries := logs.FilterMessage("Email (not sent)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "x@y.z", entries[0].ContextMap()["to"])
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@x", "to@x", "Hello", "line1\nline2")
	assert.True(t, strings.HasPrefix(msg, "From: from@x\r\n"))
	assert.Contains(t, msg, "line1\r\nline2\r\n")
}
