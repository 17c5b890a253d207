package connection

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/samus-go/pkg/lineproto"
)

// scriptedServer accepts one connection, reads until the client
// half-closes and replies with reply. The request bytes are sent on the
// returned channel.
func scriptedServer(t *testing.T, reply string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		in, _ := io.ReadAll(conn)
		got <- string(in)
		_, _ = io.WriteString(conn, reply)
	}()
	return ln.Addr().String(), got
}

func TestTextClient_Exchange(t *testing.T) {
	addr, got := scriptedServer(t, "1\n1\n__TERM__")
	c := NewTextClient(addr, time.Second)

	resp, err := c.Exchange(t.Context(), []string{"SET a 1 0", "GET a"})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if len(resp.Values) != 2 || resp.Values[0] != "1" || resp.Values[1] != "1" {
		t.Errorf("values = %q", resp.Values)
	}
	if in := <-got; in != "SET a 1 0\nGET a\n" {
		t.Errorf("server received %q", in)
	}
}

func TestTextClient_Do(t *testing.T) {
	addr, got := scriptedServer(t, "test_value\n__TERM__")
	c := NewTextClient(addr, time.Second)

	v, err := c.Do(t.Context(), lineproto.Request{Action: lineproto.ActionGet, Key: "test_key"})
	if err != nil || v != "test_value" {
		t.Fatalf("Do = %q, %v", v, err)
	}
	if in := <-got; in != "GET test_key\n" {
		t.Errorf("server received %q", in)
	}
}

func TestTextClient_DoServerError(t *testing.T) {
	addr, _ := scriptedServer(t, "Error: Key not found\n__TERM__")
	c := NewTextClient(addr, time.Second)

	_, err := c.Do(t.Context(), lineproto.Request{Action: lineproto.ActionGet, Key: "missing"})
	var se *ServerError
	if !errors.As(err, &se) || se.Message != "Key not found" {
		t.Errorf("err = %v, want server error", err)
	}
}

func TestTextClient_DoEmptyValue(t *testing.T) {
	addr, _ := scriptedServer(t, "\n__TERM__")
	c := NewTextClient(addr, time.Second)

	v, err := c.Do(t.Context(), lineproto.Request{Action: lineproto.ActionDelete, Key: "absent"})
	if err != nil || v != "" {
		t.Errorf("Do = %q, %v", v, err)
	}
}

func TestTextClient_DoRejectsUnframeable(t *testing.T) {
	c := NewTextClient("127.0.0.1:1", time.Second)

	_, err := c.Do(t.Context(), lineproto.Request{Action: lineproto.ActionSet, Key: "k", Value: "two words"})
	if err == nil {
		t.Error("expected error for value with whitespace")
	}
}

func TestTextClient_MissingSentinel(t *testing.T) {
	addr, _ := scriptedServer(t, "partial\n")
	c := NewTextClient(addr, time.Second)

	_, err := c.Exchange(t.Context(), []string{"GET a"})
	if !errors.Is(err, lineproto.ErrMissingSentinel) {
		t.Errorf("err = %v, want %v", err, lineproto.ErrMissingSentinel)
	}
}

func TestTextClient_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewTextClient(addr, time.Second).Exchange(t.Context(), []string{"GET a"})
	if err == nil || !strings.Contains(err.Error(), "connect to") {
		t.Errorf("err = %v", err)
	}
}

func TestTextClient_ContextCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(2 * time.Second)
		}
	}()

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = NewTextClient(ln.Addr().String(), 5*time.Second).Exchange(ctx, []string{"GET a"})
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > time.Second {
		t.Error("exchange not interrupted by context")
	}
}

func TestSession(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		br := bufio.NewReader(conn)
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				_, _ = io.WriteString(conn, "__TERM__")
				return
			}
			if strings.HasPrefix(line, "GET missing") {
				_, _ = io.WriteString(conn, "Error: Key not found\n__TERM__")
				return
			}
			_, _ = io.WriteString(conn, "v\n")
		}
	}()

	s, err := NewTextClient(ln.Addr().String(), time.Second).OpenSession(t.Context())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer s.Close()

	for range 2 {
		if v, err := s.Send("GET a"); err != nil || v != "v" {
			t.Fatalf("Send = %q, %v", v, err)
		}
	}

	_, err = s.Send("GET missing")
	var se *ServerError
	if !errors.As(err, &se) || se.Message != "Key not found" {
		t.Errorf("err = %v, want server error", err)
	}
}
