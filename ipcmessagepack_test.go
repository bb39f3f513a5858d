package posixipc

import (
	"bytes"
	"io"
	"testing"
)

func TestMsgpackSerializerRoundTrip(t *testing.T) {
	type payload struct {
		Name  string `msgpack:"name"`
		Count int    `msgpack:"count"`
	}

	s := MsgpackSerializer{}
	data, err := s.Marshal(payload{Name: "sem", Count: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got payload
	if err := s.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != "sem" || got.Count != 3 {
		t.Errorf("round trip produced %+v", got)
	}
}

func TestMsgpackTransportSendReceive(t *testing.T) {
	clientR, serverW := io.Pipe()
	serverR, clientW := io.Pipe()

	server := NewMsgpackTransport(serverR, serverW)
	client := NewMsgpackTransport(clientR, clientW)
	defer server.Close()
	defer client.Close()

	msg := []byte("coordinate on /my_sem")
	go func() {
		if err := server.Send(msg); err != nil {
			t.Errorf("Send: %v", err)
		}
	}()

	got, err := client.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("received %q, want %q", got, msg)
	}
}

func TestMsgpackTransportLargeMessage(t *testing.T) {
	clientR, serverW := io.Pipe()
	serverR, clientW := io.Pipe()

	server := NewMsgpackTransport(serverR, serverW)
	client := NewMsgpackTransport(clientR, clientW)
	defer server.Close()
	defer client.Close()

	// Larger than the transport's pooled buffers, forcing the direct
	// allocation path.
	msg := bytes.Repeat([]byte("x"), 64*1024)
	go func() {
		if err := server.Send(msg); err != nil {
			t.Errorf("Send: %v", err)
		}
	}()

	got, err := client.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("large message corrupted in transit (%d bytes)", len(got))
	}
}

func TestMsgpackTransportMultipleMessages(t *testing.T) {
	clientR, serverW := io.Pipe()
	serverR, clientW := io.Pipe()

	server := NewMsgpackTransport(serverR, serverW)
	client := NewMsgpackTransport(clientR, clientW)
	defer server.Close()
	defer client.Close()

	msgs := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	go func() {
		for _, m := range msgs {
			if err := server.Send(m); err != nil {
				t.Errorf("Send %q: %v", m, err)
				return
			}
		}
	}()

	for _, want := range msgs {
		got, err := client.Receive()
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("received %q, want %q", got, want)
		}
	}
}
