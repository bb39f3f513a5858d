package posixipc

// Serializer converts between Go values and byte slices for transport
// between processes. The default implementation uses MessagePack for
// compact binary encoding.
type Serializer interface {
	// Marshal encodes a Go value to bytes.
	Marshal(v interface{}) ([]byte, error)

	// Unmarshal decodes bytes into a Go value.
	Unmarshal(data []byte, v interface{}) error
}

// Transport sends and receives complete byte messages. Implementations
// own the wire protocol (framing, buffering); the default implementation
// uses length-prefixed binary messages over an io pair.
type Transport interface {
	// Send transmits one message to the remote endpoint.
	Send(data []byte) error

	// Receive reads one complete message from the remote endpoint.
	Receive() ([]byte, error)

	// Close releases transport resources and closes underlying streams.
	Close() error

	// Flush ensures any buffered data is sent immediately.
	Flush() error
}
