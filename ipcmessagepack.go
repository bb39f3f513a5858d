package posixipc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackSerializer is the default Serializer, encoding values with
// MessagePack.
type MsgpackSerializer struct{}

// Marshal implements Serializer.
func (ms MsgpackSerializer) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal implements Serializer.
func (ms MsgpackSerializer) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// MsgpackTransport frames messages with a 4-byte big-endian length
// prefix over a reader/writer pair, typically a pipe shared with the
// peer process. It is the stream-based counterpart to Queue.
type MsgpackTransport struct {
	reader     io.ReadCloser
	writer     io.WriteCloser
	bufferPool *BufferPool
}

// NewMsgpackTransport creates a transport over the given stream pair.
func NewMsgpackTransport(reader io.ReadCloser, writer io.WriteCloser) *MsgpackTransport {
	return &MsgpackTransport{
		reader:     reader,
		writer:     writer,
		bufferPool: NewBufferPool(8192, 10),
	}
}

// Send writes one length-prefixed message. The length is flushed ahead
// of the payload so the peer can start a sized read immediately.
func (mt *MsgpackTransport) Send(data []byte) error {
	lengthBytes := mt.bufferPool.Get()[:4]
	binary.BigEndian.PutUint32(lengthBytes, uint32(len(data)))

	_, err := mt.writer.Write(lengthBytes)
	mt.bufferPool.Put(lengthBytes)
	if err != nil {
		return fmt.Errorf("write message length: %w", err)
	}
	if err := mt.flushWriter(); err != nil {
		return err
	}

	if _, err := mt.writer.Write(data); err != nil {
		return fmt.Errorf("write message body: %w", err)
	}
	return mt.flushWriter()
}

// Receive reads one complete length-prefixed message.
func (mt *MsgpackTransport) Receive() ([]byte, error) {
	lengthBuf := mt.bufferPool.Get()[:4]
	_, err := io.ReadFull(mt.reader, lengthBuf)
	length := binary.BigEndian.Uint32(lengthBuf)
	mt.bufferPool.Put(lengthBuf)
	if err != nil {
		return nil, fmt.Errorf("read message length: %w", err)
	}

	// Small messages go through the pool; the payload is copied out so
	// the buffer can be returned.
	if length <= uint32(mt.bufferPool.bufSize) {
		buf := mt.bufferPool.Get()[:length]
		if _, err := io.ReadFull(mt.reader, buf); err != nil {
			mt.bufferPool.Put(buf)
			return nil, fmt.Errorf("read message body: %w", err)
		}
		result := make([]byte, length)
		copy(result, buf)
		mt.bufferPool.Put(buf)
		return result, nil
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(mt.reader, data); err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}
	return data, nil
}

// Close closes both underlying streams.
func (mt *MsgpackTransport) Close() error {
	if err := mt.reader.Close(); err != nil {
		return err
	}
	return mt.writer.Close()
}

// Flush forces any buffered data out through the writer.
func (mt *MsgpackTransport) Flush() error {
	return mt.flushWriter()
}

func (mt *MsgpackTransport) flushWriter() error {
	if flusher, ok := mt.writer.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}
