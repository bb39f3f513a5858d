//go:build linux || darwin

package posixipc

import (
	"encoding/binary"
	"fmt"
)

// queueHeaderSize is the shared ring header: a producer cursor and a
// consumer cursor, 8 bytes each.
const queueHeaderSize = 16

// Queue passes messages between a producer process and a consumer
// process through a fixed-slot ring in named shared memory. Two named
// counting semaphores carry the flow control: "<name>.free" counts empty
// slots and blocks the producer when the ring is full, "<name>.used"
// counts filled slots and blocks the consumer when it is empty. The
// semaphore operations also order the memory traffic between the
// processes, so the ring itself needs no locking.
//
// The ring is single-producer/single-consumer: one process sends, one
// receives. Both sides must agree on name, slotSize, and slotCount.
// Payloads are encoded with MessagePack via Send/Receive; SendBytes and
// ReceiveBytes move raw frames for callers that bring their own codec.
type Queue struct {
	shm        *SharedMemory
	free       *NamedSemaphore
	used       *NamedSemaphore
	serializer Serializer
	slotSize   int
	slotCount  int
	name       string
}

// CreateQueue creates the shared memory ring and its two semaphores and
// returns the creating side's handle. Creation is exclusive: if any of
// the three named resources already exists, CreateQueue fails with
// EEXIST and removes whatever it had created. slotSize bounds a single
// encoded message (minus a 4-byte frame header).
func CreateQueue(name string, mode Mode, slotSize, slotCount int) (*Queue, error) {
	if err := checkQueueGeometry(slotSize, slotCount); err != nil {
		return nil, err
	}

	shm, err := CreateSharedMemory(name, mode, queueHeaderSize+slotSize*slotCount, true)
	if err != nil {
		return nil, err
	}
	free, err := CreateSemaphore(name+".free", mode, uint(slotCount), true)
	if err != nil {
		shm.Close()
		UnlinkSharedMemory(name)
		return nil, err
	}
	used, err := CreateSemaphore(name+".used", mode, 0, true)
	if err != nil {
		free.Close()
		UnlinkSemaphore(name + ".free")
		shm.Close()
		UnlinkSharedMemory(name)
		return nil, err
	}

	return &Queue{
		shm:        shm,
		free:       free,
		used:       used,
		serializer: MsgpackSerializer{},
		slotSize:   slotSize,
		slotCount:  slotCount,
		name:       name,
	}, nil
}

// OpenQueue attaches to a queue created by another process. slotSize and
// slotCount must match the values the creator used; they determine where
// this side reads and writes inside the ring.
func OpenQueue(name string, slotSize, slotCount int) (*Queue, error) {
	if err := checkQueueGeometry(slotSize, slotCount); err != nil {
		return nil, err
	}

	shm, err := OpenSharedMemory(name, queueHeaderSize+slotSize*slotCount)
	if err != nil {
		return nil, err
	}
	free, err := OpenSemaphore(name + ".free")
	if err != nil {
		shm.Close()
		return nil, err
	}
	used, err := OpenSemaphore(name + ".used")
	if err != nil {
		free.Close()
		shm.Close()
		return nil, err
	}

	return &Queue{
		shm:        shm,
		free:       free,
		used:       used,
		serializer: MsgpackSerializer{},
		slotSize:   slotSize,
		slotCount:  slotCount,
		name:       name,
	}, nil
}

// UnlinkQueue removes the queue's three named resources from the system
// namespace. Attached handles keep working until closed. The first
// failure is returned, but every resource is attempted.
func UnlinkQueue(name string) error {
	err := UnlinkSharedMemory(name)
	if e := UnlinkSemaphore(name + ".free"); err == nil {
		err = e
	}
	if e := UnlinkSemaphore(name + ".used"); err == nil {
		err = e
	}
	return err
}

// Name returns the name the queue was obtained with.
func (q *Queue) Name() string {
	return q.name
}

// Send encodes v with MessagePack and enqueues it, blocking while the
// ring is full.
func (q *Queue) Send(v interface{}) error {
	if q.shm == nil {
		return ErrClosed
	}
	data, err := q.serializer.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return q.SendBytes(data)
}

// SendBytes enqueues one raw frame, blocking while the ring is full.
// The frame must fit in a slot alongside its 4-byte length header.
func (q *Queue) SendBytes(data []byte) error {
	if q.shm == nil {
		return ErrClosed
	}
	if len(data) > q.slotSize-4 {
		return fmt.Errorf("posixipc: message of %d bytes exceeds slot payload capacity %d", len(data), q.slotSize-4)
	}

	if err := q.free.Wait(); err != nil {
		return err
	}
	buf := q.shm.Bytes()
	tail := binary.LittleEndian.Uint64(buf[0:8])
	slot := q.slotOffset(tail)
	binary.LittleEndian.PutUint32(buf[slot:slot+4], uint32(len(data)))
	copy(buf[slot+4:slot+4+len(data)], data)
	binary.LittleEndian.PutUint64(buf[0:8], tail+1)
	return q.used.Post()
}

// Receive dequeues one message, blocking while the ring is empty, and
// decodes it into v.
func (q *Queue) Receive(v interface{}) error {
	data, err := q.ReceiveBytes()
	if err != nil {
		return err
	}
	if err := q.serializer.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// ReceiveBytes dequeues one raw frame, blocking while the ring is empty.
// The returned slice is a copy and stays valid after the slot is reused.
func (q *Queue) ReceiveBytes() ([]byte, error) {
	if q.shm == nil {
		return nil, ErrClosed
	}

	if err := q.used.Wait(); err != nil {
		return nil, err
	}
	buf := q.shm.Bytes()
	head := binary.LittleEndian.Uint64(buf[8:16])
	slot := q.slotOffset(head)
	length := int(binary.LittleEndian.Uint32(buf[slot : slot+4]))
	if length > q.slotSize-4 {
		return nil, fmt.Errorf("posixipc: corrupt frame of %d bytes in slot %d", length, head%uint64(q.slotCount))
	}
	data := make([]byte, length)
	copy(data, buf[slot+4:slot+4+length])
	binary.LittleEndian.PutUint64(buf[8:16], head+1)
	if err := q.free.Post(); err != nil {
		return nil, err
	}
	return data, nil
}

// Close detaches this process from the queue's resources. The named
// resources persist until UnlinkQueue.
func (q *Queue) Close() error {
	if q.shm == nil {
		return nil
	}
	q.free.Close()
	q.used.Close()
	err := q.shm.Close()
	q.shm = nil
	return err
}

func (q *Queue) slotOffset(idx uint64) int {
	return queueHeaderSize + int(idx%uint64(q.slotCount))*q.slotSize
}

func checkQueueGeometry(slotSize, slotCount int) error {
	if slotSize <= 4 {
		return fmt.Errorf("posixipc: slot size %d leaves no payload room", slotSize)
	}
	if slotCount <= 0 {
		return fmt.Errorf("posixipc: invalid slot count %d", slotCount)
	}
	return nil
}
