package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that holds messages while disconnected.
// Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	buf      []bufferedMsg
	head     int // oldest message
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	if r.count == len(r.buf) {
		if !r.overflow {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", len(r.buf))
			r.overflow = true
		}
		// Overwrite the oldest and advance head past it.
		r.buf[r.head] = msg
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[(r.head+r.count)%len(r.buf)] = msg
	r.count++
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	result := make([]bufferedMsg, r.count)
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(r.head+i)%len(r.buf)]
	}

	r.head = 0
	r.count = 0
	r.overflow = false
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
