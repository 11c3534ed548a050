package memo

// evictionQueue records keys in insertion order. The front is the oldest
// surviving key. It never decides membership; the entries map does.
type evictionQueue struct {
	keys []Key
	head int
}

func (q *evictionQueue) len() int {
	return len(q.keys) - q.head
}

// push appends k at the back.
func (q *evictionQueue) push(k Key) {
	q.keys = append(q.keys, k)
}

// pop removes and returns the front key.
func (q *evictionQueue) pop() (Key, bool) {
	if q.len() == 0 {
		return "", false
	}
	k := q.keys[q.head]
	q.keys[q.head] = ""
	q.head++

	// Compact once the dead prefix is at least half the backing slice.
	if q.head*2 >= len(q.keys) {
		n := copy(q.keys, q.keys[q.head:])
		clear(q.keys[n:])
		q.keys = q.keys[:n]
		q.head = 0
	}
	return k, true
}

// snapshot returns the live keys, oldest first.
func (q *evictionQueue) snapshot() []Key {
	out := make([]Key, q.len())
	copy(out, q.keys[q.head:])
	return out
}
