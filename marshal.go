package xlsheet

import (
	"strings"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/unicode/norm"
)

// bufferPool is the subset of bytebufferpool.Pool the marshaler needs.
type bufferPool interface {
	Get() *bytebufferpool.ByteBuffer
	Put(b *bytebufferpool.ByteBuffer)
}

// lease tracks the buffers acquired for one engine call.
// Use with defer: l := newLease(pool); defer l.release()
type lease struct {
	pool bufferPool
	held []*bytebufferpool.ByteBuffer
}

func newLease(pool bufferPool) *lease {
	return &lease{pool: pool}
}

// cstring transcodes s to NFC and returns it as a NUL-terminated buffer that
// stays valid until release.
func (l *lease) cstring(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, ErrNulByte
	}
	b := l.pool.Get()
	l.held = append(l.held, b)
	b.B = norm.NFC.AppendString(b.B[:0], s)
	b.B = append(b.B, 0)
	return b.B, nil
}

// release returns every held buffer to the pool. It is safe to call twice.
func (l *lease) release() {
	for i, b := range l.held {
		l.pool.Put(b)
		l.held[i] = nil
	}
	l.held = l.held[:0]
}
