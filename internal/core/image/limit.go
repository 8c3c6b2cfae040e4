package image

import (
	"fmt"
	"io"
)

// limitedReader 超過上限時回傳 ErrTooLarge，而不是像 io.LimitReader 靜默截斷
type limitedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func newLimitedReader(r io.Reader, limit int64) io.Reader {
	return &limitedReader{r: r, limit: limit}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return n, fmt.Errorf("%w of %d bytes", ErrTooLarge, l.limit)
	}
	return n, err
}
