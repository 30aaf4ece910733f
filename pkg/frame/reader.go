// Package frame 把字节流切分为以 '\n' 结尾的记录行。
package frame

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/strngrthnall/bridge-telemetria/pkg/metrics"
)

const (
	DefaultReadBufferSize = 4096
	DefaultLineBufferSize = 512
	DefaultMaxLineBytes   = 64 * 1024
)

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Options Reader 构造参数，零值使用默认值
type Options struct {
	ReadBufferSize int
	LineBufferSize int
	MaxLineBytes   int
	ReadTimeout    time.Duration
	Peer           string
	Logger         *zap.Logger
	Metrics        *metrics.SessionMetrics
}

// Reader 逐行读取记录。空白行、非 UTF-8 行与超长行均被跳过（记录日志），
// 流结束返回 io.EOF，其余读错误返回 *FatalReadError
type Reader struct {
	src     io.Reader
	r       *bufio.Reader
	line    []byte
	offset  int64
	eof     bool
	opts    Options
	logger  *zap.Logger
	metrics *metrics.SessionMetrics
}

func NewReader(src io.Reader, opts Options) *Reader {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = DefaultReadBufferSize
	}
	if opts.LineBufferSize <= 0 {
		opts.LineBufferSize = DefaultLineBufferSize
	}
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		src:     src,
		r:       bufio.NewReaderSize(src, opts.ReadBufferSize),
		line:    make([]byte, 0, opts.LineBufferSize),
		opts:    opts,
		logger:  logger.With(zap.String("peer", opts.Peer)),
		metrics: opts.Metrics,
	}
}

// Next 返回下一条候选记录（已去除首尾空白）。
// 流末尾没有换行的残余内容同样作为一条记录返回，随后返回 io.EOF
func (r *Reader) Next() (string, error) {
	for {
		if r.eof {
			return "", io.EOF
		}
		start := r.offset
		line, err := r.readLine()
		switch {
		case errors.Is(err, ErrLineTooLong):
			r.metrics.LineTooLong()
			r.logger.Warn("discarded oversized line", zap.Int64("offset", start),
				zap.Int("max_line_bytes", r.opts.MaxLineBytes))
			continue
		case errors.Is(err, io.EOF):
			r.eof = true
			if len(line) == 0 {
				return "", io.EOF
			}
		case err != nil:
			return "", &FatalReadError{Err: err}
		}

		text := bytes.TrimSpace(line)
		if len(text) == 0 {
			r.metrics.BlankLine()
			continue
		}
		if !utf8.Valid(text) {
			encErr := &EncodingError{Offset: start, Len: len(line)}
			r.metrics.EncodingFailed()
			r.logger.Warn("discarded line with invalid encoding", zap.Error(encErr))
			continue
		}
		return string(text), nil
	}
}

// readLine 读取到 '\n'（不含）或 EOF。超长行会被读完丢弃并返回 ErrLineTooLong；
// 若超长行以 EOF 结束，则同时标记 eof
func (r *Reader) readLine() ([]byte, error) {
	r.line = r.line[:0]
	tooLong := false
	for {
		if err := r.armDeadline(); err != nil {
			return nil, err
		}
		chunk, err := r.r.ReadSlice('\n')
		r.offset += int64(len(chunk))
		content := len(chunk)
		if err == nil {
			content-- // '\n'
		}
		if !tooLong && len(r.line)+content > r.opts.MaxLineBytes {
			tooLong = true
			r.line = r.line[:0]
		}
		if !tooLong {
			r.line = append(r.line, chunk...)
		}

		switch {
		case err == nil:
			if tooLong {
				return nil, ErrLineTooLong
			}
			return r.line[:len(r.line)-1], nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if tooLong {
				r.eof = true
				return nil, ErrLineTooLong
			}
			return r.line, io.EOF
		default:
			return nil, err
		}
	}
}

func (r *Reader) armDeadline() error {
	if r.opts.ReadTimeout <= 0 {
		return nil
	}
	if d, ok := r.src.(deadliner); ok {
		return d.SetReadDeadline(time.Now().Add(r.opts.ReadTimeout))
	}
	return nil
}
