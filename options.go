package xlsheet

import (
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// Options holds configuration shared by a Workbook and its worksheets.
type Options struct {
	logger        zerolog.Logger
	tableStyle    TableStyle
	commentAuthor string
	pool          bufferPool
}

func defaultOptions() *Options {
	return &Options{
		logger:     zerolog.Nop(),
		tableStyle: DefaultTableStyle,
		pool:       new(bytebufferpool.Pool),
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures a Workbook or Worksheet.
type Option func(*Options)

// WithLogger sets the logger used for engine diagnostics (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithTableStyle sets the visual style of tables added with AddTable
// (default: TableStyleMedium9).
func WithTableStyle(s TableStyle) Option {
	return func(o *Options) { o.tableStyle = s }
}

// WithCommentAuthor sets the author recorded on cell comments.
func WithCommentAuthor(author string) Option {
	return func(o *Options) { o.commentAuthor = author }
}

// withBufferPool replaces the pool table text is leased from.
func withBufferPool(p bufferPool) Option {
	return func(o *Options) { o.pool = p }
}
