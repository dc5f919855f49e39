package xlsheet

import (
	"fmt"
	"net/url"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindURL
	KindBlank
	KindComment
	KindBool
	KindFormula
	KindDateTime
)

var kindNames = [...]string{"number", "text", "url", "blank", "comment", "bool", "formula", "datetime"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name ("number", "text", ...) back to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// Value is a cell value. The set of implementations is closed:
// Number, Text, URL, Blank, Comment, Bool, Formula and DateTime.
type Value interface {
	Kind() Kind
	isValue()
}

// Number is a numeric cell value.
type Number float64

// Text is a string cell value.
type Text string

// URL is a hyperlink to an absolute URI.
type URL struct {
	u *url.URL
}

// Blank writes no content; it is used to apply a format to an empty cell.
type Blank struct{}

// Comment is an annotation attached to a cell.
type Comment string

// Bool is a boolean cell value.
type Bool bool

// Formula is formula text such as "=SUM(A1:A3)". The leading '=' is optional.
type Formula string

// DateTime is written as a serial day number; see SerialDate.
type DateTime time.Time

func (Number) Kind() Kind   { return KindNumber }
func (Text) Kind() Kind     { return KindText }
func (URL) Kind() Kind      { return KindURL }
func (Blank) Kind() Kind    { return KindBlank }
func (Comment) Kind() Kind  { return KindComment }
func (Bool) Kind() Kind     { return KindBool }
func (Formula) Kind() Kind  { return KindFormula }
func (DateTime) Kind() Kind { return KindDateTime }

func (Number) isValue()   {}
func (Text) isValue()     {}
func (URL) isValue()      {}
func (Blank) isValue()    {}
func (Comment) isValue()  {}
func (Bool) isValue()     {}
func (Formula) isValue()  {}
func (DateTime) isValue() {}

// ParseURL parses raw into a URL value. Relative references are rejected,
// except the "internal:Sheet!A1" form used for links inside the workbook.
func ParseURL(raw string) (URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return URL{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return URL{u: u}, nil
}

// NewURL wraps an already parsed URL. It must be absolute.
func NewURL(u *url.URL) (URL, error) {
	if u == nil || !u.IsAbs() {
		return URL{}, ErrInvalidURL
	}
	return URL{u: u}, nil
}

// IsZero reports whether v wraps no URL, as the zero value URL{} does.
func (v URL) IsZero() bool {
	return v.u == nil
}

// String returns the absolute form of the URL.
func (v URL) String() string {
	if v.u == nil {
		return ""
	}
	return v.u.String()
}

// Time returns the wrapped timestamp.
func (d DateTime) Time() time.Time {
	return time.Time(d)
}

// Days between 1899-12-30, the xlsx serial date epoch, and 1970-01-01.
const unixEpochSerial = 25569

// SerialDate converts t to the container's serial day number:
// seconds since the Unix epoch / 86400 + 25569.
func SerialDate(t time.Time) float64 {
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return secs/86400 + unixEpochSerial
}

// ValueOf converts a Go value into a Value. nil becomes Blank; integer and
// float types become Number; time.Time becomes DateTime; *url.URL becomes
// URL. Values that already implement Value are returned unchanged. Other
// types are rendered with fmt as Text.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Blank{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case int:
		return Number(x), nil
	case int8:
		return Number(x), nil
	case int16:
		return Number(x), nil
	case int32:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case uint:
		return Number(x), nil
	case uint8:
		return Number(x), nil
	case uint16:
		return Number(x), nil
	case uint32:
		return Number(x), nil
	case uint64:
		return Number(x), nil
	case time.Time:
		return DateTime(x), nil
	case *url.URL:
		return NewURL(x)
	case fmt.Stringer:
		return Text(x.String()), nil
	default:
		return Text(fmt.Sprintf("%v", v)), nil
	}
}
