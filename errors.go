package indexbmp

import "fmt"

// Kind classifies the stage at which processing an image failed
type Kind int

// Error kinds
const (
	InputError Kind = iota + 1
	DecodeError
	DimensionError
	QuantizationError
	EncodingError
)

func (k Kind) String() string {
	switch k {
	case InputError:
		return "input error"
	case DecodeError:
		return "decode error"
	case DimensionError:
		return "dimension error"
	case QuantizationError:
		return "quantization error"
	case EncodingError:
		return "encoding error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error describes why an image could not be converted. Name is the source
// image, or archive entry, being processed.
type Error struct {
	Kind Kind
	Name string
	Err  error
}

// Sentinels for use with errors.Is
var (
	ErrInput        = &Error{Kind: InputError}
	ErrDecode       = &Error{Kind: DecodeError}
	ErrDimension    = &Error{Kind: DimensionError}
	ErrQuantization = &Error{Kind: QuantizationError}
	ErrEncoding     = &Error{Kind: EncodingError}
)

func (e *Error) Error() string {
	s := "indexbmp: "
	if e.Name != "" {
		s += e.Name + ": "
	}
	s += e.Kind.String()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any error of the same kind when target is one of the sentinels
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Name == "" && t.Err == nil
}

func newError(kind Kind, name string, err error) error {
	return &Error{Kind: kind, Name: name, Err: err}
}
