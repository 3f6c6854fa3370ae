package rpc

import (
	"math"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/memoria-server/internal/apierrors"
)

// Reader decodes typed fields from a request message. The first decoding
// failure is kept and reported by Err; later reads return zero values.
type Reader struct {
	fields map[string]*structpb.Value
	err    error
}

// NewReader returns a Reader over req. A nil req reads as empty.
func NewReader(req *structpb.Struct) *Reader {
	return &Reader{fields: req.GetFields()}
}

// Err returns the first decoding failure as a validation error.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(err *apierrors.APIError) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) value(key string) (*structpb.Value, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// String returns a string field, or "" when absent.
func (r *Reader) String(key string) string {
	v := r.OptString(key)
	if v == nil {
		return ""
	}
	return *v
}

// OptString returns a string field, or nil when absent or null.
func (r *Reader) OptString(key string) *string {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.fail(apierrors.NewErrValidation("field %q must be a string", key))
		return nil
	}
	return &s.StringValue
}

// OptInt returns an integral number field, or nil when absent or null.
func (r *Reader) OptInt(key string) *int {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) ||
		n.NumberValue > math.MaxInt32 || n.NumberValue < math.MinInt32 {
		r.fail(apierrors.NewErrValidation("field %q must be an integer", key))
		return nil
	}
	i := int(n.NumberValue)
	return &i
}

// UUID returns a required id field.
func (r *Reader) UUID(key string) uuid.UUID {
	s := r.OptString(key)
	if r.err != nil {
		return uuid.Nil
	}
	if s == nil {
		r.fail(apierrors.NewErrValidation("field %q is required", key))
		return uuid.Nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		r.fail(apierrors.NewErrValidation("field %q must be a UUID", key))
		return uuid.Nil
	}
	return id
}
