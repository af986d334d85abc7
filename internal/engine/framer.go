package engine

// Framer tracks container nesting for decoders whose token streams do not
// distinguish object keys from string values (encoding/json, go-json).
type Framer struct {
	stack []framerFrame
}

type framerFrame struct {
	object       bool
	expectingKey bool
}

// Open records a '{' or '['.
func (f *Framer) Open(object bool) Kind {
	f.stack = append(f.stack, framerFrame{object: object, expectingKey: object})
	if object {
		return KindBeginObject
	}
	return KindBeginArray
}

// Close records a '}' or ']' and completes the parent member.
func (f *Framer) Close(object bool) Kind {
	if n := len(f.stack); n > 0 {
		f.stack = f.stack[:n-1]
	}
	f.Scalar()
	if object {
		return KindEndObject
	}
	return KindEndArray
}

// String classifies a string token as a key or a value.
func (f *Framer) String() Kind {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	f.Scalar()
	return KindString
}

// Scalar completes the current object member after a value.
func (f *Framer) Scalar() {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
