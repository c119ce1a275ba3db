package assert

import (
	"errors"
	"reflect"
	"runtime"
)

// Nil panics if err is not nil. Used for must-succeed initialisation steps.
func Nil(err error) {
	if err != nil {
		panic(err)
	}
}

// True panics with err if value is false.
func True(value bool, err error) {
	if !value {
		panic(err)
	}
}

// False panics with err if value is true.
func False(value bool, err error) {
	True(!value, err)
}

// NotNil panics if object is nil, including typed nil pointers.
func NotNil(object interface{}) {
	True(!IsNil(object), errors.New("assert: unexpected nil"))
}

// NotCircular guards singleton constructors against re-entry: it walks the
// current goroutine's stack and panics if the caller's function shows up
// again further down, which happens when two controller constructors end up
// depending on each other.
func NotCircular() {
	pc := make([]uintptr, 100)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])

	caller, more := frames.Next()
	for more {
		frame, m := frames.Next()
		more = m
		if frame.Function == caller.Function {
			panic("circular dependency in " + caller.Function)
		}
	}
}

// IsNil reports whether object is nil, handling typed nil values.
func IsNil(object interface{}) bool {
	if object == nil {
		return true
	}
	value := reflect.ValueOf(object)
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Array, reflect.Chan, reflect.Slice, reflect.Func:
		return value.IsNil()
	}
	return false
}
