package jsonval

import (
	"os"
	"strconv"

	"github.com/joeycumines/go-utilpkg/jsonenc"

	"github.com/joinframework/join-sub004/threadpool"
)

// Marshal serializes v to compact JSON using jsonenc's allocation-light
// string/float encoders for the scalar leaves.
func Marshal(v Value) []byte {
	return appendValue(nil, v)
}

func appendValue(dst []byte, v Value) []byte {
	switch v.Kind() {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		if v.Bool() {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindNumber:
		return jsonenc.AppendFloat64(dst, v.Number())
	case KindString:
		return jsonenc.AppendString(dst, v.String())
	case KindArray:
		dst = append(dst, '[')
		for i, item := range v.Items() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendValue(dst, item)
		}
		return append(dst, ']')
	case KindObject:
		dst = append(dst, '{')
		for i, f := range v.Fields() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = jsonenc.AppendString(dst, f.Key)
			dst = append(dst, ':')
			dst = appendValue(dst, f.Value)
		}
		return append(dst, '}')
	default:
		panic("jsonval: unknown Kind " + strconv.Itoa(int(v.Kind())))
	}
}

// sharedPool is a small background pool used by WriteAsync so callers
// don't pay for a goroutine per call; it is never closed since it is a
// package-level convenience amortized across the common "fire a few
// background writes" case.
var sharedPool = mustPool()

func mustPool() *threadpool.Pool {
	p, err := threadpool.New(2)
	if err != nil {
		panic(err)
	}
	return p
}

// WriteAsync serializes v and writes it to path on a background worker,
// reporting completion on the returned channel. It exercises threadpool
// as the collaborator boundary: JSON writing is the client's concern,
// off-reactor execution is the core's.
func WriteAsync(path string, v Value) <-chan error {
	done := make(chan error, 1)
	data := Marshal(v)
	sharedPool.Push(func() {
		done <- os.WriteFile(path, data, 0o644)
	})
	return done
}
