// Package enrich resolves a notification's opaque details payload into
// display-ready fields. Each notification type registers its own decoder;
// the rest of the service never branches on concrete types.
package enrich

import "encoding/json"

// Detail 解码后的展示字段。
type Detail struct {
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// DecodeFunc 将某一类型的 details 负载解码为展示字段。
type DecodeFunc func(details json.RawMessage) (Detail, error)

// Registry 类型到解码器的查找表。
type Registry struct {
	decoders map[string]DecodeFunc
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: map[string]DecodeFunc{}}
}

// Register binds a decoder to a notification type, replacing any previous one.
func (r *Registry) Register(typ string, fn DecodeFunc) {
	if typ == "" || fn == nil {
		return
	}
	r.decoders[typ] = fn
}

// Decode 查找并执行该类型的解码器；未注册的类型返回 ok=false，
// 调用方应原样透传这类通知。
func (r *Registry) Decode(typ string, details json.RawMessage) (Detail, bool, error) {
	fn, ok := r.decoders[typ]
	if !ok {
		return Detail{}, false, nil
	}
	d, err := fn(details)
	if err != nil {
		return Detail{}, true, err
	}
	return d, true, nil
}

var defaultRegistry = NewRegistry()

// Default 返回进程级默认注册表，内置各业务类型的解码器。
func Default() *Registry {
	return defaultRegistry
}
