package message

// Builder accumulates SnapMessage fields and produces a fresh,
// independent unsigned record on Build. Repeated setter calls
// overwrite the previous value; a Builder from NewBuilder starts with
// Version "0.1", Type request, and an empty-object payload.
type Builder struct {
	msg Message
}

// NewBuilder returns a Builder seeded with protocol defaults.
func NewBuilder() *Builder {
	return &Builder{msg: Message{
		Version: ProtocolVersion,
		Type:    TypeRequest,
		Payload: map[string]interface{}{},
	}}
}

func (b *Builder) ID(id string) *Builder {
	b.msg.ID = id
	return b
}

func (b *Builder) From(address string) *Builder {
	b.msg.From = address
	return b
}

func (b *Builder) To(address string) *Builder {
	b.msg.To = address
	return b
}

func (b *Builder) Kind(t Type) *Builder {
	b.msg.Type = t
	return b
}

func (b *Builder) Method(method string) *Builder {
	b.msg.Method = method
	return b
}

func (b *Builder) Payload(payload map[string]interface{}) *Builder {
	b.msg.Payload = payload
	return b
}

func (b *Builder) Timestamp(unixSeconds int64) *Builder {
	b.msg.Timestamp = unixSeconds
	return b
}

func (b *Builder) Sig(sig string) *Builder {
	b.msg.Sig = sig
	return b
}

// Build returns an independent copy of the accumulated message so
// later builder mutation cannot affect it.
func (b *Builder) Build() Message {
	return b.msg.Clone()
}
