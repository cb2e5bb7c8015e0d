package wire

// Resolver maps a numeric network id to a live object handle. The object
// table is owned by the replication layer above; decode routines receive a
// Resolver instead of reaching for a process-wide lookup.
type Resolver interface {
	// Resolve returns the live object for id, or false if no object with
	// that id is currently known.
	Resolve(id uint32) (any, bool)
}

// ReadObject reads a u32 network id and resolves it through res. An id of 0
// denotes a null reference. An id that does not resolve yields nil without
// an error: the object may legitimately have been destroyed between encode
// and decode.
func (r *Reader) ReadObject(res Resolver) (any, error) {
	id, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	obj, ok := res.Resolve(id)
	if !ok {
		return nil, nil
	}
	return obj, nil
}
