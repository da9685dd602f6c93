package logging

// Fields is a set of key/value pairs attached to a log record.
type Fields map[string]any

// merge returns a new map holding f overlaid by each of others in turn.
// Later keys win. None of the inputs are modified.
func (f Fields) merge(others ...Fields) Fields {
	size := len(f)
	for _, o := range others {
		size += len(o)
	}
	out := make(Fields, size)
	for k, v := range f {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

func (f Fields) clone() Fields {
	return f.merge()
}
