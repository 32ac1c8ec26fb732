package framer

// NewDelimiterFactory returns a Factory producing DelimiterFramers
// configured with the given delimiter and unframed-byte bound. It panics if
// the parameters are invalid, since a Factory is normally built once at
// Server construction time from already-validated Config; use
// NewDelimiterFramer directly to handle invalid parameters as an error.
func NewDelimiterFactory(delimiter byte, maxUnframed int) Factory[string] {
	return FactoryFunc[string](func() Framer[string] {
		f, err := NewDelimiterFramer(delimiter, maxUnframed)
		if err != nil {
			panic(err)
		}
		return f
	})
}

// NewLengthPrefixFactory returns a Factory producing LengthPrefixFramers
// configured with the given header width and maximum message size. It
// panics if the parameters are invalid; see NewDelimiterFactory.
func NewLengthPrefixFactory(headerSize, maxMessageSize int) Factory[[]byte] {
	return FactoryFunc[[]byte](func() Framer[[]byte] {
		f, err := NewLengthPrefixFramer(headerSize, maxMessageSize)
		if err != nil {
			panic(err)
		}
		return f
	})
}
