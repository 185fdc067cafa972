package language

// Source indicates where a language definition came from.
type Source int

const (
	// SourceBuiltIn indicates a definition embedded in the binary.
	SourceBuiltIn Source = iota
	// SourceUser indicates a definition read from disk.
	SourceUser
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceUser:
		return "user"
	default:
		return "unknown"
	}
}
