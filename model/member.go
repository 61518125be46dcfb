package model

// Member is a field or method together with its resolved lifecycle.
type Member struct {
	// Signature is the field name or the method name plus parameter list.
	Signature string      `json:"signature"`
	Info      VersionInfo `json:"info"`
}

// IsMethod reports whether the member is a method.
func (m Member) IsMethod() bool { return IsMethodSignature(m.Signature) }

// Name returns the member name without parameter list.
func (m Member) Name() string {
	for i := 0; i < len(m.Signature); i++ {
		if m.Signature[i] == '(' {
			return m.Signature[:i]
		}
	}
	return m.Signature
}
