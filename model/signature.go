package model

import "strings"

// ConstructorName is the method name of instance constructors.
const ConstructorName = "<init>"

// NormalizeSignature drops the return type from a method signature.
// Field signatures are returned unchanged.
func NormalizeSignature(sig string) string {
	if i := strings.IndexByte(sig, ')'); i >= 0 && strings.IndexByte(sig, '(') >= 0 {
		return sig[:i+1]
	}
	return sig
}

// MethodKey builds the normalized signature of a method from its name and
// raw descriptor. An empty descriptor yields the bare name, which is the
// signature of a field.
func MethodKey(name, desc string) string {
	if desc == "" {
		return name
	}
	return name + ParameterList(desc)
}

// ParameterList returns desc up to and including the closing parenthesis.
func ParameterList(desc string) string {
	if i := strings.IndexByte(desc, ')'); i >= 0 {
		return desc[:i+1]
	}
	return desc
}

// IsMethodSignature reports whether sig names a method.
func IsMethodSignature(sig string) bool {
	return strings.IndexByte(sig, '(') >= 0
}

// IsConstructor reports whether sig names an instance constructor.
func IsConstructor(sig string) bool {
	return strings.HasPrefix(sig, ConstructorName+"(")
}

// SplitClassName splits an internal class name such as "java/util/Map$Entry"
// into its package ("java/util") and simple name ("Map$Entry").
// Classes in the default package have an empty package.
func SplitClassName(name string) (pkg, simple string) {
	i := strings.LastIndexByte(name, '/')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// IsASCII reports whether s only contains printable single-byte characters
// usable in a zero-terminated entry.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] >= 0x80 {
			return false
		}
	}
	return true
}
