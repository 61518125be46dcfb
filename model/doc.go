// Package model defines core types used throughout apilevel.
//
// # Versions
//
//   - Version: a platform API level in the range 1..127 (0 means "never")
//   - VersionInfo: the since/deprecated/removed triple of a class or member
//
// VersionInfo has a compact wire form of one to three bytes. The high bit of
// each byte is a continuation flag announcing that another optional version
// byte follows:
//
//	since                      -> [since]
//	since, deprecated          -> [since|0x80][deprecated]
//	since, removed             -> [since|0x80][0x80][removed]
//	since, deprecated, removed -> [since|0x80][deprecated|0x80][removed]
//
// # Signatures
//
// Members are identified by signatures. Field signatures are plain names;
// method signatures are the name followed by the parameter list, with the
// return type dropped:
//
//	model.MethodKey("array", "()Ljava/lang/Object;") // "array()"
package model
